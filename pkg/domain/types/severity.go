package types

import (
	"github.com/shopspring/decimal"
)

// SeverityBand is the classification of a risk percentage
type SeverityBand string

const (
	SeverityLow      SeverityBand = "LOW"
	SeverityModerate SeverityBand = "MODERATE"
	SeverityHigh     SeverityBand = "HIGH"
	SeverityCritical SeverityBand = "CRITICAL"
)

var (
	lowCeiling      = decimal.NewFromInt(25)
	moderateCeiling = decimal.NewFromInt(50)
	highCeiling     = decimal.NewFromInt(75)
)

// AllSeverityBands returns all bands ordered from the lowest to the highest risk
func AllSeverityBands() []SeverityBand {
	return []SeverityBand{
		SeverityLow,
		SeverityModerate,
		SeverityHigh,
		SeverityCritical,
	}
}

// ClassifySeverity maps a risk percentage to its band. Each band includes its
// upper bound: 25 is Low, 25.01 is Moderate.
func ClassifySeverity(pct decimal.Decimal) SeverityBand {
	switch {
	case pct.LessThanOrEqual(lowCeiling):
		return SeverityLow
	case pct.LessThanOrEqual(moderateCeiling):
		return SeverityModerate
	case pct.LessThanOrEqual(highCeiling):
		return SeverityHigh
	default:
		return SeverityCritical
	}
}

// IsValid checks if the band is valid
func (b SeverityBand) IsValid() bool {
	switch b {
	case SeverityLow, SeverityModerate, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

// Color returns the gauge color of the band as a hex string
func (b SeverityBand) Color() string {
	switch b {
	case SeverityLow:
		return "#2E7D32"
	case SeverityModerate:
		return "#F9A825"
	case SeverityHigh:
		return "#EF6C00"
	case SeverityCritical:
		return "#C62828"
	default:
		return "#9E9E9E"
	}
}

// Emoji returns the Slack emoji shortcode of the band
func (b SeverityBand) Emoji() string {
	switch b {
	case SeverityLow:
		return ":large_green_circle:"
	case SeverityModerate:
		return ":large_yellow_circle:"
	case SeverityHigh:
		return ":large_orange_circle:"
	case SeverityCritical:
		return ":red_circle:"
	default:
		return ":white_circle:"
	}
}

// String returns the string representation of the band
func (b SeverityBand) String() string {
	return string(b)
}
