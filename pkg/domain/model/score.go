package model

import (
	"github.com/secmon-lab/riskform/pkg/domain/types"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RiskScore is the derived risk of a set of questions. It is never stored,
// callers recompute it whenever the questions change.
type RiskScore struct {
	Percentage    decimal.Decimal
	Band          types.SeverityBand
	QuestionCount int
	WeightSum     int
}

// Score computes sum(weights) / (N * 100) * 100 over questions, which is the
// arithmetic mean of the weights expressed as a percentage. The denominator
// assumes every weight is within [0, 100]. Empty input returns ErrNoQuestions.
func Score(questions []Question) (RiskScore, error) {
	if len(questions) == 0 {
		return RiskScore{}, ErrNoQuestions
	}

	sum := 0
	for _, q := range questions {
		sum += q.Weight
	}

	maxTotal := decimal.NewFromInt(int64(len(questions))).Mul(hundred)
	pct := decimal.NewFromInt(int64(sum)).Div(maxTotal).Mul(hundred)

	return RiskScore{
		Percentage:    pct,
		Band:          types.ClassifySeverity(pct),
		QuestionCount: len(questions),
		WeightSum:     sum,
	}, nil
}

// Float returns the percentage as float64
func (s RiskScore) Float() float64 {
	return s.Percentage.InexactFloat64()
}

// String formats the percentage with two decimals, e.g. "30.00%"
func (s RiskScore) String() string {
	return s.Percentage.StringFixed(2) + "%"
}
