package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskform/pkg/domain/types"
)

const (
	MinWeight = 0
	MaxWeight = 100
)

// Question is one weighted yes/no item of an assessment
type Question struct {
	Text     string
	Response types.Response
	Weight   int
}

// IsAnswered reports whether the question has text and therefore takes part in scoring
func (q Question) IsAnswered() bool {
	return strings.TrimSpace(q.Text) != ""
}

// Validate checks response and weight range
func (q Question) Validate() error {
	if !q.Response.IsValid() {
		return goerr.Wrap(ErrInvalidResponse, "invalid question", goerr.V(ResponseKey, q.Response))
	}
	if q.Weight < MinWeight || q.Weight > MaxWeight {
		return goerr.Wrap(ErrInvalidWeight, "invalid question", goerr.V(WeightKey, q.Weight))
	}
	return nil
}
