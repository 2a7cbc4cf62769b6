package usecase

import "github.com/secmon-lab/riskform/pkg/domain/model"

// NewTestAssessment builds an assessment with the given weights, all answered YES
func NewTestAssessment(title string, weights ...int) *model.Assessment {
	a := &model.Assessment{Title: title, Validator: "Tester"}
	for _, w := range weights {
		a.Questions = append(a.Questions, model.Question{Text: title + " question", Response: "YES", Weight: w})
	}
	return a
}
