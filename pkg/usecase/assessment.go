package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskform/pkg/domain/interfaces"
	"github.com/secmon-lab/riskform/pkg/domain/model"
)

type AssessmentUseCase struct {
	repo         interfaces.Repository
	maxQuestions int
}

func NewAssessmentUseCase(repo interfaces.Repository, maxQuestions int) *AssessmentUseCase {
	return &AssessmentUseCase{
		repo:         repo,
		maxQuestions: maxQuestions,
	}
}

// Evaluate validates an assessment and scores its answered questions without
// storing anything. model.ErrNoQuestions is returned when nothing was answered.
func (uc *AssessmentUseCase) Evaluate(ctx context.Context, assessment *model.Assessment) (model.RiskScore, error) {
	if err := assessment.Validate(uc.maxQuestions); err != nil {
		return model.RiskScore{}, err
	}

	score, err := model.Score(assessment.AnsweredQuestions())
	if err != nil {
		return model.RiskScore{}, goerr.Wrap(err, "failed to score assessment", goerr.V("title", assessment.Title))
	}
	return score, nil
}

// CreateAssessment validates, scores and stores an assessment. Unanswered
// question slots are dropped before storing.
func (uc *AssessmentUseCase) CreateAssessment(ctx context.Context, assessment *model.Assessment) (*model.Assessment, model.RiskScore, error) {
	score, err := uc.Evaluate(ctx, assessment)
	if err != nil {
		return nil, model.RiskScore{}, err
	}

	stored := &model.Assessment{
		Title:     strings.TrimSpace(assessment.Title),
		Validator: strings.TrimSpace(assessment.Validator),
		Questions: assessment.AnsweredQuestions(),
	}

	created, err := uc.repo.Assessment().Create(ctx, stored)
	if err != nil {
		return nil, model.RiskScore{}, goerr.Wrap(err, "failed to create assessment")
	}

	return created, score, nil
}

// GetAssessment returns an assessment and its score. Stored assessments
// always have at least one answered question.
func (uc *AssessmentUseCase) GetAssessment(ctx context.Context, id model.AssessmentID) (*model.Assessment, model.RiskScore, error) {
	assessment, err := getAssessment(ctx, uc.repo, id)
	if err != nil {
		return nil, model.RiskScore{}, err
	}

	score, err := model.Score(assessment.AnsweredQuestions())
	if err != nil {
		return nil, model.RiskScore{}, goerr.Wrap(err, "failed to score assessment", goerr.V(AssessmentIDKey, id))
	}
	return assessment, score, nil
}

// ListAssessments returns stored assessments, newest first. A non-empty
// validator narrows the result to assessments signed by that validator.
func (uc *AssessmentUseCase) ListAssessments(ctx context.Context, validator string) ([]*model.Assessment, error) {
	var (
		assessments []*model.Assessment
		err         error
	)
	if validator = strings.TrimSpace(validator); validator != "" {
		assessments, err = uc.repo.Assessment().ListByValidator(ctx, validator)
	} else {
		assessments, err = uc.repo.Assessment().List(ctx)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments")
	}
	return assessments, nil
}

// DeleteAssessment removes a stored assessment
func (uc *AssessmentUseCase) DeleteAssessment(ctx context.Context, id model.AssessmentID) error {
	if err := uc.repo.Assessment().Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrAssessmentNotFound, "failed to delete assessment", goerr.V(AssessmentIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete assessment", goerr.V(AssessmentIDKey, id))
	}
	return nil
}

func getAssessment(ctx context.Context, repo interfaces.Repository, id model.AssessmentID) (*model.Assessment, error) {
	assessment, err := repo.Assessment().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrAssessmentNotFound, "failed to get assessment", goerr.V(AssessmentIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V(AssessmentIDKey, id))
	}
	return assessment, nil
}
