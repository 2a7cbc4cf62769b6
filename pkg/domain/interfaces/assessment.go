package interfaces

import (
	"context"

	"github.com/secmon-lab/riskform/pkg/domain/model"
)

type AssessmentRepository interface {
	// Create stores a new assessment. ID and CreatedAt are assigned when empty.
	Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error)

	// Get retrieves an assessment by ID
	Get(ctx context.Context, id model.AssessmentID) (*model.Assessment, error)

	// List retrieves all assessments, newest first
	List(ctx context.Context) ([]*model.Assessment, error)

	// ListByValidator retrieves assessments signed by validator, newest first
	ListByValidator(ctx context.Context, validator string) ([]*model.Assessment, error)

	// Delete deletes an assessment by ID
	Delete(ctx context.Context, id model.AssessmentID) error
}
