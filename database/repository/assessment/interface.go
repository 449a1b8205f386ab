package assessmentRepo

import (
	"context"

	"mindcare/models"
)

// AssessmentRepository persists completed self-assessments.
type AssessmentRepository interface {
	Create(ctx context.Context, a *models.Assessment) error
	ListByUser(ctx context.Context, userID string) ([]models.Assessment, error)
}
