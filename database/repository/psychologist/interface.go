package psychologistRepo

import (
	"context"

	"mindcare/models"
)

// PsychologistRepository persists psychologist profiles and serves discovery
// queries.
type PsychologistRepository interface {
	Create(ctx context.Context, p *models.Psychologist) error
	GetByID(ctx context.Context, psychologistID string) (*models.Psychologist, error)
	GetByEmail(ctx context.Context, email string) (*models.Psychologist, error)
	List(ctx context.Context, filter models.PsychologistFilter) ([]models.Psychologist, error)
	Update(ctx context.Context, psychologistID string, fields map[string]interface{}) error
	AddRating(ctx context.Context, psychologistID string, rating float64) error
}
