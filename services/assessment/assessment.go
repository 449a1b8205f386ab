// Package assessment scores the self-assessment questionnaires (PHQ-9, GAD-7)
// server-side using their standard severity cutoffs.
package assessment

import (
	"context"
	"fmt"
	"time"

	assessmentRepo "mindcare/database/repository/assessment"
	"mindcare/models"

	"github.com/google/uuid"
)

// questionCount per questionnaire kind.
var questionCount = map[string]int{
	models.AssessmentPHQ9: 9,
	models.AssessmentGAD7: 7,
}

// AssessmentService scores and stores questionnaires.
type AssessmentService interface {
	Submit(ctx context.Context, userID string, req models.SubmitAssessmentRequest) (*models.Assessment, error)
	History(ctx context.Context, userID string) ([]models.Assessment, error)
}

// DefaultAssessmentService is the concrete implementation.
type DefaultAssessmentService struct {
	Repo assessmentRepo.AssessmentRepository
}

// Submit validates the answer sheet, scores it, and stores the result.
func (s *DefaultAssessmentService) Submit(ctx context.Context, userID string, req models.SubmitAssessmentRequest) (*models.Assessment, error) {
	score, err := Score(req.Kind, req.Answers)
	if err != nil {
		return nil, err
	}

	a := &models.Assessment{
		ID:        uuid.New().String(),
		UserID:    userID,
		Kind:      req.Kind,
		Answers:   req.Answers,
		Score:     score,
		Severity:  Severity(req.Kind, score),
		CreatedAt: time.Now(),
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *DefaultAssessmentService) History(ctx context.Context, userID string) ([]models.Assessment, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Score sums the answer sheet after validating kind, length, and answer range
// (each answer is 0..3).
func Score(kind string, answers []int) (int, error) {
	want, ok := questionCount[kind]
	if !ok {
		return 0, fmt.Errorf("unknown assessment kind %q", kind)
	}
	if len(answers) != want {
		return 0, fmt.Errorf("%s requires %d answers, got %d", kind, want, len(answers))
	}
	total := 0
	for i, a := range answers {
		if a < 0 || a > 3 {
			return 0, fmt.Errorf("answer %d out of range: %d", i+1, a)
		}
		total += a
	}
	return total, nil
}

// Severity maps a score to its published severity band.
func Severity(kind string, score int) string {
	switch kind {
	case models.AssessmentPHQ9:
		switch {
		case score <= 4:
			return "minimal"
		case score <= 9:
			return "mild"
		case score <= 14:
			return "moderate"
		case score <= 19:
			return "moderately severe"
		default:
			return "severe"
		}
	case models.AssessmentGAD7:
		switch {
		case score <= 4:
			return "minimal"
		case score <= 9:
			return "mild"
		case score <= 14:
			return "moderate"
		default:
			return "severe"
		}
	}
	return "unknown"
}
