package assessment

import (
	"context"
	"testing"

	"mindcare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssessmentRepo struct {
	created []*models.Assessment
}

func (f *fakeAssessmentRepo) Create(ctx context.Context, a *models.Assessment) error {
	f.created = append(f.created, a)
	return nil
}

func (f *fakeAssessmentRepo) ListByUser(ctx context.Context, userID string) ([]models.Assessment, error) {
	var out []models.Assessment
	for _, a := range f.created {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func TestScoreValidation(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		answers []int
		wantErr bool
		want    int
	}{
		{name: "unknown kind", kind: "mmpi", answers: []int{0}, wantErr: true},
		{name: "phq9 wrong length", kind: models.AssessmentPHQ9, answers: []int{1, 2, 3}, wantErr: true},
		{name: "answer above range", kind: models.AssessmentGAD7, answers: []int{0, 0, 0, 0, 0, 0, 4}, wantErr: true},
		{name: "answer below range", kind: models.AssessmentGAD7, answers: []int{0, 0, 0, 0, 0, 0, -1}, wantErr: true},
		{name: "phq9 sums", kind: models.AssessmentPHQ9, answers: []int{1, 1, 1, 1, 1, 1, 1, 1, 1}, want: 9},
		{name: "gad7 sums", kind: models.AssessmentGAD7, answers: []int{3, 3, 3, 3, 3, 3, 3}, want: 21},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Score(tt.kind, tt.answers)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeverityBands(t *testing.T) {
	phq9 := map[int]string{
		0: "minimal", 4: "minimal",
		5: "mild", 9: "mild",
		10: "moderate", 14: "moderate",
		15: "moderately severe", 19: "moderately severe",
		20: "severe", 27: "severe",
	}
	for score, want := range phq9 {
		assert.Equal(t, want, Severity(models.AssessmentPHQ9, score), "phq9 score %d", score)
	}

	gad7 := map[int]string{
		0: "minimal", 4: "minimal",
		5: "mild", 9: "mild",
		10: "moderate", 14: "moderate",
		15: "severe", 21: "severe",
	}
	for score, want := range gad7 {
		assert.Equal(t, want, Severity(models.AssessmentGAD7, score), "gad7 score %d", score)
	}
}

func TestSubmitStoresScoredAssessment(t *testing.T) {
	repo := &fakeAssessmentRepo{}
	svc := &DefaultAssessmentService{Repo: repo}

	got, err := svc.Submit(context.Background(), "user-1", models.SubmitAssessmentRequest{
		Kind:    models.AssessmentPHQ9,
		Answers: []int{2, 2, 2, 2, 2, 1, 1, 1, 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 14, got.Score)
	assert.Equal(t, "moderate", got.Severity)
	assert.NotEmpty(t, got.ID)
	require.Len(t, repo.created, 1)

	_, err = svc.Submit(context.Background(), "user-1", models.SubmitAssessmentRequest{
		Kind:    models.AssessmentPHQ9,
		Answers: []int{4, 0, 0, 0, 0, 0, 0, 0, 0},
	})
	assert.Error(t, err)
	assert.Len(t, repo.created, 1, "invalid submission must not be stored")
}
