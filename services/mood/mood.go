// Package mood implements the daily mood tracker.
package mood

import (
	"context"
	"fmt"
	"time"

	moodRepo "mindcare/database/repository/mood"
	"mindcare/models"

	"github.com/google/uuid"
)

// MoodService records and summarizes daily check-ins.
type MoodService interface {
	Record(ctx context.Context, userID, mood, note, date string) (*models.MoodEntry, error)
	History(ctx context.Context, userID, fromDate, toDate string) ([]models.MoodEntry, error)
	Summary(ctx context.Context, userID string, days int) (*models.MoodSummary, error)
}

// DefaultMoodService is the concrete implementation.
type DefaultMoodService struct {
	Repo moodRepo.MoodRepository
}

// Record stores the day's check-in; re-recording the same date overwrites it.
// An empty date means today.
func (s *DefaultMoodService) Record(ctx context.Context, userID, mood, note, date string) (*models.MoodEntry, error) {
	score := models.MoodScore(mood)
	if score == 0 {
		return nil, fmt.Errorf("unknown mood %q", mood)
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}

	entry := &models.MoodEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		Mood:      mood,
		Score:     score,
		Note:      note,
		Date:      date,
		CreatedAt: time.Now(),
	}
	if err := s.Repo.Upsert(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *DefaultMoodService) History(ctx context.Context, userID, fromDate, toDate string) ([]models.MoodEntry, error) {
	return s.Repo.ListByUser(ctx, userID, fromDate, toDate)
}

// Summary averages the scores recorded over the trailing window.
func (s *DefaultMoodService) Summary(ctx context.Context, userID string, days int) (*models.MoodSummary, error) {
	if days <= 0 {
		days = 7
	}
	to := time.Now()
	from := to.AddDate(0, 0, -(days - 1))
	entries, err := s.Repo.ListByUser(ctx, userID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	summary := &models.MoodSummary{Days: days, Entries: len(entries)}
	if len(entries) == 0 {
		return summary, nil
	}
	total := 0
	for _, e := range entries {
		total += e.Score
	}
	summary.AverageScore = float64(total) / float64(len(entries))
	return summary, nil
}
