package moodRepo

import (
	"context"

	"mindcare/models"
)

// MoodRepository persists mood check-ins, keyed one-per-day per user.
type MoodRepository interface {
	Upsert(ctx context.Context, entry *models.MoodEntry) error
	ListByUser(ctx context.Context, userID, fromDate, toDate string) ([]models.MoodEntry, error)
}
