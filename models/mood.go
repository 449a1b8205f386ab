package models

import "time"

// Mood labels accepted by the tracker.
const (
	MoodVeryBad  = "very_bad"
	MoodBad      = "bad"
	MoodNeutral  = "neutral"
	MoodGood     = "good"
	MoodVeryGood = "very_good"
)

// MoodEntry is one mood check-in; at most one per user per calendar date.
type MoodEntry struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	Mood      string    `bson:"mood" json:"mood"`
	Score     int       `bson:"score" json:"score"` // 1..5, derived from Mood
	Note      string    `bson:"note,omitempty" json:"note,omitempty"`
	Date      string    `bson:"date" json:"date"` // "YYYY-MM-DD"
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// MoodSummary aggregates a user's recent check-ins.
type MoodSummary struct {
	Days         int     `json:"days"`
	Entries      int     `json:"entries"`
	AverageScore float64 `json:"averageScore"`
}

// MoodScore maps a mood label to its 1..5 score; 0 for unknown labels.
func MoodScore(mood string) int {
	switch mood {
	case MoodVeryBad:
		return 1
	case MoodBad:
		return 2
	case MoodNeutral:
		return 3
	case MoodGood:
		return 4
	case MoodVeryGood:
		return 5
	}
	return 0
}
