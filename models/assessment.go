package models

import "time"

// Supported self-assessment questionnaires.
const (
	AssessmentPHQ9 = "phq9"
	AssessmentGAD7 = "gad7"
)

// Assessment is a completed self-assessment with its server-side score.
type Assessment struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	Kind      string    `bson:"kind" json:"kind"`
	Answers   []int     `bson:"answers" json:"answers"` // 0..3 per question
	Score     int       `bson:"score" json:"score"`
	Severity  string    `bson:"severity" json:"severity"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// SubmitAssessmentRequest is the submission payload; scoring happens server-side.
type SubmitAssessmentRequest struct {
	Kind    string `json:"kind" binding:"required"`
	Answers []int  `json:"answers" binding:"required"`
}
