package models

import "time"

// Psychologist is a verified service provider offering bookable sessions.
type Psychologist struct {
	ID              string    `bson:"id" json:"id"`
	Name            string    `bson:"name" json:"name"`
	Email           string    `bson:"email" json:"email"`
	PasswordHash    string    `bson:"passwordHash" json:"-"`
	Specializations []string  `bson:"specializations" json:"specializations"`
	Bio             string    `bson:"bio,omitempty" json:"bio,omitempty"`
	ExperienceYears int       `bson:"experienceYears" json:"experienceYears"`
	Rating          float64   `bson:"rating" json:"rating"`
	RatingCount     int       `bson:"ratingCount" json:"ratingCount"`
	SessionFee      float64   `bson:"sessionFee" json:"sessionFee"`
	ProfileImageURL string    `bson:"profileImageUrl,omitempty" json:"profileImageUrl,omitempty"`
	Verified        bool      `bson:"verified" json:"verified"`
	FCMToken        string    `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PsychologistRegistration is the onboarding payload.
type PsychologistRegistration struct {
	Name            string   `json:"name" binding:"required"`
	Email           string   `json:"email" binding:"required,email"`
	Password        string   `json:"password" binding:"required,min=8"`
	Specializations []string `json:"specializations" binding:"required"`
	Bio             string   `json:"bio"`
	ExperienceYears int      `json:"experienceYears"`
	SessionFee      float64  `json:"sessionFee" binding:"required"`
}

// PsychologistFilter narrows discovery queries. All fields are optional;
// zero values mean "no constraint".
type PsychologistFilter struct {
	Specialization string  `form:"specialization"`
	MaxFee         float64 `form:"maxFee"`
	MinRating      float64 `form:"minRating"`
	VerifiedOnly   bool    `form:"verifiedOnly"`
}
