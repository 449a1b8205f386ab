package models

import "time"

// ChatRoom links a user and a psychologist, created lazily when the first
// confirmed appointment between them needs a chat channel.
type ChatRoom struct {
	ID             string    `bson:"id" json:"id"`
	UserID         string    `bson:"userId" json:"userId"`
	PsychologistID string    `bson:"psychologistId" json:"psychologistId"`
	AppointmentID  string    `bson:"appointmentId,omitempty" json:"appointmentId,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}

// ChatMessage is a single message in a room.
type ChatMessage struct {
	ID       string    `bson:"id" json:"id"`
	RoomID   string    `bson:"roomId" json:"roomId"`
	SenderID string    `bson:"senderId" json:"senderId"`
	Body     string    `bson:"body" json:"body"`
	SentAt   time.Time `bson:"sentAt" json:"sentAt"`
	Read     bool      `bson:"read" json:"read"`
}

// SendMessageRequest is the message payload.
type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}
