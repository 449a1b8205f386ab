package models

import "time"

// Appointment statuses.
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Payment statuses.
const (
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Consultation channels.
const (
	ConsultationVideo = "video"
	ConsultationChat  = "chat"
)

// Appointment represents a confirmed booking record.
type Appointment struct {
	ID               string    `bson:"id" json:"id"`
	UserID           string    `bson:"userId" json:"userId"`
	PsychologistID   string    `bson:"psychologistId" json:"psychologistId"`
	AppointmentDate  string    `bson:"appointmentDate" json:"appointmentDate"` // "YYYY-MM-DD"
	AppointmentTime  string    `bson:"appointmentTime" json:"appointmentTime"` // "HH:MM-HH:MM"
	Status           string    `bson:"status" json:"status"`
	PaymentStatus    string    `bson:"paymentStatus" json:"paymentStatus"`
	ConsultationType string    `bson:"consultationType" json:"consultationType"`
	ChatRoomID       string    `bson:"chatRoomId,omitempty" json:"chatRoomId,omitempty"`
	Fee              float64   `bson:"fee" json:"fee"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}

// StartsAt resolves the appointment's wall-clock start from its date and time range.
func (a Appointment) StartsAt() (time.Time, error) {
	start := a.AppointmentTime
	if idx := len("HH:MM"); len(start) > idx {
		start = start[:idx]
	}
	return time.ParseInLocation("2006-01-02 15:04", a.AppointmentDate+" "+start, time.Local)
}
