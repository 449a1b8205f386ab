package models

// BookingSession is the Redis-cached state of an in-progress booking flow:
// the user starts a session against a psychologist, picks a slot, then confirms.
type BookingSession struct {
	SessionID        string     `json:"sessionId"`
	UserID           string     `json:"userId"`
	PsychologistID   string     `json:"psychologistId"`
	Date             string     `json:"date"` // "YYYY-MM-DD"
	AvailableSlots   []TimeSlot `json:"availableSlots"`
	SelectedSlot     *TimeSlot  `json:"selectedSlot,omitempty"`
	ConsultationType string     `json:"consultationType"`
	Fee              float64    `json:"fee"`
	PaymentIntentID  string     `json:"paymentIntentId,omitempty"`
	PaymentSecret    string     `json:"paymentSecret,omitempty"`
}

// BookingRequestInput updates a session with the chosen slot.
type BookingRequestInput struct {
	Slot             TimeSlot `json:"slot" binding:"required"`
	ConsultationType string   `json:"consultationType"`
}

// ReminderPayload is the asynq task body for an appointment reminder.
type ReminderPayload struct {
	AppointmentID  string `json:"appointmentId"`
	UserID         string `json:"userId"`
	PsychologistID string `json:"psychologistId"`
	Date           string `json:"date"`
	TimeRange      string `json:"timeRange"`
}
