package handlers

// HandlerBundle groups all endpoint handlers so routes can be registered from
// one wiring point.
type HandlerBundle struct {
	Auth          *AuthHandler
	Users         *UserHandler
	Psychologists *PsychologistHandler
	Availability  *AvailabilityHandler
	Booking       *BookingHandler
	Appointments  *AppointmentHandler
	Moods         *MoodHandler
	Assessments   *AssessmentHandler
	Chat          *ChatHandler
	Subscriptions *SubscriptionHandler
}
