package appointmentRepo

import (
	"context"

	"mindcare/models"
)

// AppointmentRepository reads and updates appointment records. Creation goes
// through the schedule repository's booking transaction, never here.
type AppointmentRepository interface {
	GetByID(ctx context.Context, appointmentID string) (*models.Appointment, error)
	ListByUser(ctx context.Context, userID string) ([]models.Appointment, error)
	ListByPsychologist(ctx context.Context, psychologistID string) ([]models.Appointment, error)
	ListForDate(ctx context.Context, psychologistID, date string) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, appointmentID, status string) error
	UpdatePaymentStatus(ctx context.Context, appointmentID, paymentStatus string) error
	SetChatRoom(ctx context.Context, appointmentID, chatRoomID string) error
}
