package scheduleRepo

import (
	"context"
	"errors"

	"mindcare/models"
)

// Sentinel errors surfaced by slot mutations.
var (
	// ErrScheduleNotFound means no schedule document exists for the
	// (psychologist, weekday) pair.
	ErrScheduleNotFound = errors.New("schedule not found")
	// ErrSlotUnavailable means the targeted slot is missing or already booked;
	// the conditional update matched nothing.
	ErrSlotUnavailable = errors.New("timeslot is not available")
)

// ScheduleRepository persists per-psychologist weekly schedules and performs
// the conditional slot flips that back bookings.
type ScheduleRepository interface {
	// GetByPsychologistAndDay returns the schedule for the pair, or (nil, nil)
	// when none exists.
	GetByPsychologistAndDay(ctx context.Context, psychologistID string, day models.Weekday) (*models.Schedule, error)

	// Upsert stores a full replacement of the slot list for the pair.
	Upsert(ctx context.Context, schedule *models.Schedule) (*models.Schedule, error)

	// ReserveSlot atomically flips the matching slot from available to booked.
	// Returns ErrSlotUnavailable when the slot is missing or already booked,
	// ErrScheduleNotFound when the pair has no schedule at all.
	ReserveSlot(ctx context.Context, psychologistID string, day models.Weekday, slot models.TimeSlot) error

	// ReleaseSlot is the inverse transition, used by cancellations.
	ReleaseSlot(ctx context.Context, psychologistID string, day models.Weekday, slot models.TimeSlot) error

	// BookSlotTransactionally inserts the appointment and reserves its slot in
	// one transaction; neither side is persisted if the other fails.
	BookSlotTransactionally(ctx context.Context, day models.Weekday, slot models.TimeSlot, appt *models.Appointment) error

	// CancelAppointmentTransactionally marks the appointment cancelled and
	// releases its slot in one transaction. Fails once the slot has started.
	CancelAppointmentTransactionally(ctx context.Context, appointmentID string) (*models.Appointment, error)
}
