// Package booking drives the three-phase booking flow: start a session against
// a psychologist, pick one of the open slots, confirm. Confirmation creates the
// appointment and reserves its slot in a single transaction, so a booking can
// never report success while its slot stayed open.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	appointmentRepo "mindcare/database/repository/appointment"
	psychologistRepo "mindcare/database/repository/psychologist"
	scheduleRepo "mindcare/database/repository/schedule"
	"mindcare/models"
	"mindcare/services/availability"
	"mindcare/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrSessionNotFound means the booking session expired or never existed.
	ErrSessionNotFound = errors.New("booking session not found or expired")
	// ErrNoSlotSelected means Confirm was called before a slot was chosen.
	ErrNoSlotSelected = errors.New("no timeslot selected for this session")
	// ErrSlotUnavailable re-exports the reservation conflict for handlers.
	ErrSlotUnavailable = scheduleRepo.ErrSlotUnavailable
	// ErrAppointmentNotFound means the appointment does not exist or is not the caller's.
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Notifier delivers booking lifecycle notifications.
type Notifier interface {
	AppointmentConfirmed(ctx context.Context, appt *models.Appointment) error
	AppointmentCancelled(ctx context.Context, appt *models.Appointment) error
}

// ReminderScheduler enqueues a reminder to fire before the appointment starts.
type ReminderScheduler interface {
	ScheduleAppointmentReminder(appt *models.Appointment) error
}

// PaymentProvider creates payment intents for session fees and reports
// whether an intent has settled.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, amount float64, metadata map[string]string) (id, clientSecret string, err error)
	IntentSucceeded(ctx context.Context, intentID string) (bool, error)
}

// BookingService defines the booking session operations.
type BookingService interface {
	StartSession(ctx context.Context, userID, psychologistID, date, consultationType string) (*models.BookingSession, error)
	SelectSlot(ctx context.Context, userID, sessionID string, input models.BookingRequestInput) (*models.BookingSession, error)
	Confirm(ctx context.Context, userID, sessionID string) (*models.Appointment, error)
	CancelSession(ctx context.Context, sessionID string) error
	CancelAppointment(ctx context.Context, userID, appointmentID string) (*models.Appointment, error)
}

// DefaultBookingService is the concrete booking engine.
type DefaultBookingService struct {
	Availability  availability.AvailabilityService
	ScheduleRepo  scheduleRepo.ScheduleRepository
	Appointments  appointmentRepo.AppointmentRepository
	Psychologists psychologistRepo.PsychologistRepository
	Sessions      SessionStore
	Payments      PaymentProvider
	Notifier      Notifier
	Reminders     ReminderScheduler
}

// StartSession computes the open slots for the pair and caches a session the
// client updates and confirms within the TTL.
func (s *DefaultBookingService) StartSession(ctx context.Context, userID, psychologistID, date, consultationType string) (*models.BookingSession, error) {
	psych, err := s.Psychologists.GetByID(ctx, psychologistID)
	if err != nil {
		return nil, fmt.Errorf("failed to load psychologist: %w", err)
	}
	if psych == nil {
		return nil, fmt.Errorf("psychologist %s not found", psychologistID)
	}

	slots, err := s.Availability.ListAvailableSlots(ctx, psychologistID, date)
	if err != nil {
		return nil, err
	}

	if consultationType == "" {
		consultationType = models.ConsultationVideo
	}
	session := &models.BookingSession{
		SessionID:        uuid.New().String(),
		UserID:           userID,
		PsychologistID:   psychologistID,
		Date:             date,
		AvailableSlots:   slots,
		ConsultationType: consultationType,
		Fee:              psych.SessionFee,
	}
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectSlot pins the chosen slot on the session and, when a payment provider
// is configured, attaches a payment intent for the session fee.
func (s *DefaultBookingService) SelectSlot(ctx context.Context, userID, sessionID string, input models.BookingRequestInput) (*models.BookingSession, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}

	chosen := input.Slot
	found := false
	for _, ts := range session.AvailableSlots {
		if ts.Matches(chosen) {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrSlotUnavailable
	}

	session.SelectedSlot = &chosen
	if input.ConsultationType != "" {
		session.ConsultationType = input.ConsultationType
	}

	if s.Payments != nil && session.Fee > 0 {
		intentID, clientSecret, err := s.Payments.CreateIntent(ctx, session.Fee, map[string]string{
			"userId":         session.UserID,
			"psychologistId": session.PsychologistID,
			"date":           session.Date,
			"slot":           chosen.Range(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create payment intent: %w", err)
		}
		session.PaymentIntentID = intentID
		session.PaymentSecret = clientSecret
	}

	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Confirm turns the session into an appointment. Slot reservation and
// appointment insertion share one transaction; ErrSlotUnavailable means
// someone else took the slot between listing and confirming.
func (s *DefaultBookingService) Confirm(ctx context.Context, userID, sessionID string) (*models.Appointment, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	if session.SelectedSlot == nil {
		return nil, ErrNoSlotSelected
	}

	day, err := availability.WeekdayOfDate(session.Date)
	if err != nil {
		return nil, err
	}

	// The intent ID only proves an intent was created; the appointment is
	// recorded as paid only once the provider confirms the charge settled.
	paymentStatus := models.PaymentUnpaid
	if session.PaymentIntentID != "" {
		paid, err := s.Payments.IntentSucceeded(ctx, session.PaymentIntentID)
		if err != nil {
			return nil, fmt.Errorf("failed to verify payment: %w", err)
		}
		if paid {
			paymentStatus = models.PaymentPaid
		}
	}
	now := time.Now()
	appt := &models.Appointment{
		ID:               uuid.New().String(),
		UserID:           session.UserID,
		PsychologistID:   session.PsychologistID,
		AppointmentDate:  session.Date,
		AppointmentTime:  session.SelectedSlot.Range(),
		Status:           models.AppointmentConfirmed,
		PaymentStatus:    paymentStatus,
		ConsultationType: session.ConsultationType,
		Fee:              session.Fee,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.ScheduleRepo.BookSlotTransactionally(ctx, day, *session.SelectedSlot, appt); err != nil {
		return nil, err
	}
	s.deleteSession(ctx, sessionID)

	if s.Notifier != nil {
		if err := s.Notifier.AppointmentConfirmed(ctx, appt); err != nil {
			utils.GetLogger().Warn("booking: confirmation notification failed",
				zap.String("appointmentId", appt.ID), zap.Error(err))
		}
	}
	if s.Reminders != nil {
		if err := s.Reminders.ScheduleAppointmentReminder(appt); err != nil {
			utils.GetLogger().Warn("booking: reminder scheduling failed",
				zap.String("appointmentId", appt.ID), zap.Error(err))
		}
	}
	return appt, nil
}

// CancelSession drops an in-progress session.
func (s *DefaultBookingService) CancelSession(ctx context.Context, sessionID string) error {
	s.deleteSession(ctx, sessionID)
	return nil
}

// CancelAppointment cancels a confirmed appointment and releases its slot in
// one transaction. Only a party to the appointment may cancel it.
func (s *DefaultBookingService) CancelAppointment(ctx context.Context, userID, appointmentID string) (*models.Appointment, error) {
	appt, err := s.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	if appt.UserID != userID && appt.PsychologistID != userID {
		return nil, ErrAppointmentNotFound
	}

	cancelled, err := s.ScheduleRepo.CancelAppointmentTransactionally(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		if err := s.Notifier.AppointmentCancelled(ctx, cancelled); err != nil {
			utils.GetLogger().Warn("booking: cancellation notification failed",
				zap.String("appointmentId", cancelled.ID), zap.Error(err))
		}
	}
	return cancelled, nil
}

func (s *DefaultBookingService) saveSession(ctx context.Context, session *models.BookingSession) error {
	return s.Sessions.Save(ctx, session)
}

func (s *DefaultBookingService) loadSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	return s.Sessions.Load(ctx, sessionID)
}

func (s *DefaultBookingService) deleteSession(ctx context.Context, sessionID string) {
	if err := s.Sessions.Delete(ctx, sessionID); err != nil {
		utils.GetLogger().Warn("booking: failed to drop session", zap.String("sessionId", sessionID), zap.Error(err))
	}
}
