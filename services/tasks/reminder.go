// Package tasks builds the asynq tasks enqueued by the booking engine.
package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"mindcare/config"
	"mindcare/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeAppointmentReminder is the asynq task type for appointment reminders.
const TypeAppointmentReminder = "reminder:appointment"

// reminderLead is how long before the session start the reminder fires.
const reminderLead = time.Hour

// NewReminderTask builds a reminder task scheduled to process at fireAt.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeAppointmentReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// Scheduler enqueues reminder tasks onto the reminder queue.
type Scheduler struct {
	client *asynq.Client
}

// NewScheduler connects an asynq client to the reminder queue Redis DB.
func NewScheduler() *Scheduler {
	return &Scheduler{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisReminderQueueDB,
		}),
	}
}

// ScheduleAppointmentReminder enqueues a reminder an hour before the session.
// Appointments starting sooner than that get no reminder.
func (s *Scheduler) ScheduleAppointmentReminder(appt *models.Appointment) error {
	start, err := appt.StartsAt()
	if err != nil {
		return fmt.Errorf("reminder for appointment %s: %w", appt.ID, err)
	}
	fireAt := start.Add(-reminderLead)
	if !fireAt.After(time.Now()) {
		zap.L().Debug("skipping reminder, appointment starts too soon",
			zap.String("appointmentID", appt.ID))
		return nil
	}

	task, opts, err := NewReminderTask(models.ReminderPayload{
		AppointmentID:  appt.ID,
		UserID:         appt.UserID,
		PsychologistID: appt.PsychologistID,
		Date:           appt.AppointmentDate,
		TimeRange:      appt.AppointmentTime,
	}, fireAt)
	if err != nil {
		return err
	}

	info, err := s.client.Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue reminder for appointment %s: %w", appt.ID, err)
	}
	zap.L().Info("scheduled appointment reminder",
		zap.String("appointmentID", appt.ID),
		zap.String("taskID", info.ID),
		zap.Time("fireAt", fireAt))
	return nil
}

// Close releases the underlying asynq client.
func (s *Scheduler) Close() error {
	return s.client.Close()
}
