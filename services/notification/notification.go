// Package notification sends FCM pushes for appointment lifecycle events.
package notification

import (
	"context"
	"fmt"

	psychologistRepo "mindcare/database/repository/psychologist"
	userRepo "mindcare/database/repository/user"
	"mindcare/models"
	"mindcare/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService sends FCM pushes.
type NotificationService interface {
	SendUserPush(ctx context.Context, userID, title, body string, data map[string]string) error
	SendPsychologistPush(ctx context.Context, psychologistID, title, body string, data map[string]string) error
	AppointmentConfirmed(ctx context.Context, appt *models.Appointment) error
	AppointmentCancelled(ctx context.Context, appt *models.Appointment) error
	AppointmentReminder(ctx context.Context, appt *models.Appointment) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Users         userRepo.UserRepository
	Psychologists psychologistRepo.PsychologistRepository
}

// SendUserPush looks up a user's FCM token and sends a push.
func (s *DefaultNotificationService) SendUserPush(ctx context.Context, userID, title, body string, data map[string]string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("push to user %s: %w", userID, err)
	}
	if u == nil || u.FCMToken == "" {
		return fmt.Errorf("push to user %s: no FCM token", userID)
	}
	return s.send(ctx, u.FCMToken, "user", title, body, data)
}

// SendPsychologistPush looks up a psychologist's FCM token and sends a push.
func (s *DefaultNotificationService) SendPsychologistPush(ctx context.Context, psychologistID, title, body string, data map[string]string) error {
	p, err := s.Psychologists.GetByID(ctx, psychologistID)
	if err != nil {
		return fmt.Errorf("push to psychologist %s: %w", psychologistID, err)
	}
	if p == nil || p.FCMToken == "" {
		return fmt.Errorf("push to psychologist %s: no FCM token", psychologistID)
	}
	return s.send(ctx, p.FCMToken, "psychologist", title, body, data)
}

// AppointmentConfirmed notifies both parties of a new booking. Failures on one
// side do not block the other.
func (s *DefaultNotificationService) AppointmentConfirmed(ctx context.Context, appt *models.Appointment) error {
	data := appointmentData(appt, "appointment_confirmed")
	body := fmt.Sprintf("Session on %s at %s", appt.AppointmentDate, appt.AppointmentTime)

	if err := s.SendUserPush(ctx, appt.UserID, "Appointment confirmed", body, data); err != nil {
		zap.L().Warn("confirmation push to user failed",
			zap.String("appointmentID", appt.ID), zap.Error(err))
	}
	if err := s.SendPsychologistPush(ctx, appt.PsychologistID, "New appointment", body, data); err != nil {
		zap.L().Warn("confirmation push to psychologist failed",
			zap.String("appointmentID", appt.ID), zap.Error(err))
	}
	return nil
}

// AppointmentCancelled notifies both parties of a cancellation.
func (s *DefaultNotificationService) AppointmentCancelled(ctx context.Context, appt *models.Appointment) error {
	data := appointmentData(appt, "appointment_cancelled")
	body := fmt.Sprintf("Session on %s at %s was cancelled", appt.AppointmentDate, appt.AppointmentTime)

	if err := s.SendUserPush(ctx, appt.UserID, "Appointment cancelled", body, data); err != nil {
		zap.L().Warn("cancellation push to user failed",
			zap.String("appointmentID", appt.ID), zap.Error(err))
	}
	if err := s.SendPsychologistPush(ctx, appt.PsychologistID, "Appointment cancelled", body, data); err != nil {
		zap.L().Warn("cancellation push to psychologist failed",
			zap.String("appointmentID", appt.ID), zap.Error(err))
	}
	return nil
}

// AppointmentReminder pushes the pre-session reminder to the user.
func (s *DefaultNotificationService) AppointmentReminder(ctx context.Context, appt *models.Appointment) error {
	data := appointmentData(appt, "appointment_reminder")
	body := fmt.Sprintf("Your session starts at %s", appt.AppointmentTime)
	return s.SendUserPush(ctx, appt.UserID, "Upcoming session", body, data)
}

func (s *DefaultNotificationService) send(ctx context.Context, token, role, title, body string, data map[string]string) error {
	if data == nil {
		data = map[string]string{}
	}
	if _, ok := data["role"]; !ok {
		data["role"] = role
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "appointments",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	response, err := utils.FCMClient.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("fcm send failed: %w", err)
	}
	zap.L().Debug("fcm message sent", zap.String("response", response))
	return nil
}

func appointmentData(appt *models.Appointment, event string) map[string]string {
	return map[string]string{
		"event":         event,
		"appointmentId": appt.ID,
		"date":          appt.AppointmentDate,
		"time":          appt.AppointmentTime,
	}
}
