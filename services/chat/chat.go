// Package chat runs the in-app messaging between a user and their
// psychologist. Rooms are opened against a confirmed appointment; live
// delivery rides on the repository's change-stream subscription.
package chat

import (
	"context"
	"errors"
	"time"

	appointmentRepo "mindcare/database/repository/appointment"
	chatRepo "mindcare/database/repository/chat"
	"mindcare/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNotParticipant is returned when the caller is neither side of the room.
	ErrNotParticipant = errors.New("not a participant of this chat room")
	// ErrRoomNotFound is returned for unknown room ids.
	ErrRoomNotFound = errors.New("chat room not found")
	// ErrAppointmentNotChattable is returned when no confirmed appointment backs the room.
	ErrAppointmentNotChattable = errors.New("appointment is not confirmed")
)

// Subscription is a live feed of new messages in one room. Cancel must be
// called when the consumer goes away; Messages is closed afterwards.
type Subscription struct {
	Messages <-chan models.ChatMessage
	Cancel   func()
}

// ChatService is the messaging API surface.
type ChatService interface {
	OpenRoom(ctx context.Context, callerID, appointmentID string) (*models.ChatRoom, error)
	Rooms(ctx context.Context, participantID string) ([]models.ChatRoom, error)
	Send(ctx context.Context, senderID, roomID string, req models.SendMessageRequest) (*models.ChatMessage, error)
	Messages(ctx context.Context, callerID, roomID string, limit int64) ([]models.ChatMessage, error)
	MarkRead(ctx context.Context, callerID, roomID string) error
	Subscribe(ctx context.Context, callerID, roomID string) (*Subscription, error)
}

// DefaultChatService is the concrete implementation.
type DefaultChatService struct {
	Repo         chatRepo.ChatRepository
	Appointments appointmentRepo.AppointmentRepository
}

// OpenRoom returns the room for an appointment, creating it on first use.
// Only a confirmed appointment between the caller and the other party opens one.
func (s *DefaultChatService) OpenRoom(ctx context.Context, callerID, appointmentID string) (*models.ChatRoom, error) {
	appt, err := s.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, errors.New("appointment not found")
	}
	if callerID != appt.UserID && callerID != appt.PsychologistID {
		return nil, ErrNotParticipant
	}
	if appt.Status != models.AppointmentConfirmed {
		return nil, ErrAppointmentNotChattable
	}

	room, err := s.Repo.GetOrCreateRoom(ctx, appt.UserID, appt.PsychologistID, appt.ID)
	if err != nil {
		return nil, err
	}
	if appt.ChatRoomID != room.ID {
		if err := s.Appointments.SetChatRoom(ctx, appt.ID, room.ID); err != nil {
			zap.L().Warn("failed to link chat room to appointment",
				zap.String("appointmentID", appt.ID), zap.Error(err))
		}
	}
	return room, nil
}

func (s *DefaultChatService) Rooms(ctx context.Context, participantID string) ([]models.ChatRoom, error) {
	return s.Repo.ListRoomsFor(ctx, participantID)
}

// Send appends a message to the room after a membership check.
func (s *DefaultChatService) Send(ctx context.Context, senderID, roomID string, req models.SendMessageRequest) (*models.ChatMessage, error) {
	if _, err := s.roomFor(ctx, senderID, roomID); err != nil {
		return nil, err
	}
	msg := &models.ChatMessage{
		ID:       uuid.New().String(),
		RoomID:   roomID,
		SenderID: senderID,
		Body:     req.Body,
		SentAt:   time.Now(),
	}
	if err := s.Repo.InsertMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *DefaultChatService) Messages(ctx context.Context, callerID, roomID string, limit int64) ([]models.ChatMessage, error) {
	if _, err := s.roomFor(ctx, callerID, roomID); err != nil {
		return nil, err
	}
	return s.Repo.ListMessages(ctx, roomID, limit)
}

// MarkRead flags the other party's messages in the room as read.
func (s *DefaultChatService) MarkRead(ctx context.Context, callerID, roomID string) error {
	if _, err := s.roomFor(ctx, callerID, roomID); err != nil {
		return err
	}
	return s.Repo.MarkRead(ctx, roomID, callerID)
}

// Subscribe opens a live message feed for the room. The returned handle's
// Cancel stops the underlying stream and closes the channel.
func (s *DefaultChatService) Subscribe(ctx context.Context, callerID, roomID string) (*Subscription, error) {
	if _, err := s.roomFor(ctx, callerID, roomID); err != nil {
		return nil, err
	}
	ch, cancel, err := s.Repo.Watch(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return &Subscription{Messages: ch, Cancel: cancel}, nil
}

func (s *DefaultChatService) roomFor(ctx context.Context, callerID, roomID string) (*models.ChatRoom, error) {
	room, err := s.Repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if callerID != room.UserID && callerID != room.PsychologistID {
		return nil, ErrNotParticipant
	}
	return room, nil
}
