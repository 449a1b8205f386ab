package chatRepo

import (
	"context"

	"mindcare/models"
)

// ChatRepository persists chat rooms and messages, and exposes a push-style
// subscription to new messages in a room. Watch returns a receive channel and
// a cancel func; callers must call cancel on teardown to release the stream.
type ChatRepository interface {
	GetOrCreateRoom(ctx context.Context, userID, psychologistID, appointmentID string) (*models.ChatRoom, error)
	GetRoom(ctx context.Context, roomID string) (*models.ChatRoom, error)
	ListRoomsFor(ctx context.Context, participantID string) ([]models.ChatRoom, error)
	InsertMessage(ctx context.Context, msg *models.ChatMessage) error
	ListMessages(ctx context.Context, roomID string, limit int64) ([]models.ChatMessage, error)
	MarkRead(ctx context.Context, roomID, readerID string) error
	Watch(ctx context.Context, roomID string) (<-chan models.ChatMessage, func(), error)
}
