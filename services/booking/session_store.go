package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mindcare/models"

	"github.com/go-redis/redis/v8"
)

const (
	sessionKeyPrefix = "booking:"
	sessionTTL       = 10 * time.Minute
)

// SessionStore holds in-progress booking sessions.
type SessionStore interface {
	Save(ctx context.Context, session *models.BookingSession) error
	Load(ctx context.Context, sessionID string) (*models.BookingSession, error)
	Delete(ctx context.Context, sessionID string) error
}

// RedisSessionStore keeps sessions in Redis with a 10-minute TTL.
type RedisSessionStore struct {
	Client *redis.Client
}

func (s *RedisSessionStore) Save(ctx context.Context, session *models.BookingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := s.Client.Set(ctx, sessionKeyPrefix+session.SessionID, data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache booking session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Load(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	data, err := s.Client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		return nil, ErrSessionNotFound
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse booking session: %w", err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.Client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}
