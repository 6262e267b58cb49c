package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/codegate/gateway-server-go/internal/model"
	redisclient "github.com/codegate/gateway-server-go/internal/redis"
)

// SessionStore persists device sessions in Redis, keyed by access code.
// Expiry is enforced by the store itself: every upsert re-SETs the key with
// the full TTL, so the seven day window restarts on each successful
// verification and stale sessions vanish without any polling.
type SessionStore interface {
	FindByCode(ctx context.Context, code string) (*model.DeviceSession, error)
	Upsert(ctx context.Context, code, deviceID string) (*model.DeviceSession, error)
	DeleteByCode(ctx context.Context, code string) error
}

type sessionStore struct {
	client *redisclient.Client
	ttl    time.Duration
}

func NewSessionStore(client *redisclient.Client, ttl time.Duration) SessionStore {
	return &sessionStore{client: client, ttl: ttl}
}

func (s *sessionStore) FindByCode(ctx context.Context, code string) (*model.DeviceSession, error) {
	data, err := s.client.Get(ctx, redisclient.SessionKey(code)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session model.DeviceSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	return &session, nil
}

func (s *sessionStore) Upsert(ctx context.Context, code, deviceID string) (*model.DeviceSession, error) {
	session := &model.DeviceSession{
		Code:      code,
		DeviceID:  deviceID,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, redisclient.SessionKey(code), data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return session, nil
}

// DeleteByCode removes the session for code. Deleting a missing session is
// not an error.
func (s *sessionStore) DeleteByCode(ctx context.Context, code string) error {
	if err := s.client.Del(ctx, redisclient.SessionKey(code)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
