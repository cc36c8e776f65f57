package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/salesrecorder/sales-web/internal/infrastructure/db/sessionkey"
)

const keyPrefix = "session:"

// SessionStorage keeps each session as one Redis hash with a field per entry.
// Key format: session:<blake2b(sid)>
type SessionStorage struct {
	client redis.UniversalClient
	keys   *sessionkey.Hasher
	ttl    time.Duration
}

// NewSessionStorage wraps client. Sessions expire ttl after their last save.
func NewSessionStorage(client redis.UniversalClient, secret string, ttl time.Duration) *SessionStorage {
	return &SessionStorage{
		client: client,
		keys:   sessionkey.New(secret, keyPrefix),
		ttl:    ttl,
	}
}

func (s *SessionStorage) Load(ctx context.Context, sid string) (map[string]string, error) {
	entries, err := s.client.HGetAll(ctx, s.keys.Key(sid)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return entries, nil
}

// Save replaces the hash inside MULTI/EXEC so readers never observe a mix of
// old and new entries.
func (s *SessionStorage) Save(ctx context.Context, sid string, entries map[string]string) error {
	key := s.keys.Key(sid)
	if len(entries) == 0 {
		return s.Delete(ctx, sid)
	}
	fields := make(map[string]any, len(entries))
	for k, v := range entries {
		fields[k] = v
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Delete(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, s.keys.Key(sid)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
