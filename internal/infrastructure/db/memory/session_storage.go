// Package memory provides a process-local session storage for development
// and single-instance deployments.
package memory

import (
	"context"
	"maps"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/salesrecorder/sales-web/internal/infrastructure/db/sessionkey"
)

// SessionStorage keeps sessions in an expiring in-process cache.
type SessionStorage struct {
	cache *gocache.Cache
	keys  *sessionkey.Hasher
}

// NewSessionStorage returns an empty storage. Sessions expire ttl after their
// last save; a non-positive ttl keeps them until deleted.
func NewSessionStorage(secret string, ttl time.Duration) *SessionStorage {
	exp := ttl
	cleanup := ttl
	if ttl <= 0 {
		exp = gocache.NoExpiration
		cleanup = 0
	}
	return &SessionStorage{
		cache: gocache.New(exp, cleanup),
		keys:  sessionkey.New(secret, ""),
	}
}

func (s *SessionStorage) Load(_ context.Context, sid string) (map[string]string, error) {
	v, ok := s.cache.Get(s.keys.Key(sid))
	if !ok {
		return map[string]string{}, nil
	}
	return maps.Clone(v.(map[string]string)), nil
}

func (s *SessionStorage) Save(_ context.Context, sid string, entries map[string]string) error {
	s.cache.SetDefault(s.keys.Key(sid), maps.Clone(entries))
	return nil
}

func (s *SessionStorage) Delete(_ context.Context, sid string) error {
	s.cache.Delete(s.keys.Key(sid))
	return nil
}

func (s *SessionStorage) Ping(context.Context) error { return nil }
