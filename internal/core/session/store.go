// Package session holds the authentication state of one browser session:
// the backend credential and the identity it belongs to. Both are persisted
// as two entries in a ports.SessionStorage and set or cleared together.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/ports"
	"github.com/salesrecorder/sales-web/internal/pkg/metrics"
)

// Store is the single source of truth for who is logged in and as what.
// A Store is bound to one session id; construct a fresh one per request.
type Store struct {
	storage ports.SessionStorage
	sid     string
	log     zerolog.Logger

	mu         sync.RWMutex
	credential domain.Credential
	identity   *domain.Identity
}

// New returns an empty (logged-out) store bound to sid.
func New(storage ports.SessionStorage, sid string, log zerolog.Logger) *Store {
	return &Store{storage: storage, sid: sid, log: log}
}

// Open returns a store bound to sid and rehydrated from storage.
func Open(ctx context.Context, storage ports.SessionStorage, sid string, log zerolog.Logger) *Store {
	s := New(storage, sid, log)
	s.Rehydrate(ctx)
	return s
}

// SID returns the session id the store is bound to.
func (s *Store) SID() string { return s.sid }

// Rehydrate replaces the in-memory state with what storage holds. Unreadable,
// malformed or partial data leaves the store logged out; it never fails.
func (s *Store) Rehydrate(ctx context.Context) {
	cred, id, ok := s.load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok {
		s.credential, s.identity = "", nil
		return
	}
	s.credential, s.identity = cred, &id
}

func (s *Store) load(ctx context.Context) (domain.Credential, domain.Identity, bool) {
	entries, err := s.storage.Load(ctx, s.sid)
	if err != nil {
		s.log.Warn().Err(err).Msg("session storage unavailable, treating session as logged out")
		return "", domain.Identity{}, false
	}

	rawToken, hasToken := entries[ports.EntryToken]
	rawUser, hasUser := entries[ports.EntryUser]
	if !hasToken && !hasUser {
		return "", domain.Identity{}, false
	}

	var token string
	if err := json.Unmarshal([]byte(rawToken), &token); err != nil || token == "" {
		s.corrupt(ports.EntryToken, err)
		return "", domain.Identity{}, false
	}

	var id domain.Identity
	if err := json.Unmarshal([]byte(rawUser), &id); err != nil {
		s.corrupt(ports.EntryUser, err)
		return "", domain.Identity{}, false
	}
	if !id.Role.Valid() {
		s.corrupt(ports.EntryUser, fmt.Errorf("%w: %q", domain.ErrUnexpectedRole, id.Role))
		return "", domain.Identity{}, false
	}

	return domain.Credential(token), id, true
}

func (s *Store) corrupt(entry string, err error) {
	metrics.SessionEventsTotal.WithLabelValues("corrupt_entry").Inc()
	s.log.Warn().Err(err).Str("entry", entry).Msg("discarding unreadable session entry")
}

// Login replaces the session with cred and id. Storage is written before
// memory; on a storage error the in-memory state is left untouched.
func (s *Store) Login(ctx context.Context, cred domain.Credential, id domain.Identity) error {
	if cred == "" {
		return domain.ErrNoCredential
	}
	if !id.Role.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnexpectedRole, id.Role)
	}

	rawToken, err := json.Marshal(string(cred))
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	rawUser, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Save(ctx, s.sid, map[string]string{
		ports.EntryToken: string(rawToken),
		ports.EntryUser:  string(rawUser),
	}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.credential = cred
	s.identity = &id

	metrics.SessionEventsTotal.WithLabelValues("login").Inc()
	s.log.Info().Int64("user_id", id.ID).Str("role", string(id.Role)).Msg("session started")
	return nil
}

// Logout clears the session from storage and then from memory.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ctx, s.sid); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.credential = ""
	s.identity = nil

	metrics.SessionEventsTotal.WithLabelValues("logout").Inc()
	s.log.Info().Msg("session ended")
	return nil
}

// IsAuthenticated reports whether both credential and identity are present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential != "" && s.identity != nil
}

// IsAdmin reports whether the session is authenticated with the admin role.
func (s *Store) IsAdmin() bool { return s.hasRole(domain.RoleAdmin) }

// IsSalesperson reports whether the session is authenticated with the
// salesperson role.
func (s *Store) IsSalesperson() bool { return s.hasRole(domain.RoleSalesperson) }

func (s *Store) hasRole(r domain.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential != "" && s.identity != nil && s.identity.Role == r
}

// Identity returns the logged-in identity.
func (s *Store) Identity() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.credential == "" || s.identity == nil {
		return domain.Identity{}, false
	}
	return *s.identity, true
}

// Credential returns the credential to present to the backend, or
// domain.ErrNoCredential when the session is not authenticated.
func (s *Store) Credential() (domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.credential == "" || s.identity == nil {
		return "", domain.ErrNoCredential
	}
	return s.credential, nil
}
