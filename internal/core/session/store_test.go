package session

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/ports"
)

type stubStorage struct {
	data    map[string]map[string]string
	saveErr error
	loadErr error
}

func newStubStorage() *stubStorage {
	return &stubStorage{data: make(map[string]map[string]string)}
}

func (s *stubStorage) Load(_ context.Context, sid string) (map[string]string, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make(map[string]string, len(s.data[sid]))
	for k, v := range s.data[sid] {
		out[k] = v
	}
	return out, nil
}

func (s *stubStorage) Save(_ context.Context, sid string, entries map[string]string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	cp := make(map[string]string, len(entries))
	for k, v := range entries {
		cp[k] = v
	}
	s.data[sid] = cp
	return nil
}

func (s *stubStorage) Delete(_ context.Context, sid string) error {
	delete(s.data, sid)
	return nil
}

func (s *stubStorage) Ping(context.Context) error { return nil }

var alice = domain.Identity{ID: 7, DisplayName: "alice", Role: domain.RoleAdmin}

func TestStore_LoginLogoutInterval(t *testing.T) {
	ctx := context.Background()
	storage := newStubStorage()
	s := New(storage, "sid-1", zerolog.Nop())

	if s.IsAuthenticated() {
		t.Fatalf("fresh store should be logged out")
	}

	if err := s.Login(ctx, "tok", alice); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !s.IsAuthenticated() {
		t.Fatalf("expected authenticated after login")
	}
	if _, ok := storage.data["sid-1"]; !ok {
		t.Fatalf("expected storage to hold the session after login")
	}

	// A second store over the same storage sees the same session.
	if !Open(ctx, storage, "sid-1", zerolog.Nop()).IsAuthenticated() {
		t.Fatalf("expected rehydrated store to be authenticated")
	}

	if err := s.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if s.IsAuthenticated() {
		t.Fatalf("expected logged out after logout")
	}
	if _, ok := storage.data["sid-1"]; ok {
		t.Fatalf("expected storage to be cleared after logout")
	}
	if Open(ctx, storage, "sid-1", zerolog.Nop()).IsAuthenticated() {
		t.Fatalf("expected rehydrated store to be logged out")
	}
}

func TestStore_LoginReplacesPreviousSession(t *testing.T) {
	ctx := context.Background()
	s := New(newStubStorage(), "sid", zerolog.Nop())

	_ = s.Login(ctx, "first", alice)
	bob := domain.Identity{ID: 9, DisplayName: "bob", Role: domain.RoleSalesperson}
	if err := s.Login(ctx, "second", bob); err != nil {
		t.Fatalf("login: %v", err)
	}

	cred, err := s.Credential()
	if err != nil || cred != "second" {
		t.Fatalf("expected credential second, got %q (%v)", cred, err)
	}
	id, _ := s.Identity()
	if id != bob {
		t.Fatalf("expected identity %+v, got %+v", bob, id)
	}
	if s.IsAdmin() || !s.IsSalesperson() {
		t.Fatalf("expected salesperson role only")
	}
}

func TestStore_RolePredicatesMutuallyExclusive(t *testing.T) {
	ctx := context.Background()
	for _, role := range domain.Roles {
		s := New(newStubStorage(), "sid", zerolog.Nop())
		if s.IsAdmin() || s.IsSalesperson() {
			t.Fatalf("predicates must be false when logged out")
		}
		if err := s.Login(ctx, "tok", domain.Identity{ID: 1, DisplayName: "u", Role: role}); err != nil {
			t.Fatalf("login as %s: %v", role, err)
		}
		if s.IsAdmin() == s.IsSalesperson() {
			t.Fatalf("role %s: expected exactly one predicate true", role)
		}
	}
}

func TestStore_LoginRejectsUnexpectedRole(t *testing.T) {
	storage := newStubStorage()
	s := New(storage, "sid", zerolog.Nop())

	err := s.Login(context.Background(), "tok", domain.Identity{ID: 1, Role: "manager"})
	if !errors.Is(err, domain.ErrUnexpectedRole) {
		t.Fatalf("expected ErrUnexpectedRole, got %v", err)
	}
	if s.IsAuthenticated() || len(storage.data) != 0 {
		t.Fatalf("expected nothing stored for an unexpected role")
	}
}

func TestStore_LoginStorageFailureKeepsMemory(t *testing.T) {
	storage := newStubStorage()
	storage.saveErr = errors.New("disk full")
	s := New(storage, "sid", zerolog.Nop())

	if err := s.Login(context.Background(), "tok", alice); err == nil {
		t.Fatalf("expected error when storage fails")
	}
	if s.IsAuthenticated() {
		t.Fatalf("memory must not change when storage write fails")
	}
}

func TestStore_RehydrateCorruptEntries(t *testing.T) {
	cases := map[string]map[string]string{
		"token not json":  {ports.EntryToken: "tok", ports.EntryUser: `{"id":1,"username":"a","role":"admin"}`},
		"user not json":   {ports.EntryToken: `"tok"`, ports.EntryUser: "{oops"},
		"only token":      {ports.EntryToken: `"tok"`},
		"only user":       {ports.EntryUser: `{"id":1,"username":"a","role":"admin"}`},
		"unexpected role": {ports.EntryToken: `"tok"`, ports.EntryUser: `{"id":1,"username":"a","role":"root"}`},
		"empty token":     {ports.EntryToken: `""`, ports.EntryUser: `{"id":1,"username":"a","role":"admin"}`},
	}

	for name, entries := range cases {
		t.Run(name, func(t *testing.T) {
			storage := newStubStorage()
			storage.data["sid"] = entries

			s := Open(context.Background(), storage, "sid", zerolog.Nop())
			if s.IsAuthenticated() {
				t.Fatalf("expected corrupt session to rehydrate as logged out")
			}
			if _, err := s.Credential(); !errors.Is(err, domain.ErrNoCredential) {
				t.Fatalf("expected ErrNoCredential, got %v", err)
			}
		})
	}
}

func TestStore_RehydrateStorageError(t *testing.T) {
	storage := newStubStorage()
	storage.loadErr = errors.New("connection refused")

	s := Open(context.Background(), storage, "sid", zerolog.Nop())
	if s.IsAuthenticated() {
		t.Fatalf("expected logged out when storage is unreachable")
	}
}

func TestStore_RehydrateValid(t *testing.T) {
	storage := newStubStorage()
	storage.data["sid"] = map[string]string{
		ports.EntryToken: `"abc"`,
		ports.EntryUser:  `{"id":3,"username":"sam","role":"salesperson"}`,
	}

	s := Open(context.Background(), storage, "sid", zerolog.Nop())
	if !s.IsSalesperson() {
		t.Fatalf("expected salesperson session")
	}
	id, ok := s.Identity()
	if !ok || id.ID != 3 || id.DisplayName != "sam" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}
