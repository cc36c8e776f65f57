package ports

import "context"

// Entry keys of a persisted session. Exactly these two entries exist per
// session.
const (
	EntryToken = "token"
	EntryUser  = "user"
)

// SessionStorage persists the serialized session entries of one browser
// session, addressed by session id.
type SessionStorage interface {
	// Load returns the stored entries. Missing entries are absent from the map;
	// an unknown session yields an empty map and no error.
	Load(ctx context.Context, sid string) (map[string]string, error)

	// Save replaces all entries of the session in one operation.
	Save(ctx context.Context, sid string, entries map[string]string) error

	// Delete removes every entry of the session.
	Delete(ctx context.Context, sid string) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
