package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/salesrecorder/sales-web/internal/core/ports"
	"github.com/salesrecorder/sales-web/internal/infrastructure/db/sessionkey"
)

const sessionCollection = "sessions"

// SessionStorage keeps each session as one document, so both entries are
// always written and removed together.
type SessionStorage struct {
	col  *mongo.Collection
	keys *sessionkey.Hasher
	ttl  time.Duration
	now  func() time.Time
}

// NewSessionStorage creates a SessionStorage over the sessions collection of db.
func NewSessionStorage(db *mongo.Database, secret string, ttl time.Duration) *SessionStorage {
	return &SessionStorage{
		col:  db.Collection(sessionCollection),
		keys: sessionkey.New(secret, ""),
		ttl:  ttl,
		now:  time.Now,
	}
}

type sessionDoc struct {
	ID        string     `bson:"_id"`
	Token     *string    `bson:"token,omitempty"`
	User      *string    `bson:"user,omitempty"`
	UpdatedAt time.Time  `bson:"updated_at"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// EnsureIndexes creates the TTL index that lets MongoDB reap expired sessions.
func (s *SessionStorage) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}

func (s *SessionStorage) Load(ctx context.Context, sid string) (map[string]string, error) {
	var doc sessionDoc
	err := s.col.FindOne(ctx, bson.M{"_id": s.keys.Key(sid)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	// The TTL monitor runs about once a minute; do not hand out stale sessions.
	if doc.ExpiresAt != nil && !doc.ExpiresAt.After(s.now()) {
		return map[string]string{}, nil
	}

	entries := make(map[string]string, 2)
	if doc.Token != nil {
		entries[ports.EntryToken] = *doc.Token
	}
	if doc.User != nil {
		entries[ports.EntryUser] = *doc.User
	}
	return entries, nil
}

func (s *SessionStorage) Save(ctx context.Context, sid string, entries map[string]string) error {
	now := s.now().UTC()
	doc := sessionDoc{ID: s.keys.Key(sid), UpdatedAt: now}
	if v, ok := entries[ports.EntryToken]; ok {
		doc.Token = &v
	}
	if v, ok := entries[ports.EntryUser]; ok {
		doc.User = &v
	}
	if s.ttl > 0 {
		exp := now.Add(s.ttl)
		doc.ExpiresAt = &exp
	}

	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Delete(ctx context.Context, sid string) error {
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": s.keys.Key(sid)}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Ping(ctx context.Context) error {
	return s.col.Database().Client().Ping(ctx, nil)
}
