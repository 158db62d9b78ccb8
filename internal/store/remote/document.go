// Package remote is the client for the cloud document store: one JSON
// document per authenticated account, holding the authoritative copy of
// the collection when the user is signed in.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/websaver/internal/domain"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrDocumentAbsent signals that no document exists yet for the
	// account. Not an error condition: it marks first-time cloud use and
	// is distinct from network/auth failures.
	ErrDocumentAbsent = errors.New("remote document absent")

	// ErrRemoteUnavailable wraps network or server failures on the
	// remote tier. Callers keep the local copy authoritative.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
)

// Document is the cloud-stored collection plus metadata for one account.
type Document struct {
	Groups      domain.Collection `json:"groups"`
	LastUpdated string            `json:"lastUpdated"`
	UserID      string            `json:"userId"`
	Email       *string           `json:"email"`
}

// Cmdable is the slice of the Redis API the store needs. *redis.Client
// satisfies it; tests substitute a fake.
type Cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Store handles remote document operations for user collections.
type Store struct {
	client Cmdable
	now    func() time.Time
}

// NewStore creates a new remote document store.
func NewStore(client Cmdable) *Store {
	return &Store{client: client, now: time.Now}
}

// SaveUserData upserts the account's document with merge semantics:
// top-level fields this client does not own are preserved, groups is
// always fully replaced and lastUpdated set to now. Failures propagate
// to the caller, which decides retry/report policy.
func (s *Store) SaveUserData(ctx context.Context, accountID string, c domain.Collection, email *string) error {
	key := UserKey(accountID)

	// Read-modify-write: keep unknown fields from an existing document.
	doc := map[string]json.RawMessage{}
	raw, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, &doc); err != nil {
			// Unreadable existing document is replaced outright.
			doc = map[string]json.RawMessage{}
		}
	case errors.Is(err, redis.Nil):
		// First write for this account.
	default:
		return fmt.Errorf("%w: read before merge: %v", ErrRemoteUnavailable, err)
	}

	cl := c.Clone()
	cl.Normalize()
	if err := setField(doc, "groups", cl); err != nil {
		return err
	}
	if err := setField(doc, "lastUpdated", s.now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	if err := setField(doc, "userId", accountID); err != nil {
		return err
	}
	if err := setField(doc, "email", email); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: save: %v", ErrRemoteUnavailable, err)
	}
	return nil
}

// LoadUserData returns the account's document. A missing document
// returns ErrDocumentAbsent so callers can fall back to local data
// rather than treating absence as failure.
func (s *Store) LoadUserData(ctx context.Context, accountID string) (*Document, error) {
	raw, err := s.client.Get(ctx, UserKey(accountID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDocumentAbsent
		}
		return nil, fmt.Errorf("%w: load: %v", ErrRemoteUnavailable, err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse document: %v", ErrRemoteUnavailable, err)
	}
	doc.Groups.Normalize()
	if err := doc.Groups.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	return &doc, nil
}

// DeleteUserData removes the account's document.
func (s *Store) DeleteUserData(ctx context.Context, accountID string) error {
	if err := s.client.Del(ctx, UserKey(accountID)).Err(); err != nil {
		return fmt.Errorf("%w: delete: %v", ErrRemoteUnavailable, err)
	}
	return nil
}

func setField(doc map[string]json.RawMessage, field string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", field, err)
	}
	doc[field] = data
	return nil
}
