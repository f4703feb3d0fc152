// Package session keeps normalized tables between an upload and the
// downloads that follow it.
//
// Each upload gets its own handle, a random UUID. The stored table is encoded
// on Put and decoded on every Get, so no two requests ever share a *core.Table.
// Entries expire after the configured TTL; backends without native expiry
// implement [Sweeper].
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/csv2sendy/internal/core"
)

// ErrNotFound is returned for unknown, malformed or expired handles.
var ErrNotFound = errors.New("session not found")

// Entry is what a session holds: the table plus upload metadata.
type Entry struct {
	Table     *core.Table `json:"table"`
	FileName  string      `json:"fileName"`
	Encoding  string      `json:"encoding"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Store persists entries by handle.
type Store interface {
	Put(ctx context.Context, id string, e *Entry) error
	Get(ctx context.Context, id string) (*Entry, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Sweeper is implemented by stores that purge expired entries themselves.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// NewID returns a fresh session handle.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the shape of a handle from NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}

// Create stores e under a new handle and returns it.
func Create(ctx context.Context, s Store, e *Entry) (string, error) {
	id := NewID()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if err := s.Put(ctx, id, e); err != nil {
		return "", err
	}
	return id, nil
}
