package store

import (
	"context"
	"fmt"
	"sync"

	"soundshelf/internal/apperr"
	"soundshelf/shared/go/models"
)

var (
	// ErrUserNotFound signals that a user id does not resolve.
	ErrUserNotFound = fmt.Errorf("user %w", apperr.ErrNotFound)
	// ErrPlaylistNotFound signals that a playlist id does not resolve.
	ErrPlaylistNotFound = fmt.Errorf("playlist %w", apperr.ErrNotFound)
)

// Persister is the durable boundary behind the store. Save must write the
// whole snapshot atomically: either the new state is durable or the previous
// one is left intact.
type Persister interface {
	Load(ctx context.Context) (*models.Snapshot, error)
	Save(ctx context.Context, snap *models.Snapshot) error
}

// Store is the single source of truth for the catalog. Published snapshots
// are immutable; writers are serialized and work on a private clone that is
// only published once it has been persisted.
type Store struct {
	persister Persister

	writeMu sync.Mutex

	mu      sync.RWMutex
	current *models.Snapshot
}

// Open loads and validates the persisted snapshot.
func Open(ctx context.Context, persister Persister) (*Store, error) {
	snap, err := persister.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	snap.Normalize()
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &Store{persister: persister, current: snap}, nil
}

// Reader returns a consistent view of the latest persisted state.
func (s *Store) Reader() *Reader {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Reader{snap: s.current}
}

// Update runs fn against a private copy of the catalog and persists the
// result. If fn fails nothing is written; if the durable write fails the copy
// is discarded and the returned error wraps apperr.ErrStorage.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	// current only changes while writeMu is held.
	working := s.Reader().snap.Clone()
	tx := &Tx{Reader: Reader{snap: working}}
	if err := fn(tx); err != nil {
		return err
	}

	if err := s.persister.Save(ctx, working); err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrStorage, err)
	}

	s.mu.Lock()
	s.current = working
	s.mu.Unlock()
	return nil
}

// User returns the user with the given id from the latest snapshot.
func (s *Store) User(id string) (models.User, bool) { return s.Reader().User(id) }

// UserByUsername returns the user with the given username.
func (s *Store) UserByUsername(name string) (models.User, bool) {
	return s.Reader().UserByUsername(name)
}

// Playlist returns the playlist with the given id.
func (s *Store) Playlist(id int64) (models.Playlist, bool) { return s.Reader().Playlist(id) }
