package playlists

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"soundshelf/internal/apperr"
	"soundshelf/internal/store"
	"soundshelf/shared/go/models"
)

var (
	// ErrNotOwner is returned when a caller mutates a playlist it does not own.
	ErrNotOwner = fmt.Errorf("playlist not owned by caller: %w", apperr.ErrForbidden)
	// ErrUnknownUser is returned when the acting user no longer exists.
	ErrUnknownUser = fmt.Errorf("unknown user: %w", apperr.ErrUnauthorized)
)

// Store captures the persistence needs for playlist workflows.
type Store interface {
	Reader() *store.Reader
	Update(ctx context.Context, fn func(tx *store.Tx) error) error
}

// Summary is the list-item form of a playlist.
type Summary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Result is the outcome of a track update: either the updated playlist or,
// when the update emptied it, a deletion marker.
type Result struct {
	Deleted  bool
	Playlist models.Playlist
}

// Service coordinates playlist-related operations.
type Service interface {
	List(ctx context.Context, userID string) ([]Summary, error)
	Create(ctx context.Context, ownerID, name string) (int64, error)
	UpdateTracks(ctx context.Context, playlistID int64, trackIDs []int64, action models.PlaylistAction) (Result, error)
	UpdateTracksAs(ctx context.Context, callerID string, playlistID int64, trackIDs []int64, action models.PlaylistAction) (Result, error)
	Delete(ctx context.Context, ownerID string, playlistID int64) error
	DeleteAs(ctx context.Context, callerID string, playlistID int64) error
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

// ParseAction validates a track update action.
func ParseAction(raw string) (models.PlaylistAction, error) {
	switch action := models.PlaylistAction(strings.ToLower(strings.TrimSpace(raw))); action {
	case models.PlaylistAdd, models.PlaylistDel:
		return action, nil
	default:
		return "", fmt.Errorf("%w: unknown playlist action %q", apperr.ErrInvalidInput, raw)
	}
}

// List returns the playlists the user follows that still exist, in the
// order they were followed.
func (s *service) List(ctx context.Context, userID string) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := s.store.Reader()
	user, ok := r.User(userID)
	if !ok {
		return nil, ErrUnknownUser
	}

	out := []Summary{}
	for _, id := range user.Like.IDs(models.LikePlaylist) {
		if p, ok := r.Playlist(id); ok {
			out = append(out, Summary{ID: p.ID, Name: p.Name})
		}
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, ownerID, name string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: playlist name is required", apperr.ErrInvalidInput)
	}

	var id int64
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		var err error
		id, err = tx.CreatePlaylist(ownerID, name)
		if err != nil {
			return translateUser(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateTracks applies action to the playlist without checking ownership.
// Callers acting for a user go through UpdateTracksAs.
func (s *service) UpdateTracks(ctx context.Context, playlistID int64, trackIDs []int64, action models.PlaylistAction) (Result, error) {
	return s.update(ctx, "", playlistID, trackIDs, action)
}

func (s *service) UpdateTracksAs(ctx context.Context, callerID string, playlistID int64, trackIDs []int64, action models.PlaylistAction) (Result, error) {
	if callerID == "" {
		return Result{}, ErrUnknownUser
	}
	return s.update(ctx, callerID, playlistID, trackIDs, action)
}

// update runs the ownership check, the mutation and any auto-delete in a
// single store update. An empty callerID skips the ownership check.
func (s *service) update(ctx context.Context, callerID string, playlistID int64, trackIDs []int64, action models.PlaylistAction) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	action, err := ParseAction(string(action))
	if err != nil {
		return Result{}, err
	}

	var result Result
	err = s.store.Update(ctx, func(tx *store.Tx) error {
		p, ok := tx.Playlist(playlistID)
		if !ok {
			return store.ErrPlaylistNotFound
		}
		if callerID != "" && p.Owner != callerID {
			return ErrNotOwner
		}

		tracks := applyAction(p.ListMusique, trackIDs, action)
		if len(tracks) == 0 {
			tx.DeletePlaylist(p.Owner, p.ID)
			result = Result{Deleted: true}
			return nil
		}

		if err := tx.SetPlaylistTracks(p.ID, tracks); err != nil {
			return err
		}
		p.ListMusique = tracks
		result = Result{Playlist: p}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

// Delete removes the playlist and the owner's follow. Missing records are a no-op.
func (s *service) Delete(ctx context.Context, ownerID string, playlistID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.Update(ctx, func(tx *store.Tx) error {
		tx.DeletePlaylist(ownerID, playlistID)
		return nil
	})
}

func (s *service) DeleteAs(ctx context.Context, callerID string, playlistID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.Update(ctx, func(tx *store.Tx) error {
		p, ok := tx.Playlist(playlistID)
		if !ok {
			return store.ErrPlaylistNotFound
		}
		if p.Owner != callerID {
			return ErrNotOwner
		}
		tx.DeletePlaylist(callerID, playlistID)
		return nil
	})
}

// applyAction returns the new track list. Added ids go to the head in the
// order given, skipping ids already present; deleted ids are removed
// wherever they occur.
func applyAction(current, ids []int64, action models.PlaylistAction) []int64 {
	out := slices.Clone(current)
	switch action {
	case models.PlaylistAdd:
		for _, id := range ids {
			if !slices.Contains(out, id) {
				out = slices.Insert(out, 0, id)
			}
		}
	case models.PlaylistDel:
		out = slices.DeleteFunc(out, func(id int64) bool {
			return slices.Contains(ids, id)
		})
	}
	return out
}

func translateUser(err error) error {
	if errors.Is(err, store.ErrUserNotFound) {
		return ErrUnknownUser
	}
	return err
}
