package likes

import (
	"context"
	"errors"
	"fmt"

	"soundshelf/internal/apperr"
	"soundshelf/internal/store"
	"soundshelf/shared/go/models"
)

// ErrUnknownUser is returned when the user whose likes change no longer exists.
var ErrUnknownUser = fmt.Errorf("unknown user: %w", apperr.ErrUnauthorized)

// Store defines persistence operations required for like workflows.
type Store interface {
	Update(ctx context.Context, fn func(tx *store.Tx) error) error
}

// Toggle is a single like or unlike request.
type Toggle struct {
	ID   int64           `json:"id"`
	Like bool            `json:"like"`
	Kind models.LikeKind `json:"type"`
}

// Service describes high level like operations used by HTTP handlers.
type Service interface {
	Toggle(ctx context.Context, userID string, toggle Toggle) error
}

type service struct {
	store Store
}

// New constructs a likes Service backed by the given store.
func New(st Store) Service {
	return &service{store: st}
}

// ParseKind validates a like type received from a client.
func ParseKind(raw string) (models.LikeKind, error) {
	return models.ParseLikeKind(raw)
}

// Toggle sets membership of toggle.ID in the user's liked set. Repeating a
// toggle is a no-op that is still persisted. The id is not checked against
// the catalog; views skip ids that do not resolve.
func (s *service) Toggle(ctx context.Context, userID string, toggle Toggle) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	kind, err := ParseKind(string(toggle.Kind))
	if err != nil {
		return err
	}

	return s.store.Update(ctx, func(tx *store.Tx) error {
		if err := tx.SetLike(userID, kind, toggle.ID, toggle.Like); err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return ErrUnknownUser
			}
			return err
		}
		return nil
	})
}
