package store

import (
	"fmt"
	"strings"

	"soundshelf/internal/apperr"
	"soundshelf/shared/go/models"
)

// Tx is the mutable view handed to Store.Update callbacks. Reads through the
// embedded Reader observe the writes already made in the same Tx.
type Tx struct {
	Reader
}

// PutUser inserts or replaces a user. Usernames must stay unique.
func (tx *Tx) PutUser(u models.User) error {
	if u.ID == "" || strings.TrimSpace(u.Username) == "" || u.PasswordHash == "" {
		return fmt.Errorf("%w: user id, username and password hash are required", apperr.ErrInvalidInput)
	}
	if other, ok := tx.UserByUsername(u.Username); ok && other.ID != u.ID {
		return fmt.Errorf("%w: username %q already taken", apperr.ErrInvalidInput, u.Username)
	}
	c := u.Clone()
	tx.snap.Users[u.ID] = &c
	return nil
}

// PutArtist inserts or replaces an artist.
func (tx *Tx) PutArtist(a models.Artist) {
	c := a.Clone()
	tx.snap.Artists[a.ID] = &c
}

// PutAlbum inserts or replaces an album.
func (tx *Tx) PutAlbum(a models.Album) {
	c := a.Clone()
	tx.snap.Albums[a.ID] = &c
}

// PutTrack inserts or replaces a track.
func (tx *Tx) PutTrack(t models.Track) {
	tx.snap.Tracks[t.ID] = &t
}

// SetLike adds or removes id from the user's liked set for kind. Both
// directions are idempotent. The liked id is not checked against the catalog.
func (tx *Tx) SetLike(userID string, kind models.LikeKind, id int64, like bool) error {
	u, ok := tx.snap.Users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if like {
		u.Like.Add(kind, id)
	} else {
		u.Like.Remove(kind, id)
	}
	return nil
}
