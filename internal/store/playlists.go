package store

import (
	"slices"

	"soundshelf/shared/go/models"
)

// CreatePlaylist registers an empty playlist for owner and adds it to the
// owner's liked playlists. The id is one more than the current maximum.
func (tx *Tx) CreatePlaylist(ownerID, name string) (int64, error) {
	owner, ok := tx.snap.Users[ownerID]
	if !ok {
		return 0, ErrUserNotFound
	}

	var newID int64
	for id := range tx.snap.Playlists {
		newID = max(newID, id)
	}
	newID++

	tx.snap.Playlists[newID] = &models.Playlist{
		ID:          newID,
		Name:        name,
		Owner:       ownerID,
		ListMusique: []int64{},
	}
	owner.Like.Add(models.LikePlaylist, newID)
	return newID, nil
}

// SetPlaylistTracks replaces the track list of a playlist.
func (tx *Tx) SetPlaylistTracks(id int64, trackIDs []int64) error {
	p, ok := tx.snap.Playlists[id]
	if !ok {
		return ErrPlaylistNotFound
	}
	p.ListMusique = slices.Clone(trackIDs)
	if p.ListMusique == nil {
		p.ListMusique = []int64{}
	}
	return nil
}

// DeletePlaylist removes the playlist and drops it from the owner's liked
// playlists. Missing records are skipped; it reports whether the playlist
// itself existed.
func (tx *Tx) DeletePlaylist(ownerID string, id int64) bool {
	if owner, ok := tx.snap.Users[ownerID]; ok {
		owner.Like.Remove(models.LikePlaylist, id)
	}
	if _, ok := tx.snap.Playlists[id]; !ok {
		return false
	}
	delete(tx.snap.Playlists, id)
	return true
}
