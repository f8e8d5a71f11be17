package models

import (
	"fmt"
	"slices"
	"strings"

	"soundshelf/internal/apperr"
)

// LikeKind names one of the per-user liked-id sets.
type LikeKind string

const (
	LikeTrack    LikeKind = "track"
	LikeAlbum    LikeKind = "album"
	LikeArtist   LikeKind = "artist"
	LikePlaylist LikeKind = "playlist"
)

// ParseLikeKind validates a like kind received from a client.
func ParseLikeKind(raw string) (LikeKind, error) {
	switch kind := LikeKind(strings.ToLower(strings.TrimSpace(raw))); kind {
	case LikeTrack, LikeAlbum, LikeArtist, LikePlaylist:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: unknown like type %q", apperr.ErrInvalidInput, raw)
	}
}

// LikeSet holds the ids a user liked, per entity type. Ids are kept in
// insertion order and may reference entities that no longer exist.
type LikeSet struct {
	Track    []int64 `json:"track,omitempty"`
	Album    []int64 `json:"album,omitempty"`
	Artist   []int64 `json:"artist,omitempty"`
	Playlist []int64 `json:"playlist,omitempty"`
}

func (l *LikeSet) list(kind LikeKind) *[]int64 {
	switch kind {
	case LikeTrack:
		return &l.Track
	case LikeAlbum:
		return &l.Album
	case LikeArtist:
		return &l.Artist
	case LikePlaylist:
		return &l.Playlist
	}
	return nil
}

// Has reports whether id is in the set for kind.
func (l LikeSet) Has(kind LikeKind, id int64) bool {
	ids := l.list(kind)
	return ids != nil && slices.Contains(*ids, id)
}

// IDs returns a copy of the ids liked for kind.
func (l LikeSet) IDs(kind LikeKind) []int64 {
	ids := l.list(kind)
	if ids == nil {
		return nil
	}
	return slices.Clone(*ids)
}

// Add appends id when absent and reports whether the set changed.
func (l *LikeSet) Add(kind LikeKind, id int64) bool {
	ids := l.list(kind)
	if ids == nil || slices.Contains(*ids, id) {
		return false
	}
	*ids = append(*ids, id)
	return true
}

// Remove deletes id when present and reports whether the set changed.
func (l *LikeSet) Remove(kind LikeKind, id int64) bool {
	ids := l.list(kind)
	if ids == nil {
		return false
	}
	idx := slices.Index(*ids, id)
	if idx < 0 {
		return false
	}
	*ids = slices.Delete(*ids, idx, idx+1)
	return true
}

// Lookup returns a membership index for kind, used when decorating many items.
func (l LikeSet) Lookup(kind LikeKind) map[int64]struct{} {
	ids := l.list(kind)
	set := make(map[int64]struct{})
	if ids == nil {
		return set
	}
	for _, id := range *ids {
		set[id] = struct{}{}
	}
	return set
}

// Clone returns a deep copy of the set.
func (l LikeSet) Clone() LikeSet {
	return LikeSet{
		Track:    slices.Clone(l.Track),
		Album:    slices.Clone(l.Album),
		Artist:   slices.Clone(l.Artist),
		Playlist: slices.Clone(l.Playlist),
	}
}
