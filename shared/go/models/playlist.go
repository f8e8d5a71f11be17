package models

import "slices"

// Playlist captures a user-curated list of tracks. ListMusique holds track
// ids with the most recent addition first.
type Playlist struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Owner       string  `json:"owner"`
	ListMusique []int64 `json:"listMusique"`
}

// Clone returns a deep copy of the playlist.
func (p Playlist) Clone() Playlist {
	p.ListMusique = slices.Clone(p.ListMusique)
	return p
}

// PlaylistAction selects how UpdateTracks applies a list of track ids.
type PlaylistAction string

const (
	// PlaylistAdd inserts missing ids at the head of the track list.
	PlaylistAdd PlaylistAction = "add"
	// PlaylistDel removes every occurrence of the given ids.
	PlaylistDel PlaylistAction = "del"
)
