package models

import "slices"

// Artist is a catalog artist. Image is an object storage key.
type Artist struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Image      string  `json:"image"`
	ListAlbums []int64 `json:"listAlbums"`
}

// Clone returns a deep copy of the artist.
func (a Artist) Clone() Artist {
	a.ListAlbums = slices.Clone(a.ListAlbums)
	return a
}

// Album is a catalog album. The order of ListMusique is not authoritative;
// tracks are ordered by Track.AlbumTrack.
type Album struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Cover       string  `json:"cover"`
	CoverSmall  string  `json:"coverSmall,omitempty"`
	Date        string  `json:"date,omitempty"`
	ArtistIDs   []int64 `json:"artistIds"`
	ListMusique []int64 `json:"listMusique"`
}

// Clone returns a deep copy of the album.
func (a Album) Clone() Album {
	a.ArtistIDs = slices.Clone(a.ArtistIDs)
	a.ListMusique = slices.Clone(a.ListMusique)
	return a
}

// ThumbnailKey returns the small cover key, falling back to the full cover.
func (a Album) ThumbnailKey() string {
	if a.CoverSmall != "" {
		return a.CoverSmall
	}
	return a.Cover
}

// MainArtistID returns the first credited artist.
func (a Album) MainArtistID() (int64, bool) {
	if len(a.ArtistIDs) == 0 {
		return 0, false
	}
	return a.ArtistIDs[0], true
}

// Track is a single recording. Duration is expressed in seconds and Path is
// the optional storage key of the audio file.
type Track struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Duration   int    `json:"duration"`
	AlbumID    int64  `json:"albumId"`
	ArtistID   int64  `json:"artistId"`
	AlbumTrack int    `json:"albumTrack"`
	Path       string `json:"path,omitempty"`
}
