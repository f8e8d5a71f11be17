package store

import (
	"slices"

	"soundshelf/shared/go/models"
)

// Reader exposes lookups over a single snapshot. Every getter returns a copy
// and an ok flag; unknown ids are reported as absent, never as errors.
type Reader struct {
	snap *models.Snapshot
}

func (r *Reader) User(id string) (models.User, bool) {
	u, ok := r.snap.Users[id]
	if !ok {
		return models.User{}, false
	}
	return u.Clone(), true
}

func (r *Reader) UserByUsername(name string) (models.User, bool) {
	for _, u := range r.snap.Users {
		if u.Username == name {
			return u.Clone(), true
		}
	}
	return models.User{}, false
}

func (r *Reader) Artist(id int64) (models.Artist, bool) {
	a, ok := r.snap.Artists[id]
	if !ok {
		return models.Artist{}, false
	}
	return a.Clone(), true
}

func (r *Reader) Album(id int64) (models.Album, bool) {
	a, ok := r.snap.Albums[id]
	if !ok {
		return models.Album{}, false
	}
	return a.Clone(), true
}

func (r *Reader) Track(id int64) (models.Track, bool) {
	t, ok := r.snap.Tracks[id]
	if !ok {
		return models.Track{}, false
	}
	return *t, true
}

func (r *Reader) Playlist(id int64) (models.Playlist, bool) {
	p, ok := r.snap.Playlists[id]
	if !ok {
		return models.Playlist{}, false
	}
	return p.Clone(), true
}

// Artists returns every artist in ascending id order.
func (r *Reader) Artists() []models.Artist {
	return collect(r.snap.Artists, models.Artist.Clone)
}

// Albums returns every album in ascending id order.
func (r *Reader) Albums() []models.Album {
	return collect(r.snap.Albums, models.Album.Clone)
}

// Tracks returns every track in ascending id order.
func (r *Reader) Tracks() []models.Track {
	return collect(r.snap.Tracks, func(t models.Track) models.Track { return t })
}

// Playlists returns every playlist in ascending id order.
func (r *Reader) Playlists() []models.Playlist {
	return collect(r.snap.Playlists, models.Playlist.Clone)
}

// Counts reports how many entities of each type the snapshot holds.
func (r *Reader) Counts() map[string]int {
	return map[string]int{
		"users":     len(r.snap.Users),
		"artists":   len(r.snap.Artists),
		"albums":    len(r.snap.Albums),
		"tracks":    len(r.snap.Tracks),
		"playlists": len(r.snap.Playlists),
	}
}

func collect[T any](m map[int64]*T, clone func(T) T) []T {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, clone(*m[id]))
	}
	return out
}
