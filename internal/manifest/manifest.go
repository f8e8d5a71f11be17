// Package manifest imports catalog entries described in a TOML file.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"soundshelf/internal/apperr"
	"soundshelf/internal/store"
	"soundshelf/shared/go/models"
)

// Manifest lists the artists, albums and tracks to add to the catalog.
type Manifest struct {
	Artists []Artist `toml:"artists"`
	Albums  []Album  `toml:"albums"`
	Tracks  []Track  `toml:"tracks"`

	// dir resolves relative track files.
	dir string
}

type Artist struct {
	ID    int64  `toml:"id"`
	Name  string `toml:"name"`
	Image string `toml:"image"`
}

type Album struct {
	ID         int64   `toml:"id"`
	Name       string  `toml:"name"`
	Cover      string  `toml:"cover"`
	CoverSmall string  `toml:"cover_small"`
	Date       string  `toml:"date"`
	Artists    []int64 `toml:"artists"`
}

// Track describes a recording. File is an optional local MP3 used to probe
// the duration when Duration is zero.
type Track struct {
	ID         int64  `toml:"id"`
	Title      string `toml:"title"`
	Album      int64  `toml:"album"`
	Artist     int64  `toml:"artist"`
	AlbumTrack int    `toml:"album_track"`
	Duration   int    `toml:"duration"`
	Path       string `toml:"path"`
	File       string `toml:"file"`
}

// Summary counts the entities an import wrote.
type Summary struct {
	Artists int
	Albums  int
	Tracks  int
	Probed  int
}

// DurationProbe returns the length in seconds of a local audio file.
type DurationProbe func(path string) (int, error)

// Load decodes the manifest at path and validates it.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	m, err := Parse(string(data))
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", path, err)
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

// Parse decodes and validates a manifest document.
func Parse(data string) (Manifest, error) {
	var m Manifest
	meta, err := toml.Decode(data, &m)
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: decode manifest: %w", apperr.ErrInvalidInput, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Manifest{}, fmt.Errorf("%w: unknown manifest keys: %s", apperr.ErrInvalidInput, strings.Join(keys, ", "))
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Validate reports every missing field and duplicate id in the manifest.
func (m Manifest) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	seen := map[string]map[int64]bool{"artist": {}, "album": {}, "track": {}}
	checkID := func(kind string, id int64) {
		switch {
		case id <= 0:
			add("%s %d: id must be positive", kind, id)
		case seen[kind][id]:
			add("%s %d: duplicate id", kind, id)
		default:
			seen[kind][id] = true
		}
	}

	for _, a := range m.Artists {
		checkID("artist", a.ID)
		if strings.TrimSpace(a.Name) == "" {
			add("artist %d: name is required", a.ID)
		}
	}
	for _, a := range m.Albums {
		checkID("album", a.ID)
		if strings.TrimSpace(a.Name) == "" {
			add("album %d: name is required", a.ID)
		}
		if a.Cover == "" {
			add("album %d: cover is required", a.ID)
		}
		if len(a.Artists) == 0 {
			add("album %d: at least one artist is required", a.ID)
		}
	}
	for _, t := range m.Tracks {
		checkID("track", t.ID)
		if strings.TrimSpace(t.Title) == "" {
			add("track %d: title is required", t.ID)
		}
		if t.Album <= 0 || t.Artist <= 0 {
			add("track %d: album and artist are required", t.ID)
		}
		if t.Duration < 0 {
			add("track %d: duration must not be negative", t.ID)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", apperr.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}

// Apply writes the manifest into tx. Existing entities with the same id are
// replaced; back-references (artist albums, album tracks) are merged so
// earlier imports stay linked.
func (m Manifest) Apply(tx *store.Tx, probe DurationProbe) (Summary, error) {
	var sum Summary

	for _, a := range m.Artists {
		artist := models.Artist{ID: a.ID, Name: a.Name, Image: a.Image}
		if prev, ok := tx.Artist(a.ID); ok {
			artist.ListAlbums = prev.ListAlbums
		}
		tx.PutArtist(artist)
		sum.Artists++
	}

	for _, a := range m.Albums {
		album := models.Album{
			ID:         a.ID,
			Name:       a.Name,
			Cover:      a.Cover,
			CoverSmall: a.CoverSmall,
			Date:       a.Date,
			ArtistIDs:  slices.Clone(a.Artists),
		}
		if prev, ok := tx.Album(a.ID); ok {
			album.ListMusique = prev.ListMusique
		}
		tx.PutAlbum(album)
		sum.Albums++

		for _, artistID := range a.Artists {
			artist, ok := tx.Artist(artistID)
			if !ok || slices.Contains(artist.ListAlbums, a.ID) {
				continue
			}
			artist.ListAlbums = append(artist.ListAlbums, a.ID)
			tx.PutArtist(artist)
		}
	}

	for _, t := range m.Tracks {
		duration := t.Duration
		if duration == 0 && t.File != "" && probe != nil {
			d, err := probe(m.resolve(t.File))
			if err != nil {
				return Summary{}, fmt.Errorf("track %d: probe duration: %w", t.ID, err)
			}
			duration = d
			sum.Probed++
		}

		tx.PutTrack(models.Track{
			ID:         t.ID,
			Title:      t.Title,
			Duration:   duration,
			AlbumID:    t.Album,
			ArtistID:   t.Artist,
			AlbumTrack: t.AlbumTrack,
			Path:       t.Path,
		})
		sum.Tracks++

		album, ok := tx.Album(t.Album)
		if !ok || slices.Contains(album.ListMusique, t.ID) {
			continue
		}
		album.ListMusique = append(album.ListMusique, t.ID)
		tx.PutAlbum(album)
	}

	return sum, nil
}

func (m Manifest) resolve(file string) string {
	if filepath.IsAbs(file) || m.dir == "" {
		return file
	}
	return filepath.Join(m.dir, file)
}
