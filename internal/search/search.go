// Package search matches catalog entities by name.
package search

import (
	"context"
	"strings"

	"soundshelf/internal/store"
	"soundshelf/shared/go/models"
)

// Store is the read side of the catalog store.
type Store interface {
	Reader() *store.Reader
}

// Results captures the different result buckets. Each bucket follows the
// catalog's id order and is never nil.
type Results struct {
	Tracks  []models.Track  `json:"tracks"`
	Albums  []models.Album  `json:"albums"`
	Artists []models.Artist `json:"artists"`
}

// Engine scans the catalog for case-insensitive substring matches.
type Engine struct {
	store Store
}

// NewEngine builds an engine over st.
func NewEngine(st Store) *Engine {
	return &Engine{store: st}
}

// Search trims and lowercases query and returns every track title, album
// name and artist name containing it. A blank query matches nothing.
func (e *Engine) Search(ctx context.Context, query string) (Results, error) {
	if err := ctx.Err(); err != nil {
		return Results{}, err
	}

	res := Results{
		Tracks:  []models.Track{},
		Albums:  []models.Album{},
		Artists: []models.Artist{},
	}
	q := Normalize(query)
	if q == "" {
		return res, nil
	}

	r := e.store.Reader()
	for _, t := range r.Tracks() {
		if matches(t.Title, q) {
			res.Tracks = append(res.Tracks, t)
		}
	}
	for _, a := range r.Albums() {
		if matches(a.Name, q) {
			res.Albums = append(res.Albums, a)
		}
	}
	for _, a := range r.Artists() {
		if matches(a.Name, q) {
			res.Artists = append(res.Artists, a)
		}
	}
	return res, nil
}

// Normalize prepares a raw query for matching.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func matches(name, q string) bool {
	return strings.Contains(strings.ToLower(name), q)
}
