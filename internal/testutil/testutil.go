// Package testutil provides catalog fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"

	"soundshelf/internal/store"
	"soundshelf/shared/go/models"
)

// PlaceholderHash is a syntactically valid bcrypt hash that matches no password used in tests.
const PlaceholderHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8n4VWeNseyX2fA9DE.D7su7J6iYGTC"

// Catalog returns a small catalog:
//
//	artists 1 Daft Punk (albums 10, 11), 2 Justice (album 20)
//	album 10 Discovery lists tracks [100, 101] but 101 is track 1 on the record
//	album 20 credits a missing artist 99
//	track 300 points at a missing album and artist
//	user u1 owns playlist 5, user u2 owns playlist 6
func Catalog() *models.Snapshot {
	snap := models.NewSnapshot()

	snap.Users["u1"] = &models.User{
		ID:           "u1",
		Username:     "alice",
		PasswordHash: PlaceholderHash,
		Email:        "alice@example.com",
		Like: models.LikeSet{
			Track:    []int64{101},
			Album:    []int64{10},
			Artist:   []int64{1, 42},
			Playlist: []int64{5, 404},
		},
	}
	snap.Users["u2"] = &models.User{
		ID:           "u2",
		Username:     "bob",
		PasswordHash: PlaceholderHash,
		Like:         models.LikeSet{Playlist: []int64{6}},
	}

	snap.Artists[1] = &models.Artist{ID: 1, Name: "Daft Punk", Image: "artists/daft-punk.jpg", ListAlbums: []int64{10, 11}}
	snap.Artists[2] = &models.Artist{ID: 2, Name: "Justice", Image: "artists/justice.jpg", ListAlbums: []int64{20, 404}}

	snap.Albums[10] = &models.Album{
		ID: 10, Name: "Discovery", Cover: "covers/discovery.jpg", CoverSmall: "covers/discovery-small.jpg",
		Date: "2001", ArtistIDs: []int64{1}, ListMusique: []int64{100, 101},
	}
	snap.Albums[11] = &models.Album{
		ID: 11, Name: "Homework", Cover: "covers/homework.jpg",
		Date: "1997", ArtistIDs: []int64{1}, ListMusique: []int64{102},
	}
	snap.Albums[20] = &models.Album{
		ID: 20, Name: "Cross", Cover: "covers/cross.jpg", CoverSmall: "covers/cross-small.jpg",
		ArtistIDs: []int64{2, 99}, ListMusique: []int64{200, 999},
	}

	snap.Tracks[100] = &models.Track{ID: 100, Title: "One More Time", Duration: 320, AlbumID: 10, ArtistID: 1, AlbumTrack: 2, Path: "audio/100.mp3"}
	snap.Tracks[101] = &models.Track{ID: 101, Title: "Aerodynamic", Duration: 212, AlbumID: 10, ArtistID: 1, AlbumTrack: 1}
	snap.Tracks[102] = &models.Track{ID: 102, Title: "Da Funk", Duration: 328, AlbumID: 11, ArtistID: 1, AlbumTrack: 1, Path: "audio/102.mp3"}
	snap.Tracks[200] = &models.Track{ID: 200, Title: "Genesis", Duration: 234, AlbumID: 20, ArtistID: 2, AlbumTrack: 1}
	snap.Tracks[300] = &models.Track{ID: 300, Title: "Orphan Mix", Duration: 180, AlbumID: 77, ArtistID: 88, AlbumTrack: 1}

	snap.Playlists[5] = &models.Playlist{ID: 5, Name: "Road trip", Owner: "u1", ListMusique: []int64{200, 100}}
	snap.Playlists[6] = &models.Playlist{ID: 6, Name: "Bob's mix", Owner: "u2", ListMusique: []int64{102}}

	return snap
}

// NewStore opens a store over an in-memory persister seeded with snap.
func NewStore(t testing.TB, snap *models.Snapshot) (*store.Store, *store.MemoryPersister) {
	t.Helper()

	persister := store.NewMemoryPersister(snap)
	st, err := store.Open(context.Background(), persister)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return st, persister
}
