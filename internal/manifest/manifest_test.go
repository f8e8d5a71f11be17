package manifest_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"soundshelf/internal/apperr"
	"soundshelf/internal/manifest"
	"soundshelf/internal/store"
	"soundshelf/internal/testutil"
)

const sample = `
[[artists]]
id = 3
name = "Air"
image = "artists/air.jpg"

[[albums]]
id = 30
name = "Moon Safari"
cover = "covers/moon-safari.jpg"
date = "1998"
artists = [3, 1]

[[tracks]]
id = 400
title = "La Femme d'Argent"
album = 30
artist = 3
album_track = 1
duration = 431
path = "audio/400.mp3"

[[tracks]]
id = 401
title = "Sexy Boy"
album = 30
artist = 3
album_track = 2
file = "local/401.mp3"
`

func TestParseAndApply(t *testing.T) {
	m, err := manifest.Parse(sample)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	st, _ := testutil.NewStore(t, testutil.Catalog())
	var probed []string
	probe := func(path string) (int, error) {
		probed = append(probed, path)
		return 298, nil
	}

	var sum manifest.Summary
	err = st.Update(context.Background(), func(tx *store.Tx) error {
		sum, err = m.Apply(tx, probe)
		return err
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if sum != (manifest.Summary{Artists: 1, Albums: 1, Tracks: 2, Probed: 1}) {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if !slices.Equal(probed, []string{"local/401.mp3"}) {
		t.Fatalf("unexpected probes %v", probed)
	}

	r := st.Reader()
	album, ok := r.Album(30)
	if !ok || !slices.Equal(album.ListMusique, []int64{400, 401}) || !slices.Equal(album.ArtistIDs, []int64{3, 1}) {
		t.Fatalf("unexpected album %+v", album)
	}
	if track, _ := r.Track(401); track.Duration != 298 {
		t.Fatalf("expected probed duration, got %d", track.Duration)
	}
	air, _ := r.Artist(3)
	if !slices.Equal(air.ListAlbums, []int64{30}) {
		t.Fatalf("unexpected artist albums %v", air.ListAlbums)
	}
	daftPunk, _ := r.Artist(1)
	if !slices.Equal(daftPunk.ListAlbums, []int64{10, 11, 30}) {
		t.Fatalf("existing artist must gain the new album, got %v", daftPunk.ListAlbums)
	}
}

func TestApplyKeepsExistingLinks(t *testing.T) {
	m, err := manifest.Parse(`
[[albums]]
id = 10
name = "Discovery (Remastered)"
cover = "covers/discovery-2021.jpg"
artists = [1]
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	st, _ := testutil.NewStore(t, testutil.Catalog())
	if err := st.Update(context.Background(), func(tx *store.Tx) error {
		_, err := m.Apply(tx, nil)
		return err
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	album, _ := st.Reader().Album(10)
	if album.Name != "Discovery (Remastered)" || !slices.Equal(album.ListMusique, []int64{100, 101}) {
		t.Fatalf("unexpected album %+v", album)
	}
	artist, _ := st.Reader().Artist(1)
	if !slices.Equal(artist.ListAlbums, []int64{10, 11}) {
		t.Fatalf("album must not be linked twice, got %v", artist.ListAlbums)
	}
}

func TestApplyProbeFailureAbortsImport(t *testing.T) {
	m, err := manifest.Parse(sample)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	st, persister := testutil.NewStore(t, testutil.Catalog())

	err = st.Update(context.Background(), func(tx *store.Tx) error {
		_, err := m.Apply(tx, func(string) (int, error) { return 0, errors.New("corrupt frame") })
		return err
	})
	if err == nil || !strings.Contains(err.Error(), "track 401") {
		t.Fatalf("expected probe error for track 401, got %v", err)
	}
	if _, ok := st.Reader().Album(30); ok {
		t.Fatal("failed import must not be visible")
	}
	if persister.Saves() != 0 {
		t.Fatal("failed import must not persist")
	}
}

func TestParseRejectsInvalidManifests(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "syntax", doc: "[[artists]\nid = 1", want: "decode manifest"},
		{name: "unknown key", doc: "[[artists]]\nid = 1\nname = \"x\"\ngenre = \"pop\"", want: "unknown manifest keys"},
		{name: "missing cover", doc: "[[albums]]\nid = 1\nname = \"x\"\nartists = [1]", want: "cover is required"},
		{name: "duplicate track", doc: "[[tracks]]\nid = 1\ntitle = \"a\"\nalbum = 1\nartist = 1\n[[tracks]]\nid = 1\ntitle = \"b\"\nalbum = 1\nartist = 1", want: "duplicate id"},
		{name: "track without album", doc: "[[tracks]]\nid = 1\ntitle = \"a\"\nartist = 1", want: "album and artist are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manifest.Parse(tt.doc)
			if !errors.Is(err, apperr.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %v", tt.want, err)
			}
		})
	}
}

func TestLoadResolvesFilesRelativeToManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.toml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	m, err := manifest.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	st, _ := testutil.NewStore(t, testutil.Catalog())
	var probed string
	if err := st.Update(context.Background(), func(tx *store.Tx) error {
		_, err := m.Apply(tx, func(p string) (int, error) {
			probed = p
			return 1, nil
		})
		return err
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if want := filepath.Join(dir, "local", "401.mp3"); probed != want {
		t.Fatalf("expected probe of %q, got %q", want, probed)
	}
}
