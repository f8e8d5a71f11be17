package catalog_test

import (
	"context"
	"errors"
	"testing"

	"soundshelf/internal/app/catalog"
	"soundshelf/internal/apperr"
	"soundshelf/internal/blob"
	"soundshelf/internal/store"
	"soundshelf/internal/testutil"
	"soundshelf/shared/go/logging"
	"soundshelf/shared/go/models"
)

type fakeResolver struct {
	prefix  string
	missing map[string]bool
	calls   int
}

func (f *fakeResolver) Resolve(_ context.Context, key string) (string, error) {
	f.calls++
	if f.missing[key] {
		return "", blob.ErrObjectNotFound
	}
	return f.prefix + key, nil
}

func newService(t *testing.T, images, media blob.Resolver) (catalog.Service, *store.Store) {
	t.Helper()
	st, _ := testutil.NewStore(t, testutil.Catalog())
	if images == nil {
		images = blob.NewPublicURL("https://cdn.test")
	}
	return catalog.New(st, images, media, logging.Nop()), st
}

func trackIDs(tracks []catalog.TrackView) []int64 {
	ids := make([]int64, 0, len(tracks))
	for _, t := range tracks {
		ids = append(ids, t.ID)
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func TestAlbumOrdersTracksByPosition(t *testing.T) {
	svc, _ := newService(t, nil, nil)

	album, err := svc.Album(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("Album: %v", err)
	}

	if got := trackIDs(album.ListMusique); !equalIDs(got, []int64{101, 100}) {
		t.Fatalf("expected tracks [101 100], got %v", got)
	}
	if album.ListMusique[0].Title != "Aerodynamic" {
		t.Fatalf("expected Aerodynamic first, got %q", album.ListMusique[0].Title)
	}
	if len(album.Artist) != 1 || album.Artist[0].Name != "Daft Punk" {
		t.Fatalf("unexpected artists %+v", album.Artist)
	}
	if deref(album.ArtistName) != "Daft Punk" || album.ArtistID == nil || *album.ArtistID != 1 {
		t.Fatalf("unexpected main artist %s/%v", deref(album.ArtistName), album.ArtistID)
	}
	if deref(album.Cover) != "https://cdn.test/covers/discovery.jpg" {
		t.Fatalf("unexpected cover %s", deref(album.Cover))
	}
	for _, tr := range album.ListMusique {
		if deref(tr.CoverSmall) != "https://cdn.test/covers/discovery-small.jpg" {
			t.Fatalf("unexpected coverSmall %s", deref(tr.CoverSmall))
		}
		if deref(tr.AlbumName) != "Discovery" {
			t.Fatalf("unexpected album name %s", deref(tr.AlbumName))
		}
		if tr.Path != nil {
			t.Fatalf("album views must not resolve audio paths")
		}
	}
}

func TestAlbumLikeFlags(t *testing.T) {
	svc, _ := newService(t, nil, nil)

	tests := []struct {
		name       string
		viewer     string
		albumLiked bool
		liked      map[int64]bool
	}{
		{name: "anonymous", viewer: "", liked: map[int64]bool{100: false, 101: false}},
		{name: "alice", viewer: "u1", albumLiked: true, liked: map[int64]bool{100: false, 101: true}},
		{name: "bob", viewer: "u2", liked: map[int64]bool{100: false, 101: false}},
		{name: "vanished user", viewer: "ghost", liked: map[int64]bool{100: false, 101: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			album, err := svc.Album(context.Background(), tt.viewer, 10)
			if err != nil {
				t.Fatalf("Album: %v", err)
			}
			if album.Like != tt.albumLiked {
				t.Fatalf("album like = %v, want %v", album.Like, tt.albumLiked)
			}
			for _, tr := range album.ListMusique {
				if tr.Like != tt.liked[tr.ID] {
					t.Fatalf("track %d like = %v, want %v", tr.ID, tr.Like, tt.liked[tr.ID])
				}
			}
		})
	}
}

func TestAlbumSkipsDanglingReferences(t *testing.T) {
	svc, _ := newService(t, nil, nil)

	album, err := svc.Album(context.Background(), "u1", 20)
	if err != nil {
		t.Fatalf("Album: %v", err)
	}
	if len(album.Artist) != 1 || album.Artist[0].ID != 2 {
		t.Fatalf("expected only artist 2, got %+v", album.Artist)
	}
	if got := trackIDs(album.ListMusique); !equalIDs(got, []int64{200}) {
		t.Fatalf("expected tracks [200], got %v", got)
	}
}

func TestNotFound(t *testing.T) {
	svc, _ := newService(t, nil, nil)
	ctx := context.Background()

	if _, err := svc.Album(ctx, "", 999); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Album: expected not found, got %v", err)
	}
	if _, err := svc.Artist(ctx, "", 999); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Artist: expected not found, got %v", err)
	}
	if _, err := svc.Track(ctx, "", 999); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Track: expected not found, got %v", err)
	}
	if _, err := svc.Playlist(ctx, "u1", 999); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Playlist: expected not found, got %v", err)
	}
}

func TestTrackWithDanglingRelations(t *testing.T) {
	svc, _ := newService(t, nil, nil)

	tr, err := svc.Track(context.Background(), "", 300)
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if tr.AlbumName != nil || tr.ArtistName != nil || tr.CoverSmall != nil {
		t.Fatalf("expected nil relations, got album=%s artist=%s cover=%s",
			deref(tr.AlbumName), deref(tr.ArtistName), deref(tr.CoverSmall))
	}
	if tr.AlbumID != 77 || tr.ArtistID != 88 {
		t.Fatalf("raw ids must be kept, got album=%d artist=%d", tr.AlbumID, tr.ArtistID)
	}
}

func TestTracksByIDsResolvesPaths(t *testing.T) {
	media := &fakeResolver{prefix: "signed://", missing: map[string]bool{"audio/102.mp3": true}}
	svc, _ := newService(t, nil, media)

	tracks, err := svc.TracksByIDs(context.Background(), "u1", []int64{100, 999, 102, 101})
	if err != nil {
		t.Fatalf("TracksByIDs: %v", err)
	}
	if got := trackIDs(tracks); !equalIDs(got, []int64{100, 102, 101}) {
		t.Fatalf("expected [100 102 101], got %v", got)
	}

	want := map[int64]string{100: "signed://audio/100.mp3", 102: "<nil>", 101: "<nil>"}
	for _, tr := range tracks {
		if got := deref(tr.Path); got != want[tr.ID] {
			t.Fatalf("track %d path = %s, want %s", tr.ID, got, want[tr.ID])
		}
	}
	if !tracks[2].Like {
		t.Fatal("track 101 is liked by u1")
	}
	if media.calls != 2 {
		t.Fatalf("expected 2 resolver calls, got %d", media.calls)
	}
}

func TestCoverFailureDegradesPerField(t *testing.T) {
	images := &fakeResolver{prefix: "img://", missing: map[string]bool{"covers/homework.jpg": true}}
	svc, _ := newService(t, images, nil)

	album, err := svc.Album(context.Background(), "", 11)
	if err != nil {
		t.Fatalf("Album: %v", err)
	}
	if album.Cover != nil {
		t.Fatalf("expected nil cover, got %s", deref(album.Cover))
	}
	if len(album.ListMusique) != 1 || album.ListMusique[0].CoverSmall != nil {
		t.Fatalf("expected track with nil coverSmall, got %+v", album.ListMusique)
	}
	if images.calls != 1 {
		t.Fatalf("expected the failed key to be resolved once per view, got %d calls", images.calls)
	}
}

func TestPlaylistUsesStoredOrderAndCurrentLikes(t *testing.T) {
	svc, st := newService(t, nil, nil)
	ctx := context.Background()

	err := st.Update(ctx, func(tx *store.Tx) error {
		return tx.SetLike("u1", models.LikeTrack, 200, true)
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	p, err := svc.Playlist(ctx, "u1", 5)
	if err != nil {
		t.Fatalf("Playlist: %v", err)
	}
	if p.Name != "Road trip" {
		t.Fatalf("unexpected name %q", p.Name)
	}
	if got := trackIDs(p.ListMusique); !equalIDs(got, []int64{200, 100}) {
		t.Fatalf("expected stored order [200 100], got %v", got)
	}
	if !p.ListMusique[0].Like || p.ListMusique[1].Like {
		t.Fatalf("unexpected like flags %+v", p.ListMusique)
	}
	if deref(p.ListMusique[0].CoverSmall) != "https://cdn.test/covers/cross-small.jpg" {
		t.Fatalf("unexpected coverSmall %s", deref(p.ListMusique[0].CoverSmall))
	}
}

func TestLikedViews(t *testing.T) {
	svc, _ := newService(t, nil, nil)
	ctx := context.Background()

	if _, err := svc.LikedTracks(ctx, ""); !errors.Is(err, catalog.ErrViewerRequired) {
		t.Fatalf("expected ErrViewerRequired, got %v", err)
	}
	if _, err := svc.LikedAlbums(ctx, "ghost"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	liked, err := svc.LikedTracks(ctx, "u1")
	if err != nil {
		t.Fatalf("LikedTracks: %v", err)
	}
	if liked.ID != 0 || liked.Name != catalog.LikedTracksName {
		t.Fatalf("unexpected header %d/%q", liked.ID, liked.Name)
	}
	if got := trackIDs(liked.ListMusique); !equalIDs(got, []int64{101}) || !liked.ListMusique[0].Like {
		t.Fatalf("unexpected liked tracks %+v", liked.ListMusique)
	}

	albums, err := svc.LikedAlbums(ctx, "u1")
	if err != nil {
		t.Fatalf("LikedAlbums: %v", err)
	}
	if len(albums) != 1 || albums[0].ID != 10 || !albums[0].Like {
		t.Fatalf("unexpected liked albums %+v", albums)
	}

	artists, err := svc.LikedArtists(ctx, "u1")
	if err != nil {
		t.Fatalf("LikedArtists: %v", err)
	}
	if len(artists) != 1 || artists[0].ID != 1 || !artists[0].Like {
		t.Fatalf("dangling artist 42 must be filtered, got %+v", artists)
	}
}

func TestAllAlbumsAndArtists(t *testing.T) {
	svc, _ := newService(t, nil, nil)
	ctx := context.Background()

	albums, err := svc.AllAlbums(ctx, "u1")
	if err != nil {
		t.Fatalf("AllAlbums: %v", err)
	}
	var ids []int64
	for _, a := range albums {
		ids = append(ids, a.ID)
	}
	if !equalIDs(ids, []int64{10, 11, 20}) {
		t.Fatalf("expected ascending ids, got %v", ids)
	}
	if !albums[0].Like || albums[1].Like {
		t.Fatalf("unexpected like flags %+v", albums)
	}
	if deref(albums[2].ArtistName) != "Justice" {
		t.Fatalf("main artist of Cross is Justice, got %s", deref(albums[2].ArtistName))
	}

	artists, err := svc.AllArtists(ctx, "")
	if err != nil {
		t.Fatalf("AllArtists: %v", err)
	}
	if len(artists) != 2 || artists[0].Name != "Daft Punk" || artists[0].Like {
		t.Fatalf("unexpected artists %+v", artists)
	}
	if deref(artists[1].Image) != "https://cdn.test/artists/justice.jpg" {
		t.Fatalf("unexpected image %s", deref(artists[1].Image))
	}
}

func TestBatchLookupsSkipUnknownIDs(t *testing.T) {
	svc, _ := newService(t, nil, nil)
	ctx := context.Background()

	albums, err := svc.AlbumsByIDs(ctx, "", []int64{20, 404, 10})
	if err != nil {
		t.Fatalf("AlbumsByIDs: %v", err)
	}
	if len(albums) != 2 || albums[0].ID != 20 || albums[1].ID != 10 {
		t.Fatalf("unexpected albums %+v", albums)
	}

	artists, err := svc.ArtistsByIDs(ctx, "u1", []int64{42, 2, 1})
	if err != nil {
		t.Fatalf("ArtistsByIDs: %v", err)
	}
	if len(artists) != 2 || artists[0].ID != 2 || artists[0].Like || !artists[1].Like {
		t.Fatalf("unexpected artists %+v", artists)
	}

	empty, err := svc.TracksByIDs(ctx, "", nil)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v (%v)", empty, err)
	}
}

func TestArtistWithAlbums(t *testing.T) {
	svc, _ := newService(t, nil, nil)

	artist, err := svc.Artist(context.Background(), "u1", 1)
	if err != nil {
		t.Fatalf("Artist: %v", err)
	}
	if len(artist.ListAlbums) != 2 {
		t.Fatalf("expected 2 albums, got %+v", artist.ListAlbums)
	}
	if artist.ListAlbums[0].Date != "2001" || !artist.ListAlbums[0].Like {
		t.Fatalf("unexpected first album %+v", artist.ListAlbums[0])
	}
	if deref(artist.Image) != "https://cdn.test/artists/daft-punk.jpg" {
		t.Fatalf("unexpected image %s", deref(artist.Image))
	}

	justice, err := svc.Artist(context.Background(), "", 2)
	if err != nil {
		t.Fatalf("Artist: %v", err)
	}
	if len(justice.ListAlbums) != 1 || justice.ListAlbums[0].ID != 20 {
		t.Fatalf("dangling album 404 must be skipped, got %+v", justice.ListAlbums)
	}
}

func TestCancelledContext(t *testing.T) {
	svc, _ := newService(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.AllAlbums(ctx, ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type resolverFunc func(ctx context.Context, key string) (string, error)

func (f resolverFunc) Resolve(ctx context.Context, key string) (string, error) {
	return f(ctx, key)
}

func TestFuncResolvers(t *testing.T) {
	calls := map[string]int{}
	res := resolverFunc(func(_ context.Context, key string) (string, error) {
		calls[key]++
		return "fn://" + key, nil
	})
	svc, _ := newService(t, res, res)

	album, err := svc.Album(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("Album: %v", err)
	}
	if deref(album.Cover) != "fn://covers/discovery.jpg" {
		t.Fatalf("expected cover from func resolver, got %s", deref(album.Cover))
	}

	tracks, err := svc.TracksByIDs(context.Background(), "u1", []int64{100})
	if err != nil {
		t.Fatalf("TracksByIDs: %v", err)
	}
	if len(tracks) != 1 || deref(tracks[0].Path) != "fn://audio/100.mp3" {
		t.Fatalf("expected path from func resolver, got %+v", tracks)
	}
	if calls["audio/100.mp3"] != 1 {
		t.Fatalf("expected one media lookup, got %d", calls["audio/100.mp3"])
	}
}
