package store_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"soundshelf/internal/apperr"
	"soundshelf/internal/store"
	"soundshelf/internal/testutil"
	"soundshelf/shared/go/models"
)

func TestOpenRejectsInvalidSnapshot(t *testing.T) {
	snap := testutil.Catalog()
	snap.Tracks[100].Title = ""

	_, err := store.Open(context.Background(), store.NewMemoryPersister(snap))
	if !errors.Is(err, models.ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}

func TestReaderLookups(t *testing.T) {
	st, _ := testutil.NewStore(t, testutil.Catalog())
	r := st.Reader()

	if _, ok := r.Album(12345); ok {
		t.Fatalf("expected unknown album to be absent")
	}
	if u, ok := r.UserByUsername("bob"); !ok || u.ID != "u2" {
		t.Fatalf("UserByUsername(bob) = %+v, %v", u, ok)
	}

	var ids []int64
	for _, a := range r.Albums() {
		ids = append(ids, a.ID)
	}
	if !slices.Equal(ids, []int64{10, 11, 20}) {
		t.Fatalf("expected albums in id order, got %v", ids)
	}

	// Returned values are copies.
	album, _ := r.Album(10)
	album.ListMusique[0] = 999
	again, _ := r.Album(10)
	if again.ListMusique[0] != 100 {
		t.Fatalf("mutating a returned album leaked into the store")
	}
}

func TestUpdatePublishesAfterSave(t *testing.T) {
	st, persister := testutil.NewStore(t, testutil.Catalog())
	before := st.Reader()

	err := st.Update(context.Background(), func(tx *store.Tx) error {
		return tx.SetLike("u2", models.LikeTrack, 100, true)
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if u, _ := st.User("u2"); !u.Like.Has(models.LikeTrack, 100) {
		t.Fatalf("expected like to be visible after update")
	}
	if u, _ := before.User("u2"); u.Like.Has(models.LikeTrack, 100) {
		t.Fatalf("reader taken before the update must keep its snapshot")
	}
	if !persister.Snapshot().Users["u2"].Like.Has(models.LikeTrack, 100) {
		t.Fatalf("expected like to be persisted")
	}
}

func TestUpdateRollsBackOnSaveFailure(t *testing.T) {
	st, persister := testutil.NewStore(t, testutil.Catalog())
	persister.FailSaves(errors.New("disk full"))

	err := st.Update(context.Background(), func(tx *store.Tx) error {
		tx.DeletePlaylist("u1", 5)
		return nil
	})
	if !errors.Is(err, apperr.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if _, ok := st.Playlist(5); !ok {
		t.Fatalf("playlist must survive a failed persist")
	}
	if u, _ := st.User("u1"); !u.Like.Has(models.LikePlaylist, 5) {
		t.Fatalf("liked playlist must survive a failed persist")
	}

	persister.FailSaves(nil)
	if err := st.Update(context.Background(), func(tx *store.Tx) error {
		tx.DeletePlaylist("u1", 5)
		return nil
	}); err != nil {
		t.Fatalf("Update after recovery: %v", err)
	}
	if _, ok := st.Playlist(5); ok {
		t.Fatalf("expected playlist to be deleted")
	}
}

func TestUpdateCallbackErrorSkipsSave(t *testing.T) {
	st, persister := testutil.NewStore(t, testutil.Catalog())
	boom := errors.New("boom")

	err := st.Update(context.Background(), func(tx *store.Tx) error {
		if _, err := tx.CreatePlaylist("u1", "draft"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if persister.Saves() != 0 {
		t.Fatalf("expected no save, got %d", persister.Saves())
	}
	if len(st.Reader().Playlists()) != 2 {
		t.Fatalf("aborted update leaked a playlist")
	}
}

func TestCreatePlaylistAllocatesIDs(t *testing.T) {
	snap := testutil.Catalog()
	snap.Playlists = nil
	st, _ := testutil.NewStore(t, snap)

	var ids []int64
	for i := 0; i < 2; i++ {
		err := st.Update(context.Background(), func(tx *store.Tx) error {
			id, err := tx.CreatePlaylist("u2", fmt.Sprintf("list %d", i))
			ids = append(ids, id)
			return err
		})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	if !slices.Equal(ids, []int64{1, 2}) {
		t.Fatalf("expected ids [1 2], got %v", ids)
	}

	err := st.Update(context.Background(), func(tx *store.Tx) error {
		_, err := tx.CreatePlaylist("ghost", "nope")
		return err
	})
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestConcurrentUpdatesAreSerialized(t *testing.T) {
	st, persister := testutil.NewStore(t, testutil.Catalog())

	const writers = 40
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			err := st.Update(context.Background(), func(tx *store.Tx) error {
				return tx.SetLike("u2", models.LikeAlbum, id, true)
			})
			if err != nil {
				t.Errorf("Update: %v", err)
			}
		}(int64(1000 + i))
	}
	wg.Wait()

	u, _ := st.User("u2")
	if got := len(u.Like.IDs(models.LikeAlbum)); got != writers {
		t.Fatalf("expected %d liked albums, got %d", writers, got)
	}
	if persister.Saves() != writers {
		t.Fatalf("expected %d saves, got %d", writers, persister.Saves())
	}
}

func TestFilePersisterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "database.json")
	p := store.NewFilePersister(path)

	if _, err := p.Load(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}

	if err := p.Save(context.Background(), testutil.Catalog()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	st, err := store.Open(context.Background(), p)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	album, ok := st.Reader().Album(10)
	if !ok || album.Name != "Discovery" || !slices.Equal(album.ListMusique, []int64{100, 101}) {
		t.Fatalf("unexpected album after reload: %+v", album)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the snapshot file, found %d entries", len(entries))
	}
}
