// Package catalog builds personalised, denormalised views of the catalog.
package catalog

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"soundshelf/internal/apperr"
	"soundshelf/internal/blob"
	"soundshelf/internal/store"
	"soundshelf/shared/go/logging"
	"soundshelf/shared/go/models"
)

var (
	// ErrTrackNotFound signals an unknown track id.
	ErrTrackNotFound = fmt.Errorf("track %w", apperr.ErrNotFound)
	// ErrAlbumNotFound signals an unknown album id.
	ErrAlbumNotFound = fmt.Errorf("album %w", apperr.ErrNotFound)
	// ErrArtistNotFound signals an unknown artist id.
	ErrArtistNotFound = fmt.Errorf("artist %w", apperr.ErrNotFound)
	// ErrViewerRequired is returned by views that only make sense for a known user.
	ErrViewerRequired = fmt.Errorf("viewer required: %w", apperr.ErrUnauthorized)
)

// Store is the read side of the catalog store.
type Store interface {
	Reader() *store.Reader
}

// Service builds views. viewerID is the requesting user's id, or "" for an
// anonymous caller, in which case every like flag is false.
type Service interface {
	Track(ctx context.Context, viewerID string, id int64) (TrackView, error)
	TracksByIDs(ctx context.Context, viewerID string, ids []int64) ([]TrackView, error)
	LikedTracks(ctx context.Context, viewerID string) (PlaylistView, error)

	Album(ctx context.Context, viewerID string, id int64) (AlbumView, error)
	AllAlbums(ctx context.Context, viewerID string) ([]AlbumSummary, error)
	LikedAlbums(ctx context.Context, viewerID string) ([]AlbumSummary, error)
	AlbumsByIDs(ctx context.Context, viewerID string, ids []int64) ([]AlbumSummary, error)

	Artist(ctx context.Context, viewerID string, id int64) (ArtistDetail, error)
	AllArtists(ctx context.Context, viewerID string) ([]ArtistView, error)
	LikedArtists(ctx context.Context, viewerID string) ([]ArtistView, error)
	ArtistsByIDs(ctx context.Context, viewerID string, ids []int64) ([]ArtistView, error)

	Playlist(ctx context.Context, viewerID string, id int64) (PlaylistView, error)
}

type service struct {
	store  Store
	images blob.Resolver
	media  blob.Resolver
	logger *logging.Logger
}

// New wires a Service. images resolves cover and artist image keys, media
// resolves audio paths. Either may be nil, in which case those links are
// always null.
func New(st Store, images, media blob.Resolver, logger *logging.Logger) Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &service{store: st, images: images, media: media, logger: logger}
}

func (s *service) Track(ctx context.Context, viewerID string, id int64) (TrackView, error) {
	v, err := s.begin(ctx, viewerID)
	if err != nil {
		return TrackView{}, err
	}
	t, ok := v.r.Track(id)
	if !ok {
		return TrackView{}, ErrTrackNotFound
	}
	return v.track(t, nil, true), nil
}

func (s *service) TracksByIDs(ctx context.Context, viewerID string, ids []int64) ([]TrackView, error) {
	v, err := s.begin(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	out := make([]TrackView, 0, len(ids))
	for _, id := range ids {
		if t, ok := v.r.Track(id); ok {
			out = append(out, v.track(t, nil, true))
		}
	}
	return out, nil
}

func (s *service) LikedTracks(ctx context.Context, viewerID string) (PlaylistView, error) {
	v, err := s.begin(ctx, viewerID)
	if err != nil {
		return PlaylistView{}, err
	}
	if v.viewer == nil {
		return PlaylistView{}, ErrViewerRequired
	}

	out := PlaylistView{ID: 0, Name: LikedTracksName, ListMusique: []TrackView{}}
	for _, id := range v.viewer.Like.IDs(models.LikeTrack) {
		if t, ok := v.r.Track(id); ok {
			out.ListMusique = append(out.ListMusique, v.track(t, nil, false))
		}
	}
	return out, nil
}

func (s *service) Album(ctx context.Context, viewerID string, id int64) (AlbumView, error) {
	v, err := s.begin(ctx, viewerID)
	if err != nil {
		return AlbumView{}, err
	}
	album, ok := v.r.Album(id)
	if !ok {
		return AlbumView{}, ErrAlbumNotFound
	}

	out := AlbumView{
		ID:          album.ID,
		Name:        album.Name,
		Artist:      []ArtistRef{},
		Cover:       v.link(imageLink, "cover", album.Cover),
		Like:        v.liked(models.LikeAlbum, album.ID),
		ListMusique: make([]TrackView, 0, len(album.ListMusique)),
	}
	for _, artistID := range album.ArtistIDs {
		if artist, ok := v.r.Artist(artistID); ok {
			out.Artist = append(out.Artist, ArtistRef{ID: artist.ID, Name: artist.Name})
		}
	}
	out.ArtistName, out.ArtistID = v.mainArtist(album)

	for _, trackID := range album.ListMusique {
		if t, ok := v.r.Track(trackID); ok {
			out.ListMusique = append(out.ListMusique, v.track(t, &album, false))
		}
	}
	slices.SortStableFunc(out.ListMusique, func(a, b TrackView) int {
		return cmp.Compare(a.AlbumTrack, b.AlbumTrack)
	})
	return out, nil
}

func (s *service) AllAlbums(ctx context.Context, viewerID string) ([]AlbumSummary, error) {
	v, err := s.begin(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	albums := v.r.Albums()
	out := make([]AlbumSummary, 0, len(albums))
	for _, album := range albums {
		out = append(out, v.albumSummary(album, false))
	}
	return out, nil
}

func (s *service) LikedAlbums(ctx context.Context, viewerID string) ([]AlbumSummary, error) {
	v, err := s.begin(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if v.viewer == nil {
		return nil, ErrViewerRequired
	}
	return v.albumSummaries(v.viewer.Like.IDs(models.LikeAlbum), false), nil
}

func (s *service) AlbumsByIDs(ctx context.Context, viewerID string, ids []int64) ([]AlbumSummary, error) {
	v, err := s.begin(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return v.albumSummaries(ids, false), nil
}

func (s *service) Artist(ctx context.Context, viewerID string, id int64) (ArtistDetail, error) {
	v, err := s.begin(ctx, viewerID)
	if err != nil {
		return ArtistDetail{}, err
	}
	artist, ok := v.r.Artist(id)
	if !ok {
		return ArtistDetail{}, ErrArtistNotFound
	}
	return ArtistDetail{
		ID:         artist.ID,
		Name:       artist.Name,
		Image:      v.link(imageLink, "image", artist.Image),
		ListAlbums: v.albumSummaries(artist.ListAlbums, true),
	}, nil
}

func (s *service) AllArtists(ctx context.Context, viewerID string) ([]ArtistView, error) {
	v, err := s.begin(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	artists := v.r.Artists()
	out := make([]ArtistView, 0, len(artists))
	for _, artist := range artists {
		out = append(out, v.artist(artist))
	}
	return out, nil
}

func (s *service) LikedArtists(ctx context.Context, viewerID string) ([]ArtistView, error) {
	v, err := s.begin(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if v.viewer == nil {
		return nil, ErrViewerRequired
	}
	return v.artists(v.viewer.Like.IDs(models.LikeArtist)), nil
}

func (s *service) ArtistsByIDs(ctx context.Context, viewerID string, ids []int64) ([]ArtistView, error) {
	v, err := s.begin(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return v.artists(ids), nil
}

// Playlist renders a playlist in stored order. Like flags come from the
// viewer's state in the same snapshot the playlist was read from.
func (s *service) Playlist(ctx context.Context, viewerID string, id int64) (PlaylistView, error) {
	v, err := s.begin(ctx, viewerID)
	if err != nil {
		return PlaylistView{}, err
	}
	p, ok := v.r.Playlist(id)
	if !ok {
		return PlaylistView{}, store.ErrPlaylistNotFound
	}

	out := PlaylistView{ID: p.ID, Name: p.Name, ListMusique: make([]TrackView, 0, len(p.ListMusique))}
	for _, trackID := range p.ListMusique {
		if t, ok := v.r.Track(trackID); ok {
			out.ListMusique = append(out.ListMusique, v.track(t, nil, false))
		}
	}
	return out, nil
}

// view holds the state of a single call: one snapshot, the viewer as seen in
// that snapshot, and the links already resolved.
type view struct {
	ctx    context.Context
	s      *service
	r      *store.Reader
	viewer *models.User
	likes  map[models.LikeKind]map[int64]struct{}
	links  map[linkKey]*string
}

type linkRole int

const (
	imageLink linkRole = iota
	mediaLink
)

type linkKey struct {
	role linkRole
	key  string
}

func (s *service) begin(ctx context.Context, viewerID string) (*view, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v := &view{
		ctx:   ctx,
		s:     s,
		r:     s.store.Reader(),
		likes: map[models.LikeKind]map[int64]struct{}{},
		links: map[linkKey]*string{},
	}
	if viewerID == "" {
		return v, nil
	}
	if u, ok := v.r.User(viewerID); ok {
		v.viewer = &u
	}
	return v, nil
}

func (v *view) liked(kind models.LikeKind, id int64) bool {
	if v.viewer == nil {
		return false
	}
	set, ok := v.likes[kind]
	if !ok {
		set = v.viewer.Like.Lookup(kind)
		v.likes[kind] = set
	}
	_, ok = set[id]
	return ok
}

// link resolves key through the resolver for role. Failures degrade to a nil
// link and a warning so a single missing object never fails a whole view.
func (v *view) link(role linkRole, field, key string) *string {
	res := v.s.images
	if role == mediaLink {
		res = v.s.media
	}
	if res == nil || key == "" {
		return nil
	}
	cacheKey := linkKey{role: role, key: key}
	if cached, ok := v.links[cacheKey]; ok {
		return cached
	}

	var out *string
	url, err := res.Resolve(v.ctx, key)
	if err != nil {
		v.s.logger.WithContext(v.ctx).Warn().
			Err(err).
			Str("field", field).
			Str("storage_key", key).
			Msg("Media link unavailable")
	} else {
		out = &url
	}
	v.links[cacheKey] = out
	return out
}

// track renders t. When album is nil it is looked up from t.AlbumID.
func (v *view) track(t models.Track, album *models.Album, withPath bool) TrackView {
	out := TrackView{
		ID:         t.ID,
		Title:      t.Title,
		Duration:   t.Duration,
		ArtistID:   t.ArtistID,
		AlbumID:    t.AlbumID,
		AlbumTrack: t.AlbumTrack,
		Like:       v.liked(models.LikeTrack, t.ID),
	}

	if album == nil {
		if a, ok := v.r.Album(t.AlbumID); ok {
			album = &a
		}
	}
	if album != nil {
		out.AlbumName = ptr(album.Name)
		out.CoverSmall = v.link(imageLink, "coverSmall", album.ThumbnailKey())
	}
	if artist, ok := v.r.Artist(t.ArtistID); ok {
		out.ArtistName = ptr(artist.Name)
	}
	if withPath {
		out.Path = v.link(mediaLink, "path", t.Path)
	}
	return out
}

func (v *view) mainArtist(album models.Album) (*string, *int64) {
	id, ok := album.MainArtistID()
	if !ok {
		return nil, nil
	}
	artist, ok := v.r.Artist(id)
	if !ok {
		return nil, nil
	}
	return ptr(artist.Name), ptr(artist.ID)
}

func (v *view) albumSummary(album models.Album, withDate bool) AlbumSummary {
	out := AlbumSummary{
		ID:    album.ID,
		Name:  album.Name,
		Like:  v.liked(models.LikeAlbum, album.ID),
		Cover: v.link(imageLink, "cover", album.Cover),
	}
	out.ArtistName, out.ArtistID = v.mainArtist(album)
	if withDate {
		out.Date = album.Date
	}
	return out
}

func (v *view) albumSummaries(ids []int64, withDate bool) []AlbumSummary {
	out := make([]AlbumSummary, 0, len(ids))
	for _, id := range ids {
		if album, ok := v.r.Album(id); ok {
			out = append(out, v.albumSummary(album, withDate))
		}
	}
	return out
}

func (v *view) artist(a models.Artist) ArtistView {
	return ArtistView{
		ID:    a.ID,
		Name:  a.Name,
		Like:  v.liked(models.LikeArtist, a.ID),
		Image: v.link(imageLink, "image", a.Image),
	}
}

func (v *view) artists(ids []int64) []ArtistView {
	out := make([]ArtistView, 0, len(ids))
	for _, id := range ids {
		if a, ok := v.r.Artist(id); ok {
			out = append(out, v.artist(a))
		}
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
