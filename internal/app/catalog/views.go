package catalog

// TrackView is a track with its album and artist resolved for one viewer.
// Link fields are nil when the relation is missing or the link could not be
// produced.
type TrackView struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Duration   int     `json:"duration"`
	AlbumName  *string `json:"albumName"`
	ArtistName *string `json:"artistName"`
	ArtistID   int64   `json:"artistId"`
	AlbumID    int64   `json:"albumId"`
	AlbumTrack int     `json:"albumTrack"`
	Like       bool    `json:"like"`
	CoverSmall *string `json:"coverSmall"`
	Path       *string `json:"path,omitempty"`
}

// ArtistRef names an artist credited on an album.
type ArtistRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AlbumView is an album with its tracks ordered by position on the record.
type AlbumView struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Artist      []ArtistRef `json:"artist"`
	ArtistName  *string     `json:"artistName"`
	ArtistID    *int64      `json:"artistId"`
	Cover       *string     `json:"cover"`
	Like        bool        `json:"like"`
	ListMusique []TrackView `json:"listMusique"`
}

// AlbumSummary is the list-item form of an album.
type AlbumSummary struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Like       bool    `json:"like"`
	ArtistName *string `json:"artistName"`
	ArtistID   *int64  `json:"artistId"`
	Cover      *string `json:"cover"`
	Date       string  `json:"date,omitempty"`
}

// ArtistView is the list-item form of an artist.
type ArtistView struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Like  bool    `json:"like"`
	Image *string `json:"image"`
}

// ArtistDetail is an artist with its discography.
type ArtistDetail struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	Image      *string        `json:"image"`
	ListAlbums []AlbumSummary `json:"listAlbums"`
}

// PlaylistView is a playlist with its tracks in stored order.
type PlaylistView struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	ListMusique []TrackView `json:"listMusique"`
}

// LikedTracksName is the name of the synthetic playlist holding liked tracks.
const LikedTracksName = "trackLike"
