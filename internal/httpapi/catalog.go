package httpapi

import (
	"net/http"

	"soundshelf/internal/app/catalog"
)

type albumRequest struct {
	AlbumID int64 `json:"album_id"`
}

type artistRequest struct {
	ArtistID int64 `json:"artist_id"`
}

type albumListRequest struct {
	AlbumIDs []int64 `json:"album_ids"`
}

func (s *Server) handleTracksByIDs(w http.ResponseWriter, r *http.Request) {
	var ids []int64
	if !decodeJSON(w, r, &ids) {
		return
	}

	tracks, err := s.catalog.TracksByIDs(r.Context(), viewerID(r), ids)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

func (s *Server) handleLikedTracks(w http.ResponseWriter, r *http.Request) {
	playlist, err := s.catalog.LikedTracks(r.Context(), viewerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

func (s *Server) handleAlbum(w http.ResponseWriter, r *http.Request) {
	var req albumRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	album, err := s.catalog.Album(r.Context(), viewerID(r), req.AlbumID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func (s *Server) handleAllAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := s.catalog.AllAlbums(r.Context(), viewerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

func (s *Server) handleLikedAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := s.catalog.LikedAlbums(r.Context(), viewerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

func (s *Server) handleArtistAlbums(w http.ResponseWriter, r *http.Request) {
	var req artistRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	artist, err := s.catalog.Artist(r.Context(), viewerID(r), req.ArtistID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

func (s *Server) handleAlbumsByIDs(w http.ResponseWriter, r *http.Request) {
	var req albumListRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	albums, err := s.catalog.AlbumsByIDs(r.Context(), viewerID(r), req.AlbumIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Albums []catalog.AlbumSummary `json:"albums"`
	}{Albums: albums})
}

func (s *Server) handleLikedArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := s.catalog.LikedArtists(r.Context(), viewerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artists)
}

func (s *Server) handleAllArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := s.catalog.AllArtists(r.Context(), viewerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artists)
}

func (s *Server) handleArtistsByIDs(w http.ResponseWriter, r *http.Request) {
	var ids []int64
	if !decodeJSON(w, r, &ids) {
		return
	}

	artists, err := s.catalog.ArtistsByIDs(r.Context(), viewerID(r), ids)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artists)
}
