package httpapi

import (
	"net/http"

	"soundshelf/internal/app/playlists"
)

type playlistRequest struct {
	PlaylistID int64 `json:"playlist_id"`
}

type createPlaylistRequest struct {
	Name string `json:"name"`
}

type updatePlaylistTracksRequest struct {
	PlaylistID int64   `json:"playlist_id"`
	TrackIDs   []int64 `json:"track_ids"`
	Action     string  `json:"action"`
}

type deletedResponse struct {
	Deleted bool `json:"deleted"`
}

func (s *Server) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	playlist, err := s.catalog.Playlist(r.Context(), viewerID(r), req.PlaylistID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	list, err := s.playlists.List(r.Context(), viewerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req createPlaylistRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := s.playlists.Create(r.Context(), viewerID(r), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		PlaylistID int64 `json:"playlist_id"`
	}{PlaylistID: id})
}

func (s *Server) handleUpdatePlaylistTracks(w http.ResponseWriter, r *http.Request) {
	var req updatePlaylistTracksRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	action, err := playlists.ParseAction(req.Action)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.playlists.UpdateTracksAs(r.Context(), viewerID(r), req.PlaylistID, req.TrackIDs, action)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if result.Deleted {
		writeJSON(w, http.StatusOK, deletedResponse{Deleted: true})
		return
	}
	writeJSON(w, http.StatusOK, result.Playlist)
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.playlists.DeleteAs(r.Context(), viewerID(r), req.PlaylistID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deletedResponse{Deleted: true})
}
