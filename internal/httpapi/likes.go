package httpapi

import (
	"net/http"

	"soundshelf/internal/app/likes"
	"soundshelf/shared/go/models"
)

type likeRequest struct {
	ID   *int64 `json:"id"`
	Like *bool  `json:"like"`
	Type string `json:"type"`
}

func (s *Server) handleUpdateLike(w http.ResponseWriter, r *http.Request) {
	var req likeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ID == nil || req.Like == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id and like are required"})
		return
	}

	kind, err := models.ParseLikeKind(req.Type)
	if err != nil {
		writeError(w, r, err)
		return
	}

	toggle := likes.Toggle{ID: *req.ID, Like: *req.Like, Kind: kind}
	if err := s.likes.Toggle(r.Context(), viewerID(r), toggle); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toggle)
}
