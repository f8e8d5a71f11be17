package httpapi

import (
	"net/http"
)

type searchRequest struct {
	Q string `json:"q"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	results, err := s.search.Search(r.Context(), req.Q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
