package httpapi

import (
	"context"
	"net/http"

	"soundshelf/shared/go/logging"
)

// optional resolves the caller when a bearer token is supplied and lets
// anonymous requests through. A token that fails verification is rejected.
func (s *Server) optional(next http.HandlerFunc) http.HandlerFunc {
	return s.identify(false, next)
}

// required rejects requests without a valid bearer token.
func (s *Server) required(next http.HandlerFunc) http.HandlerFunc {
	return s.identify(true, next)
}

func (s *Server) identify(required bool, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := parseBearerToken(header)
		if token == "" {
			switch {
			case header != "":
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "malformed authorization header"})
				return
			case required:
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
				return
			}
			next(w, r)
			return
		}

		user, err := s.auth.Verify(r.Context(), token)
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), logging.UserIDKey, user.ID)
		next(w, r.WithContext(ctx))
	}
}

// viewerID returns the authenticated caller's id, or "" for anonymous requests.
func viewerID(r *http.Request) string {
	id, _ := r.Context().Value(logging.UserIDKey).(string)
	return id
}
