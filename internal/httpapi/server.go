package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"soundshelf/internal/app/catalog"
	"soundshelf/internal/app/likes"
	"soundshelf/internal/app/playlists"
	"soundshelf/internal/app/users"
	"soundshelf/internal/apperr"
	"soundshelf/internal/search"
	"soundshelf/shared/go/logging"
	"soundshelf/shared/go/models"
)

// UserService captures the account operations needed by the HTTP handlers.
type UserService interface {
	Login(ctx context.Context, username, password string) (users.Session, error)
	Profile(ctx context.Context, token string) (models.Profile, error)
}

// Verifier resolves a bearer token to a user.
type Verifier interface {
	Verify(ctx context.Context, token string) (models.User, error)
}

// CatalogService builds personalised catalog views.
type CatalogService = catalog.Service

// PlaylistService coordinates playlist-related operations.
type PlaylistService = playlists.Service

// LikeService toggles liked entities.
type LikeService = likes.Service

// SearchService matches catalog entities by name.
type SearchService interface {
	Search(ctx context.Context, query string) (search.Results, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users     UserService
	auth      Verifier
	catalog   CatalogService
	playlists PlaylistService
	likes     LikeService
	search    SearchService
}

// New configures a Server with the given services.
func New(
	users UserService,
	auth Verifier,
	catalog CatalogService,
	playlists PlaylistService,
	likes LikeService,
	search SearchService,
) *Server {
	return &Server{
		users:     users,
		auth:      auth,
		catalog:   catalog,
		playlists: playlists,
		likes:     likes,
		search:    search,
	}
}

// Routes exposes the HTTP handlers. Paths match the ones existing clients use.
func (s *Server) Routes() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	router.HandleFunc("/me", s.handleProfile).Methods(http.MethodGet)

	// Tracks
	router.HandleFunc("/trackByListID", s.optional(s.handleTracksByIDs)).Methods(http.MethodPost)
	router.HandleFunc("/trackLike", s.required(s.handleLikedTracks)).Methods(http.MethodGet)

	// Albums
	router.HandleFunc("/get_album", s.optional(s.handleAlbum)).Methods(http.MethodPost)
	router.HandleFunc("/allAlbum", s.optional(s.handleAllAlbums)).Methods(http.MethodGet)
	router.HandleFunc("/albumLike", s.required(s.handleLikedAlbums)).Methods(http.MethodGet)
	router.HandleFunc("/albumByArtistID", s.optional(s.handleArtistAlbums)).Methods(http.MethodPost)
	router.HandleFunc("/albumByListId", s.optional(s.handleAlbumsByIDs)).Methods(http.MethodPost)

	// Artists
	router.HandleFunc("/artistLike", s.required(s.handleLikedArtists)).Methods(http.MethodGet)
	router.HandleFunc("/allArtist", s.optional(s.handleAllArtists)).Methods(http.MethodPost)
	router.HandleFunc("/artistByListId", s.optional(s.handleArtistsByIDs)).Methods(http.MethodPost)

	// Playlists
	router.HandleFunc("/get_playlist", s.required(s.handlePlaylist)).Methods(http.MethodPost)
	router.HandleFunc("/listplaylists", s.required(s.handleListPlaylists)).Methods(http.MethodGet)
	router.HandleFunc("/playlist/create", s.required(s.handleCreatePlaylist)).Methods(http.MethodPost)
	router.HandleFunc("/playlist/update_tracks", s.required(s.handleUpdatePlaylistTracks)).Methods(http.MethodPost)
	router.HandleFunc("/playlist/delete", s.required(s.handleDeletePlaylist)).Methods(http.MethodPost)

	router.HandleFunc("/search", s.optional(s.handleSearch)).Methods(http.MethodPost)
	router.HandleFunc("/updateLike", s.required(s.handleUpdateLike)).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	return router
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthorized) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
			return
		}
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// handleProfile returns the public profile of the bearer token's owner.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	profile, err := s.users.Profile(r.Context(), token)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// decodeJSON reads the request body into dst, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return false
	}
	return true
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		logging.WithContext(r.Context()).Error().
			Err(err).
			Str("path", r.URL.Path).
			Msg("Request failed")
		message = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: message})
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
