package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundtrack/internal/models"
	"github.com/desertthunder/soundtrack/internal/recommend"
	"github.com/desertthunder/soundtrack/internal/services"
	"github.com/desertthunder/soundtrack/internal/shared"
)

// Options configures a [Server].
type Options struct {
	Sessions         *services.Sessions
	Auth             services.TokenExchanger
	Music            services.MusicService
	History          History // optional
	FrontendRedirect string
	Logger           *log.Logger
}

// Server is the relay's HTTP surface: the OAuth legs plus the JSON API used by the frontend.
type Server struct {
	sessions *services.Sessions
	auth     services.TokenExchanger
	music    services.MusicService
	history  History
	logger   *log.Logger
	router   *BasicRouter
	now      func() time.Time
}

// New creates a [Server] with every route registered behind recovery, logging and CORS middleware.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	s := &Server{
		sessions: opts.Sessions,
		auth:     opts.Auth,
		music:    opts.Music,
		history:  opts.History,
		logger:   logger,
		router:   NewBasicRouter(),
		now:      time.Now,
	}

	s.router.Use(Recover(logger), Logging(logger), CORS())

	s.router.Handle(http.MethodGet, "/login", http.HandlerFunc(s.handleLogin))
	s.router.Handler(NewCallbackHandler(opts.Sessions, opts.Auth, opts.FrontendRedirect, logger))
	s.router.Handle(http.MethodPost, "/api/spotify/token", http.HandlerFunc(s.handleToken))
	s.router.Handle(http.MethodPost, "/api/spotify/recommendations", http.HandlerFunc(s.handleRecommendations))
	s.router.Handle(http.MethodPost, "/api/spotify/create-playlist", http.HandlerFunc(s.handleCreatePlaylist))
	s.router.Handle(http.MethodPost, "/api/spotify/logout", http.HandlerFunc(s.handleLogout))

	return s
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleLogin redirects the browser to the provider's consent page.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" {
		state = shared.GenerateState()
	}
	http.Redirect(w, r, s.auth.AuthURL(state), http.StatusFound)
}

// handleToken returns a usable access token for the session, refreshing it when needed.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req stateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := check(req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing state")
		return
	}

	record, err := s.sessions.Token(r.Context(), req.State)
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "Not authenticated with Spotify")
		return
	case err != nil:
		s.logger.Error("token refresh failed", "state", req.State, "error", err)
		writeError(w, http.StatusUnauthorized, "Spotify refresh failed")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: record.AccessToken,
		ExpiresAt:   record.ExpiresAt.UnixMilli(),
	})
}

// handleRecommendations builds mood parameters and proxies the provider's recommendations.
//
// Only a cached token is used here; expired sessions must call the token endpoint first.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, ok := s.sessions.ValidToken(req.State)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Spotify not connected")
		return
	}
	if err := check(req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing mood parameter")
		return
	}

	params := recommend.Build(req.Mood, req.TimeOfDay)
	found, err := s.music.Recommendations(r.Context(), record.AccessToken, params.Values(req.Market))
	if err != nil {
		s.logger.Error("recommendations failed", "state", req.State, "mood", req.Mood, "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to fetch recommendations")
		return
	}

	tracks := make([]models.Track, 0, len(found))
	for _, t := range found {
		tracks = append(tracks, t.ToTrack())
	}
	writeJSON(w, http.StatusOK, recommendationsResponse{Tracks: tracks})
}

// handleCreatePlaylist creates a private playlist for the session's user and fills it.
func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req createPlaylistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, ok := s.sessions.ValidToken(req.State)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Spotify not connected")
		return
	}
	if err := check(req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing playlist data")
		return
	}

	ctx := r.Context()
	user, playlist, err := s.createPlaylist(ctx, record.AccessToken, req)
	if err != nil {
		s.logger.Error("create playlist failed", "state", req.State, "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to create playlist")
		return
	}

	s.recordHistory(ctx, user, req, playlist)
	writeJSON(w, http.StatusOK, createPlaylistResponse{PlaylistID: playlist.ID, PlaylistURL: playlist.URL()})
}

func (s *Server) createPlaylist(ctx context.Context, accessToken string, req createPlaylistRequest) (*services.SpotifyUser, *services.SpotifyPlaylist, error) {
	user, err := s.music.CurrentUser(ctx, accessToken)
	if err != nil {
		return nil, nil, err
	}

	playlist, err := s.music.CreatePlaylist(ctx, accessToken, user.ID, services.NewPlaylist{
		Name:        req.PlaylistName,
		Description: req.Description,
		Public:      false,
	})
	if err != nil {
		return nil, nil, err
	}

	if len(req.TrackURIs) > 0 {
		if err := s.music.AddTracks(ctx, accessToken, playlist.ID, req.TrackURIs); err != nil {
			return nil, nil, err
		}
	}
	return user, playlist, nil
}

// recordHistory appends the playlist to history when enabled. Failures are only logged.
//
// Rows carry the provider user ID, never the session state.
func (s *Server) recordHistory(ctx context.Context, user *services.SpotifyUser, req createPlaylistRequest, playlist *services.SpotifyPlaylist) {
	if s.history == nil {
		return
	}

	record := &models.PlaylistRecord{
		ID:          shared.GenerateID(),
		UserID:      user.ID,
		PlaylistID:  playlist.ID,
		Name:        req.PlaylistName,
		Description: req.Description,
		URL:         playlist.URL(),
		TrackCount:  len(req.TrackURIs),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.history.Create(ctx, record); err != nil {
		s.logger.Warn("failed to record playlist history", "playlist", playlist.ID, "error", err)
	}
}

// handleLogout forgets the session's tokens. It always succeeds.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req stateRequest
	if err := decodeJSON(r, &req); err == nil && req.State != "" {
		s.sessions.Logout(req.State)
	}
	writeJSON(w, http.StatusOK, logoutResponse{Success: true})
}
