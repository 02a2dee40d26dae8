// package services defines the provider interfaces the relay depends on
package services

import (
	"context"
	"net/url"

	"golang.org/x/oauth2"
)

// TokenExchanger performs the OAuth2 legs against the provider's accounts service.
type TokenExchanger interface {
	// AuthURL returns the authorize URL the browser is redirected to for state.
	AuthURL(state string) string

	// ExchangeCode trades an authorization code for a token pair.
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)

	// ExchangeRefresh trades a refresh token for a new access token.
	ExchangeRefresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// MusicService is the subset of the provider's Web API proxied for the frontend.
//
// Every call carries the session's access token explicitly since one relay serves many sessions.
type MusicService interface {
	// Recommendations fetches tracks matching the given query parameters.
	Recommendations(ctx context.Context, accessToken string, params url.Values) ([]SpotifyTrack, error)

	// CurrentUser returns the profile that owns accessToken.
	CurrentUser(ctx context.Context, accessToken string) (*SpotifyUser, error)

	// CreatePlaylist creates a playlist owned by userID.
	CreatePlaylist(ctx context.Context, accessToken, userID string, playlist NewPlaylist) (*SpotifyPlaylist, error)

	// AddTracks appends track URIs to a playlist.
	AddTracks(ctx context.Context, accessToken, playlistID string, uris []string) error

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// NewPlaylist is the request body for playlist creation.
type NewPlaylist struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}
