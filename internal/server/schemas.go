package server

import "github.com/desertthunder/soundtrack/internal/models"

type stateRequest struct {
	State string `json:"state" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"` // unix milliseconds
}

type recommendationsRequest struct {
	State     string `json:"state"`
	Mood      string `json:"mood" validate:"required"`
	TimeOfDay string `json:"timeOfDay"`
	Market    string `json:"market"`
}

type recommendationsResponse struct {
	Tracks []models.Track `json:"tracks"`
}

// createPlaylistRequest requires trackUris to be present; an empty list is allowed.
type createPlaylistRequest struct {
	State        string   `json:"state"`
	PlaylistName string   `json:"playlistName" validate:"required"`
	Description  string   `json:"description"`
	TrackURIs    []string `json:"trackUris" validate:"required"`
}

type createPlaylistResponse struct {
	PlaylistID  string `json:"playlistId"`
	PlaylistURL string `json:"playlistUrl"`
}

type logoutResponse struct {
	Success bool `json:"success"`
}
