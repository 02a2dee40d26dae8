package models

import (
	"fmt"
	"time"
)

// DefaultTokenLifetime applies when the provider omits expires_in.
const DefaultTokenLifetime = time.Hour

// ExpiryMargin is how far ahead of ExpiresAt a token stops being usable.
const ExpiryMargin = 5 * time.Second

// TokenRecord is the token pair cached for one session state.
type TokenRecord struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// UsableAt reports whether the access token is still good at now, leaving [ExpiryMargin] of headroom.
func (t TokenRecord) UsableAt(now time.Time) bool {
	return t.AccessToken != "" && now.Before(t.ExpiresAt.Add(-ExpiryMargin))
}

// Refreshable reports whether a refresh token is available.
func (t TokenRecord) Refreshable() bool {
	return t.RefreshToken != ""
}

// PlaylistRecord is one playlist created through the relay.
type PlaylistRecord struct {
	ID          string
	UserID      string
	PlaylistID  string
	Name        string
	Description string
	URL         string
	TrackCount  int
	CreatedAt   time.Time
}

// Validate checks the fields required for persistence.
func (p *PlaylistRecord) Validate() error {
	if p.PlaylistID == "" {
		return fmt.Errorf("playlist id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("playlist name is required")
	}
	if p.TrackCount < 0 {
		return fmt.Errorf("track count cannot be negative")
	}
	return nil
}

// Track is the reduced track shape returned by the recommendations endpoint.
type Track struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Album      string `json:"album,omitempty"`
	DurationMS int    `json:"duration_ms"`
	Image      string `json:"image,omitempty"`
	URI        string `json:"uri"`
}
