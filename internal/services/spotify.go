// Spotify Web API implementation of [MusicService]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/soundtrack/internal/models"
	"github.com/desertthunder/soundtrack/internal/shared"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// maxTracksPerRequest is the Web API limit for adding items to a playlist.
const maxTracksPerRequest = 100

// maxErrorBody bounds how much of a provider error body is kept for logging.
const maxErrorBody = 64 << 10

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Country     string         `json:"country"`
	Product     string         `json:"product"` // premium, free, etc.
	Images      []SpotifyImage `json:"images"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Explicit   bool            `json:"explicit"`
	URI        string          `json:"uri"`
}

// SpotifyArtist represents a simplified Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a simplified Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyPlaylist represents a playlist as returned on creation.
type SpotifyPlaylist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Public       bool         `json:"public"`
	ExternalURLs externalURLs `json:"external_urls"`
	URI          string       `json:"uri"`
}

// URL returns the playlist's web player link.
func (p *SpotifyPlaylist) URL() string {
	return p.ExternalURLs.Spotify
}

// ToTrack reduces a Spotify track to the shape returned to the frontend.
func (t SpotifyTrack) ToTrack() models.Track {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}

	track := models.Track{
		ID:         t.ID,
		Name:       t.Name,
		Artist:     strings.Join(names, ", "),
		Album:      t.Album.Name,
		DurationMS: t.DurationMS,
		URI:        t.URI,
	}
	if len(t.Album.Images) > 0 {
		track.Image = t.Album.Images[0].URL
	}
	return track
}

// SpotifyService implements [MusicService] for the Spotify Web API.
type SpotifyService struct {
	baseURL    string
	httpClient *http.Client
}

var _ MusicService = (*SpotifyService)(nil)

// NewSpotifyService creates a new Spotify API client. Empty baseURL and nil client fall back to defaults.
func NewSpotifyService(baseURL string, client *http.Client) *SpotifyService {
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &SpotifyService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// doRequest performs a request to the Spotify API authorized with accessToken.
//
// body is JSON-encoded when non-nil; result is decoded from the response when non-nil.
// Non-2xx responses are returned as [shared.ErrProviderRequest] carrying the response body.
func (s *SpotifyService) doRequest(ctx context.Context, accessToken, method, endpoint string, query url.Values, body, result any) error {
	apiURL := s.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", shared.ErrProviderRequest, method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s %s: status %d: %s", shared.ErrProviderRequest, method, endpoint, resp.StatusCode, bytes.TrimSpace(detail))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrProviderRequest, err)
		}
	}

	return nil
}

// Recommendations calls GET /recommendations.
func (s *SpotifyService) Recommendations(ctx context.Context, accessToken string, params url.Values) ([]SpotifyTrack, error) {
	var response struct {
		Tracks []SpotifyTrack `json:"tracks"`
	}

	if err := s.doRequest(ctx, accessToken, http.MethodGet, "/recommendations", params, nil, &response); err != nil {
		return nil, err
	}

	return response.Tracks, nil
}

// CurrentUser calls GET /me.
func (s *SpotifyService) CurrentUser(ctx context.Context, accessToken string) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, accessToken, http.MethodGet, "/me", nil, nil, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, fmt.Errorf("%w: profile response has no id", shared.ErrProviderRequest)
	}
	return &user, nil
}

// CreatePlaylist calls POST /users/{id}/playlists.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, accessToken, userID string, playlist NewPlaylist) (*SpotifyPlaylist, error) {
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))

	var created SpotifyPlaylist
	if err := s.doRequest(ctx, accessToken, http.MethodPost, endpoint, nil, playlist, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// AddTracks calls POST /playlists/{id}/tracks, batching uris by the API's per-request limit.
func (s *SpotifyService) AddTracks(ctx context.Context, accessToken, playlistID string, uris []string) error {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	for start := 0; start < len(uris); start += maxTracksPerRequest {
		end := min(start+maxTracksPerRequest, len(uris))
		body := map[string][]string{"uris": uris[start:end]}
		if err := s.doRequest(ctx, accessToken, http.MethodPost, endpoint, nil, body, nil); err != nil {
			return err
		}
	}

	return nil
}
