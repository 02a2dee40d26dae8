package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/desertthunder/soundtrack/internal/shared"
	tu "github.com/desertthunder/soundtrack/internal/testing"
)

// apiServer serves a single Web API route and fails the test on any other path.
func apiServer(t *testing.T, method, path string, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method || r.URL.Path != path {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("expected bearer authorization, got %q", got)
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSpotifyService(t *testing.T) {
	ctx := context.Background()

	t.Run("NewSpotifyService", func(t *testing.T) {
		srv := NewSpotifyService("", nil)
		if srv.baseURL != spotifyBaseURL {
			t.Errorf("expected default base URL, got %s", srv.baseURL)
		}
		if srv.Name() != "Spotify" {
			t.Errorf("expected service name 'Spotify', got %s", srv.Name())
		}

		trimmed := NewSpotifyService("http://example.com/v1/", nil)
		if trimmed.baseURL != "http://example.com/v1" {
			t.Errorf("expected trailing slash to be trimmed, got %s", trimmed.baseURL)
		}
	})

	t.Run("Recommendations", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			var query url.Values
			server := apiServer(t, http.MethodGet, "/recommendations", func(w http.ResponseWriter, r *http.Request) {
				query = r.URL.Query()
				w.Write([]byte(`{"tracks":[{"id":"t1","name":"Song","uri":"spotify:track:t1","duration_ms":1000,
					"artists":[{"name":"A"},{"name":"B"}],"album":{"name":"Record","images":[{"url":"img-1"},{"url":"img-2"}]}}]}`))
			})

			srv := NewSpotifyService(server.URL, server.Client())
			params := url.Values{"seed_genres": {"pop"}, "limit": {"20"}}

			tracks, err := srv.Recommendations(ctx, "test-token", params)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(tracks) != 1 {
				t.Fatalf("expected 1 track, got %d", len(tracks))
			}
			if query.Get("seed_genres") != "pop" || query.Get("limit") != "20" {
				t.Errorf("expected params to be forwarded, got %v", query)
			}

			track := tracks[0].ToTrack()
			if track.Artist != "A, B" {
				t.Errorf("expected joined artists, got %q", track.Artist)
			}
			if track.Image != "img-1" {
				t.Errorf("expected first album image, got %q", track.Image)
			}
			if track.Album != "Record" || track.DurationMS != 1000 || track.URI != "spotify:track:t1" {
				t.Errorf("unexpected track %+v", track)
			}
		})

		t.Run("Provider Error", func(t *testing.T) {
			server := apiServer(t, http.MethodGet, "/recommendations", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error":{"status":404,"message":"Not found."}}`))
			})

			srv := NewSpotifyService(server.URL, server.Client())
			_, err := srv.Recommendations(ctx, "test-token", nil)

			if !errors.Is(err, shared.ErrProviderRequest) {
				t.Fatalf("expected ErrProviderRequest, got %v", err)
			}
			if !strings.Contains(err.Error(), "Not found.") {
				t.Errorf("expected provider body in error, got %v", err)
			}
		})

		t.Run("Transport Error", func(t *testing.T) {
			rt := tu.NewMockRoundTripper(nil, errors.New("connection refused"))
			srv := NewSpotifyService("http://spotify.invalid/v1", &http.Client{Transport: rt})

			_, err := srv.Recommendations(ctx, "test-token", nil)
			if !errors.Is(err, shared.ErrProviderRequest) {
				t.Errorf("expected ErrProviderRequest, got %v", err)
			}
		})

		t.Run("Malformed Response", func(t *testing.T) {
			rt := tu.NewMockRoundTripper(tu.JSONResponse(http.StatusOK, `{"tracks":`), nil)
			srv := NewSpotifyService("http://spotify.invalid/v1", &http.Client{Transport: rt})

			_, err := srv.Recommendations(ctx, "test-token", nil)
			if !errors.Is(err, shared.ErrProviderRequest) {
				t.Errorf("expected ErrProviderRequest, got %v", err)
			}
		})
	})

	t.Run("CurrentUser", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			server := apiServer(t, http.MethodGet, "/me", func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"id":"user-1","display_name":"Listener"}`))
			})

			user, err := NewSpotifyService(server.URL, server.Client()).CurrentUser(ctx, "test-token")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if user.ID != "user-1" || user.DisplayName != "Listener" {
				t.Errorf("unexpected user %+v", user)
			}
		})

		t.Run("Missing ID", func(t *testing.T) {
			server := apiServer(t, http.MethodGet, "/me", func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			})

			_, err := NewSpotifyService(server.URL, server.Client()).CurrentUser(ctx, "test-token")
			if !errors.Is(err, shared.ErrProviderRequest) {
				t.Errorf("expected ErrProviderRequest, got %v", err)
			}
		})
	})

	t.Run("CreatePlaylist", func(t *testing.T) {
		var body NewPlaylist
		server := apiServer(t, http.MethodPost, "/users/user-1/playlists", func(w http.ResponseWriter, r *http.Request) {
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected JSON content type, got %q", ct)
			}
			json.NewDecoder(r.Body).Decode(&body)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"pl-1","name":"Mix","external_urls":{"spotify":"https://open.spotify.com/playlist/pl-1"}}`))
		})

		srv := NewSpotifyService(server.URL, server.Client())
		playlist, err := srv.CreatePlaylist(ctx, "test-token", "user-1", NewPlaylist{Name: "Mix", Description: "desc"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if playlist.ID != "pl-1" || playlist.URL() != "https://open.spotify.com/playlist/pl-1" {
			t.Errorf("unexpected playlist %+v", playlist)
		}
		if body.Name != "Mix" || body.Description != "desc" || body.Public {
			t.Errorf("unexpected request body %+v", body)
		}
	})

	t.Run("AddTracks", func(t *testing.T) {
		t.Run("Batches By Limit", func(t *testing.T) {
			var batches []int
			server := apiServer(t, http.MethodPost, "/playlists/pl-1/tracks", func(w http.ResponseWriter, r *http.Request) {
				var body struct {
					URIs []string `json:"uris"`
				}
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Errorf("failed to decode body: %v", err)
				}
				batches = append(batches, len(body.URIs))
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"snapshot_id":"s"}`))
			})

			uris := make([]string, 250)
			for i := range uris {
				uris[i] = "spotify:track:x"
			}

			err := NewSpotifyService(server.URL, server.Client()).AddTracks(ctx, "test-token", "pl-1", uris)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(batches) != 3 || batches[0] != 100 || batches[1] != 100 || batches[2] != 50 {
				t.Errorf("expected batches [100 100 50], got %v", batches)
			}
		})

		t.Run("No URIs", func(t *testing.T) {
			rt := tu.NewMockRoundTripper(nil, errors.New("should not be called"))
			srv := NewSpotifyService("http://spotify.invalid/v1", &http.Client{Transport: rt})

			if err := srv.AddTracks(ctx, "test-token", "pl-1", nil); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
			if rt.Calls != 0 {
				t.Errorf("expected no requests, got %d", rt.Calls)
			}
		})

		t.Run("Provider Error", func(t *testing.T) {
			server := apiServer(t, http.MethodPost, "/playlists/pl-1/tracks", func(w http.ResponseWriter, r *http.Request) {
				io.Copy(io.Discard, r.Body)
				w.WriteHeader(http.StatusForbidden)
			})

			err := NewSpotifyService(server.URL, server.Client()).AddTracks(ctx, "test-token", "pl-1", []string{"spotify:track:x"})
			if !errors.Is(err, shared.ErrProviderRequest) {
				t.Errorf("expected ErrProviderRequest, got %v", err)
			}
		})
	})
}
