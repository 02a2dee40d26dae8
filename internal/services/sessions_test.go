package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/soundtrack/internal/models"
	"github.com/desertthunder/soundtrack/internal/shared"
	"github.com/desertthunder/soundtrack/internal/store"
	"golang.org/x/oauth2"
)

// stubExchanger records refresh calls and answers with a fixed token or error.
type stubExchanger struct {
	token     *oauth2.Token
	err       error
	refreshes []string
}

func (s *stubExchanger) AuthURL(state string) string {
	return "https://auth.test/authorize?state=" + state
}

func (s *stubExchanger) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return s.token, s.err
}

func (s *stubExchanger) ExchangeRefresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	s.refreshes = append(s.refreshes, refreshToken)
	if s.err != nil {
		return nil, s.err
	}
	t := *s.token
	return &t, nil
}

func TestSessions(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	ctx := context.Background()

	t.Run("Save", func(t *testing.T) {
		t.Run("Defaults Expiry To One Hour", func(t *testing.T) {
			sessions := NewSessions(store.NewMemoryStore(), &stubExchanger{}).WithClock(clock)
			record := sessions.Save("s1", &oauth2.Token{AccessToken: "a", RefreshToken: "r"})

			if !record.ExpiresAt.Equal(now.Add(time.Hour)) {
				t.Errorf("expected expiry one hour out, got %v", record.ExpiresAt)
			}
		})

		t.Run("Keeps Provider Expiry", func(t *testing.T) {
			sessions := NewSessions(store.NewMemoryStore(), &stubExchanger{}).WithClock(clock)
			expiry := now.Add(10 * time.Minute)
			record := sessions.Save("s1", &oauth2.Token{AccessToken: "a", Expiry: expiry})

			if !record.ExpiresAt.Equal(expiry) {
				t.Errorf("expected %v, got %v", expiry, record.ExpiresAt)
			}
		})
	})

	t.Run("ValidToken", func(t *testing.T) {
		tests := []struct {
			name    string
			expires time.Duration
			valid   bool
		}{
			{"expires in an hour", time.Hour, true},
			{"expires in 6 seconds", 6 * time.Second, true},
			{"expires in 3 seconds", 3 * time.Second, false},
			{"already expired", -time.Minute, false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				st := store.NewMemoryStore()
				st.Put("s1", models.TokenRecord{AccessToken: "a", RefreshToken: "r", ExpiresAt: now.Add(tt.expires)})
				sessions := NewSessions(st, &stubExchanger{}).WithClock(clock)

				_, ok := sessions.ValidToken("s1")
				if ok != tt.valid {
					t.Errorf("ValidToken() = %v, want %v", ok, tt.valid)
				}
			})
		}

		t.Run("Unknown State", func(t *testing.T) {
			sessions := NewSessions(store.NewMemoryStore(), &stubExchanger{}).WithClock(clock)
			if _, ok := sessions.ValidToken("missing"); ok {
				t.Error("expected unknown state to be invalid")
			}
		})
	})

	t.Run("Token", func(t *testing.T) {
		t.Run("Returns Cached Token Without Refresh", func(t *testing.T) {
			st := store.NewMemoryStore()
			st.Put("s1", models.TokenRecord{AccessToken: "a", RefreshToken: "r", ExpiresAt: now.Add(time.Hour)})
			exchanger := &stubExchanger{}
			sessions := NewSessions(st, exchanger).WithClock(clock)

			record, err := sessions.Token(ctx, "s1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if record.AccessToken != "a" {
				t.Errorf("expected cached token, got %s", record.AccessToken)
			}
			if len(exchanger.refreshes) != 0 {
				t.Errorf("expected no refresh, got %d", len(exchanger.refreshes))
			}
		})

		t.Run("Refreshes Expiring Token", func(t *testing.T) {
			st := store.NewMemoryStore()
			st.Put("s1", models.TokenRecord{AccessToken: "old", RefreshToken: "r", ExpiresAt: now.Add(3 * time.Second)})
			exchanger := &stubExchanger{token: &oauth2.Token{AccessToken: "new", Expiry: now.Add(time.Hour)}}
			sessions := NewSessions(st, exchanger).WithClock(clock)

			record, err := sessions.Token(ctx, "s1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if record.AccessToken != "new" {
				t.Errorf("expected refreshed token, got %s", record.AccessToken)
			}
			if record.RefreshToken != "r" {
				t.Errorf("expected refresh token to be kept, got %q", record.RefreshToken)
			}
			if len(exchanger.refreshes) != 1 || exchanger.refreshes[0] != "r" {
				t.Errorf("expected one refresh with stored token, got %v", exchanger.refreshes)
			}

			stored, _ := st.Get("s1")
			if stored != record {
				t.Errorf("expected store to hold the refreshed record, got %+v", stored)
			}
		})

		t.Run("Unknown State", func(t *testing.T) {
			exchanger := &stubExchanger{}
			sessions := NewSessions(store.NewMemoryStore(), exchanger).WithClock(clock)

			_, err := sessions.Token(ctx, "missing")
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
			if len(exchanger.refreshes) != 0 {
				t.Error("expected no provider call for unknown state")
			}
		})

		t.Run("No Refresh Token", func(t *testing.T) {
			st := store.NewMemoryStore()
			st.Put("s1", models.TokenRecord{AccessToken: "a", ExpiresAt: now.Add(-time.Minute)})
			sessions := NewSessions(st, &stubExchanger{}).WithClock(clock)

			_, err := sessions.Token(ctx, "s1")
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})

		t.Run("Refresh Failure", func(t *testing.T) {
			st := store.NewMemoryStore()
			original := models.TokenRecord{AccessToken: "a", RefreshToken: "r", ExpiresAt: now.Add(-time.Minute)}
			st.Put("s1", original)
			exchanger := &stubExchanger{err: shared.ErrProviderAuth}
			sessions := NewSessions(st, exchanger).WithClock(clock)

			_, err := sessions.Token(ctx, "s1")
			if !errors.Is(err, shared.ErrProviderAuth) {
				t.Errorf("expected ErrProviderAuth, got %v", err)
			}

			stored, _ := st.Get("s1")
			if stored != original {
				t.Errorf("expected stored record to be untouched, got %+v", stored)
			}
		})
	})

	t.Run("Logout", func(t *testing.T) {
		st := store.NewMemoryStore()
		st.Put("s1", models.TokenRecord{AccessToken: "a", RefreshToken: "r", ExpiresAt: now.Add(time.Hour)})
		sessions := NewSessions(st, &stubExchanger{}).WithClock(clock)

		sessions.Logout("s1")
		sessions.Logout("never-existed")

		if _, err := sessions.Token(ctx, "s1"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated after logout, got %v", err)
		}
	})
}
