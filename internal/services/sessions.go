package services

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/soundtrack/internal/models"
	"github.com/desertthunder/soundtrack/internal/shared"
	"github.com/desertthunder/soundtrack/internal/store"
	"golang.org/x/oauth2"
)

// Sessions owns the token lifecycle for every session state: caching exchanged tokens,
// answering validity checks and refreshing through a [TokenExchanger].
type Sessions struct {
	store store.TokenStore
	auth  TokenExchanger
	now   func() time.Time
}

// NewSessions creates a [Sessions] over the given store and exchanger.
func NewSessions(st store.TokenStore, auth TokenExchanger) *Sessions {
	return &Sessions{store: st, auth: auth, now: time.Now}
}

// WithClock replaces the time source and returns s.
func (s *Sessions) WithClock(now func() time.Time) *Sessions {
	s.now = now
	return s
}

// Save stores token under state, replacing any previous record.
//
// Tokens without an expiry are given [models.DefaultTokenLifetime].
func (s *Sessions) Save(state string, token *oauth2.Token) models.TokenRecord {
	expires := token.Expiry
	if expires.IsZero() {
		expires = s.now().Add(models.DefaultTokenLifetime)
	}

	record := models.TokenRecord{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    expires,
	}
	s.store.Put(state, record)
	return record
}

// ValidToken returns the cached record for state when it is usable without a refresh.
func (s *Sessions) ValidToken(state string) (models.TokenRecord, bool) {
	record, ok := s.store.Get(state)
	if !ok || !record.UsableAt(s.now()) {
		return models.TokenRecord{}, false
	}
	return record, true
}

// Token returns a usable record for state, refreshing it first when it is about to expire.
//
// Returns [shared.ErrNotAuthenticated] when the session has nothing to refresh with and
// [shared.ErrProviderAuth] when the refresh exchange fails.
func (s *Sessions) Token(ctx context.Context, state string) (models.TokenRecord, error) {
	if record, ok := s.ValidToken(state); ok {
		return record, nil
	}

	stored, ok := s.store.Get(state)
	if !ok || !stored.Refreshable() {
		return models.TokenRecord{}, fmt.Errorf("%w: no refreshable token for session", shared.ErrNotAuthenticated)
	}

	token, err := s.auth.ExchangeRefresh(ctx, stored.RefreshToken)
	if err != nil {
		return models.TokenRecord{}, err
	}
	if token.RefreshToken == "" {
		token.RefreshToken = stored.RefreshToken
	}

	return s.Save(state, token), nil
}

// Logout forgets the session's tokens.
func (s *Sessions) Logout(state string) {
	s.store.Delete(state)
}
