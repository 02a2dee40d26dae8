package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/soundtrack/internal/shared"
	"golang.org/x/oauth2"
)

// Scopes requested at login.
var Scopes = []string{
	"user-read-email",
	"user-read-private",
	"playlist-modify-private",
	"playlist-modify-public",
}

// SpotifyAuth implements [TokenExchanger] with [oauth2] against the Spotify accounts service.
//
// Client credentials are sent in the HTTP Basic header.
type SpotifyAuth struct {
	config     *oauth2.Config
	httpClient *http.Client
}

var _ TokenExchanger = (*SpotifyAuth)(nil)

// NewSpotifyAuth creates a [SpotifyAuth] from the configured credentials and endpoints.
//
// A nil client uses the [oauth2] package default.
func NewSpotifyAuth(conf shared.SpotifyConfig, client *http.Client) (*SpotifyAuth, error) {
	if conf.ClientID == "" {
		return nil, fmt.Errorf("%w: client_id", shared.ErrMissingCredentials)
	}
	if conf.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client_secret", shared.ErrMissingCredentials)
	}

	authURL, tokenURL := conf.AuthURL, conf.TokenURL
	if authURL == "" {
		authURL = spotifyAuthURL
	}
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}

	return &SpotifyAuth{
		config: &oauth2.Config{
			ClientID:     conf.ClientID,
			ClientSecret: conf.ClientSecret,
			RedirectURL:  conf.RedirectURI,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		httpClient: client,
	}, nil
}

// AuthURL returns the authorize URL for state, always showing the consent dialog.
func (a *SpotifyAuth) AuthURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true"))
}

// ExchangeCode exchanges an authorization code (grant_type=authorization_code).
func (a *SpotifyAuth) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := a.config.Exchange(a.withClient(ctx), code)
	if err != nil {
		return nil, providerAuthError("authorization code", err)
	}
	return token, nil
}

// ExchangeRefresh exchanges a refresh token (grant_type=refresh_token).
//
// When the response carries no new refresh token the one sent is kept.
func (a *SpotifyAuth) ExchangeRefresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, shared.ErrNoRefreshToken
	}

	// An empty access token forces the source to hit the token endpoint.
	src := a.config.TokenSource(a.withClient(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, providerAuthError("refresh token", err)
	}
	if token.RefreshToken == "" {
		token.RefreshToken = refreshToken
	}
	return token, nil
}

func (a *SpotifyAuth) withClient(ctx context.Context) context.Context {
	if a.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
}

// providerAuthError wraps err in [shared.ErrProviderAuth], keeping the provider's response body for logs.
func providerAuthError(grant string, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		return fmt.Errorf("%w: %s exchange: status %d: %s", shared.ErrProviderAuth, grant, re.Response.StatusCode, re.Body)
	}
	return fmt.Errorf("%w: %s exchange: %v", shared.ErrProviderAuth, grant, err)
}
