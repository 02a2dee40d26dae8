// Package services talks to the music provider on behalf of the relay.
//
// # Token Exchange
//
// [SpotifyAuth] implements [TokenExchanger] with [oauth2.Config]: it builds the authorize URL,
// exchanges authorization codes and refresh tokens at the token endpoint, and sends the client
// credentials as HTTP Basic auth. Failed exchanges are wrapped in [shared.ErrProviderAuth].
//
// # Session Tokens
//
// [Sessions] keeps one [models.TokenRecord] per session state in a [store.TokenStore].
// [Sessions.ValidToken] only answers from the cache; [Sessions.Token] also refreshes a record
// that is within [models.ExpiryMargin] of expiring. Nothing is retried.
//
// # Web API
//
// [SpotifyService] implements [MusicService] for the handful of Web API calls the frontend needs:
//   - GET /recommendations
//   - GET /me
//   - POST /users/{id}/playlists
//   - POST /playlists/{id}/tracks
//
// Each call is authorized with the session's bearer token. Non-2xx responses become
// [shared.ErrProviderRequest] errors that include the provider's body, meant for server logs only.
package services
