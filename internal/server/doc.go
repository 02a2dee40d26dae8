// Package server provides HTTP routing, middleware and the relay's handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering. The method check
// runs inside the middleware chain so [CORS] can answer OPTIONS preflight requests for any registered path.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// [CallbackHandler] is registered this way.
//
// # Routes
//
//	GET  /login                          302 to the provider's authorize page
//	GET  /callback                       302 back to the frontend with state or error
//	POST /api/spotify/token              {state} -> {access_token, expires_at}
//	POST /api/spotify/recommendations    {state, mood, timeOfDay, market} -> {tracks}
//	POST /api/spotify/create-playlist    {state, playlistName, description, trackUris} -> {playlistId, playlistUrl}
//	POST /api/spotify/logout             {state} -> {success}
//
// Errors are JSON objects of the form {"error": "message"}. Provider error details are logged and never returned.
package server
