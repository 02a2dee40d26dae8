// Package repositories implements SQLite persistence for the relay's playlist history.
//
// Tokens are never persisted. The only table is playlist_history, an append-only log of playlists created
// through the create-playlist endpoint, read back by the history command.
//
// Key Implementations:
//   - [PlaylistHistoryRepository] : playlist history with newest-first listing and per-session filters
package repositories
