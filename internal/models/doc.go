// Package models defines the domain records shared by the relay's store, services and HTTP layer.
//
//   - [TokenRecord] : access/refresh token pair cached per session state
//   - [PlaylistRecord] : audit entry for a playlist created through the relay
//   - [Track] : reduced track shape returned to the frontend
package models
