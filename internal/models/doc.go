// Package models defines domain entities and persistence interfaces for the spx backend.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing Spotify API data
//   - [Playlist] : Playlist metadata from the paged /me/playlists listing
//   - [Track] : Song metadata with ISRC
//   - [SavedTrack] : A library track with its save timestamp
//
// 2. Persistent Entities: Database-backed cache rows
//   - [PersistedPlaylist] : Cached playlists keyed by Spotify playlist ID
//   - [PersistedTrack] : Cached saved tracks keyed by Spotify track ID
//
// Persistent entities implement the [Model] interface providing ID generation,
// timestamps, validation, and soft delete support. The [Repository] interface
// defines standard CRUD operations for database access.
package models
