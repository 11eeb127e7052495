// Package repositories implements SQLite persistence for cached library data.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [PlaylistRepository] : Playlist caching with service-id lookups and upserts
//   - [TrackRepository] : Saved track caching with ISRC-based lookups
//
// Sequence numbers provide stable, human-readable ordering (e.g., playlist #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
//
// Caching is write-through from the fetch commands: each aggregation run upserts
// what it fetched, so the cache reflects the library as of the last run.
package repositories
