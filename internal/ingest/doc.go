// package ingest parses exported playlist files into an in-memory table.
//
// Two formats are supported, selected once from the file extension: the JSON
// full-library export (many playlists, each with typed items) and the
// single-playlist CSV export (one "Track URI" column, playlist name derived
// from the filename). Both arms produce the same [Table] shape.
package ingest
