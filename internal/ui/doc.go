// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a library browser over the aggregated Spotify collections:
//  1. [LoadingView] : Shows aggregation progress while pages are fetched
//  2. [PlaylistListView] : Browse the user's playlists
//  3. [TrackListView] : Browse the user's saved tracks
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the LibraryEngine, providing non-blocking status reporting while pages are fetched.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, t, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
