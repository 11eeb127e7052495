package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = trackItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d tracks, %s", i.playlist.TrackCount, shared.VisibilityString(i.playlist.Public))
	if i.playlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.Description)
	}
	return desc
}

// trackItem wraps [models.SavedTrack] to implement [list.Item].
type trackItem struct {
	saved models.SavedTrack
}

func (i trackItem) FilterValue() string { return i.saved.Track.Title }
func (i trackItem) Title() string       { return i.saved.Track.Title }
func (i trackItem) Description() string {
	desc := i.saved.Track.Artist
	if i.saved.Track.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.saved.Track.Album)
	}
	return fmt.Sprintf("%s [%s]", desc, shared.FormatDuration(i.saved.Track.Duration))
}
