// package formatter renders aggregated library data to various formats (CSV, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/spx/internal/ingest"
	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
)

// PlaylistsToCSV converts a playlist collection to CSV with columns: ID, Name, Description, Tracks, Public
func PlaylistsToCSV(playlists []models.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Description", "Tracks", "Public"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, playlist := range playlists {
		record := []string{
			playlist.ID,
			playlist.Name,
			playlist.Description,
			strconv.Itoa(playlist.TrackCount),
			strconv.FormatBool(playlist.Public),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// TracksToCSV converts a saved track collection to CSV with columns: ID, Title, Artist, Album, Duration, ISRC, Added At
func TracksToCSV(tracks []models.SavedTrack) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration", "ISRC", "Added At"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, saved := range tracks {
		record := []string{
			saved.Track.ID,
			saved.Track.Title,
			saved.Track.Artist,
			saved.Track.Album,
			strconv.Itoa(saved.Track.Duration),
			saved.Track.ISRC,
			saved.AddedAt,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// PlaylistsToText converts a playlist collection to plain text format
func PlaylistsToText(playlists []models.Playlist) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlists: %d\n\n", len(playlists)))
	for i, playlist := range playlists {
		buf.WriteString(fmt.Sprintf("%d. %s (%d tracks, %s)\n",
			i+1, playlist.Name, playlist.TrackCount, shared.VisibilityString(playlist.Public)))
		if playlist.Description != "" {
			buf.WriteString(fmt.Sprintf("   %s\n", playlist.Description))
		}
	}

	return buf.Bytes()
}

// TracksToText converts a saved track collection to plain text format
func TracksToText(tracks []models.SavedTrack) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Saved tracks: %d\n\n", len(tracks)))
	for i, saved := range tracks {
		duration := shared.FormatDuration(saved.Track.Duration)
		albumPart := ""
		if saved.Track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", saved.Track.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n",
			i+1, saved.Track.Artist, saved.Track.Title, albumPart, duration))
	}

	return buf.Bytes()
}

// TableToText renders an ingested playlist table as plain text, one section per playlist.
func TableToText(table *ingest.Table) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Ingested playlists: %d (%d tracks)\n\n", table.Len(), table.TrackCount()))
	for _, row := range table.Rows {
		buf.WriteString(fmt.Sprintf("Playlist: %s\n", row.Name))
		if row.Description != "" {
			buf.WriteString(fmt.Sprintf("Description: %s\n", row.Description))
		}
		buf.WriteString(fmt.Sprintf("Tracks: %d\n", len(row.URIs)))
		for i, uri := range row.URIs {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, uri))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// ToJSON generates a pretty-printed JSON representation of any exportable value
func ToJSON(v any) ([]byte, error) {
	return shared.MarshalJSON(v, true)
}

// WritePlaylistsExport writes a playlist collection to disk in the given format (csv, json, txt).
//
// Defaults to playlists.{format} as the filename.
func WritePlaylistsExport(playlists []models.Playlist, format, filepath string) (string, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case "csv":
		data, err = PlaylistsToCSV(playlists)
	case "json":
		data, err = ToJSON(playlists)
	case "txt", "text", "":
		format = "txt"
		data = PlaylistsToText(playlists)
	default:
		return "", fmt.Errorf("%w: %s", shared.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if filepath == "" {
		filepath = "playlists." + format
	}
	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return filepath, nil
}

// WriteTracksExport writes a saved track collection to disk in the given format (csv, json, txt).
//
// Defaults to tracks.{format} as the filename.
func WriteTracksExport(tracks []models.SavedTrack, format, filepath string) (string, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case "csv":
		data, err = TracksToCSV(tracks)
	case "json":
		data, err = ToJSON(tracks)
	case "txt", "text", "":
		format = "txt"
		data = TracksToText(tracks)
	default:
		return "", fmt.Errorf("%w: %s", shared.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if filepath == "" {
		filepath = "tracks." + format
	}
	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return filepath, nil
}
