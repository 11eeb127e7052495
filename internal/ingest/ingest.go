package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/spx/internal/shared"
)

// Format identifies a supported playlist export format.
//
// Resolved once from the file extension; each format has its own parse arm.
type Format int

const (
	Unsupported Format = iota
	JSON
	CSV
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case CSV:
		return "csv"
	default:
		return "unsupported"
	}
}

// DetectFormat resolves a [Format] from the path's extension, case-insensitively.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON
	case ".csv":
		return CSV
	default:
		return Unsupported
	}
}

// Row holds one ingested playlist: its name, an optional description, and
// the track URIs in file order.
type Row struct {
	Name        string
	Description string
	URIs        []string
}

// Table is the in-memory result of ingesting an export file. One row per playlist.
type Table struct {
	Rows []Row
}

// Len returns the number of playlists in the table.
func (t *Table) Len() int {
	return len(t.Rows)
}

// TrackCount returns the total number of track URIs across all rows.
func (t *Table) TrackCount() int {
	count := 0
	for _, row := range t.Rows {
		count += len(row.URIs)
	}
	return count
}

// ProcessFile ingests the export file at path into a [Table].
//
// The format is resolved once from the extension. Unsupported extensions fail
// with [shared.ErrUnsupportedFormat] without reading the file.
func ProcessFile(path string) (*Table, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: file path is empty", shared.ErrInvalidInput)
	}

	format := DetectFormat(path)
	if format == Unsupported {
		return nil, fmt.Errorf("%w: %s is neither a csv nor a json file", shared.ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}
	defer f.Close()

	switch format {
	case JSON:
		return ParseJSON(f)
	default:
		return ParseCSV(playlistNameFromPath(path), f)
	}
}

// jsonExport mirrors the playlist export schema. An item carries exactly one
// of a streaming track, a local file track, or a podcast episode; absent
// members are null.
type jsonExport struct {
	Playlists []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Items       []struct {
			Track *struct {
				TrackURI string `json:"trackUri"`
			} `json:"track"`
			LocalTrack *struct {
				URI string `json:"uri"`
			} `json:"localTrack"`
			Episode *struct {
				EpisodeURI string `json:"episodeUri"`
			} `json:"episode"`
		} `json:"items"`
	} `json:"playlists"`
}

// ParseJSON ingests a JSON playlist export, one table row per playlist.
func ParseJSON(r io.Reader) (*Table, error) {
	var export jsonExport
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("%w: decoding json export: %w", shared.ErrInvalidInput, err)
	}

	table := &Table{}
	for _, playlist := range export.Playlists {
		row := Row{Name: playlist.Name, Description: playlist.Description}
		for _, item := range playlist.Items {
			switch {
			case item.Track != nil:
				row.URIs = append(row.URIs, item.Track.TrackURI)
			case item.LocalTrack != nil:
				row.URIs = append(row.URIs, item.LocalTrack.URI)
			case item.Episode != nil:
				row.URIs = append(row.URIs, item.Episode.EpisodeURI)
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// ParseCSV ingests a CSV playlist export. The file holds a single playlist,
// so the caller provides the name and the whole file becomes one row built
// from the "Track URI" column.
func ParseCSV(name string, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: reading csv export: %w", shared.ErrInvalidInput, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: csv export has no header row", shared.ErrInvalidInput)
	}

	uriColumn := -1
	for i, header := range records[0] {
		if strings.EqualFold(strings.TrimSpace(header), "Track URI") {
			uriColumn = i
			break
		}
	}
	if uriColumn == -1 {
		return nil, fmt.Errorf("%w: csv export has no Track URI column", shared.ErrInvalidInput)
	}

	row := Row{Name: name}
	for _, record := range records[1:] {
		if uriColumn >= len(record) {
			continue
		}
		if uri := strings.TrimSpace(record[uriColumn]); uri != "" {
			row.URIs = append(row.URIs, uri)
		}
	}
	return &Table{Rows: []Row{row}}, nil
}

// playlistNameFromPath derives a playlist name from a CSV filename:
// the base name without extension, underscores replaced with spaces.
func playlistNameFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(base, "_", " ")
}
