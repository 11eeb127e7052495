package models

import (
	"fmt"
	"time"
)

var (
	_ Model = (*PersistedPlaylist)(nil)
	_ Model = (*PersistedTrack)(nil)
)

// PersistedPlaylist is a cached playlist row backed by SQLite.
//
// The Spotify playlist ID lives in serviceID; id is the local row identifier.
type PersistedPlaylist struct {
	id        string
	sequence  int
	serviceID string
	ownerID   string
	dto       Playlist
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewPersistedPlaylist creates a playlist entity from its DTO and service metadata.
func NewPersistedPlaylist(sequence int, serviceID, ownerID string, dto Playlist) *PersistedPlaylist {
	now := time.Now()
	return &PersistedPlaylist{
		sequence:  sequence,
		serviceID: serviceID,
		ownerID:   ownerID,
		dto:       dto,
		createdAt: now,
		updatedAt: now,
	}
}

func (p *PersistedPlaylist) ID() string            { return p.id }
func (p *PersistedPlaylist) Sequence() int         { return p.sequence }
func (p *PersistedPlaylist) ServiceID() string     { return p.serviceID }
func (p *PersistedPlaylist) OwnerID() string       { return p.ownerID }
func (p *PersistedPlaylist) Name() string          { return p.dto.Name }
func (p *PersistedPlaylist) Description() string   { return p.dto.Description }
func (p *PersistedPlaylist) TrackCount() int       { return p.dto.TrackCount }
func (p *PersistedPlaylist) Public() bool          { return p.dto.Public }
func (p *PersistedPlaylist) DTO() Playlist         { return p.dto }
func (p *PersistedPlaylist) CreatedAt() time.Time  { return p.createdAt }
func (p *PersistedPlaylist) UpdatedAt() time.Time  { return p.updatedAt }
func (p *PersistedPlaylist) DeletedAt() *time.Time { return p.deletedAt }

func (p *PersistedPlaylist) SetID(id string)           { p.id = id }
func (p *PersistedPlaylist) SetUpdatedAt(t time.Time)  { p.updatedAt = t }
func (p *PersistedPlaylist) SetDeletedAt(t *time.Time) { p.deletedAt = t }
func (p *PersistedPlaylist) SetCreatedAt(t time.Time)  { p.createdAt = t }
func (p *PersistedPlaylist) SetDTO(dto Playlist)       { p.dto = dto }

// Validate checks the fields required to persist a playlist.
func (p *PersistedPlaylist) Validate() error {
	if p.id == "" {
		return fmt.Errorf("playlist id is required")
	}
	if p.serviceID == "" {
		return fmt.Errorf("playlist service_id is required")
	}
	if p.dto.Name == "" {
		return fmt.Errorf("playlist name is required")
	}
	return nil
}

// PersistedTrack is a cached saved-track row backed by SQLite.
type PersistedTrack struct {
	id        string
	sequence  int
	serviceID string
	addedAt   string
	dto       Track
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewPersistedTrack creates a track entity from its DTO and library metadata.
func NewPersistedTrack(sequence int, serviceID, addedAt string, dto Track) *PersistedTrack {
	now := time.Now()
	return &PersistedTrack{
		sequence:  sequence,
		serviceID: serviceID,
		addedAt:   addedAt,
		dto:       dto,
		createdAt: now,
		updatedAt: now,
	}
}

func (t *PersistedTrack) ID() string            { return t.id }
func (t *PersistedTrack) Sequence() int         { return t.sequence }
func (t *PersistedTrack) ServiceID() string     { return t.serviceID }
func (t *PersistedTrack) AddedAt() string       { return t.addedAt }
func (t *PersistedTrack) Title() string         { return t.dto.Title }
func (t *PersistedTrack) Artist() string        { return t.dto.Artist }
func (t *PersistedTrack) Album() string         { return t.dto.Album }
func (t *PersistedTrack) Duration() int         { return t.dto.Duration }
func (t *PersistedTrack) ISRC() string          { return t.dto.ISRC }
func (t *PersistedTrack) DTO() Track            { return t.dto }
func (t *PersistedTrack) CreatedAt() time.Time  { return t.createdAt }
func (t *PersistedTrack) UpdatedAt() time.Time  { return t.updatedAt }
func (t *PersistedTrack) DeletedAt() *time.Time { return t.deletedAt }

func (t *PersistedTrack) SetID(id string)            { t.id = id }
func (t *PersistedTrack) SetUpdatedAt(ts time.Time)  { t.updatedAt = ts }
func (t *PersistedTrack) SetDeletedAt(ts *time.Time) { t.deletedAt = ts }
func (t *PersistedTrack) SetCreatedAt(ts time.Time)  { t.createdAt = ts }
func (t *PersistedTrack) SetDTO(dto Track)           { t.dto = dto }

// Validate checks the fields required to persist a track.
func (t *PersistedTrack) Validate() error {
	if t.id == "" {
		return fmt.Errorf("track id is required")
	}
	if t.serviceID == "" {
		return fmt.Errorf("track service_id is required")
	}
	if t.dto.Title == "" {
		return fmt.Errorf("track title is required")
	}
	return nil
}
