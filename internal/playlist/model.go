// File: internal/playlist/model.go
package playlist

import (
	"time"

	"music_library_backend/internal/common"
	"music_library_backend/internal/song"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Playlist is a user-owned, ordered collection of songs.
type Playlist struct {
	common.BaseModel
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Songs       []PlaylistSong `gorm:"foreignKey:PlaylistID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM.
func (Playlist) TableName() string {
	return "playlists"
}

// PlaylistSong is the ordered membership of a song in a playlist. Position
// is 1-based and dense within a playlist; a song appears at most once.
type PlaylistSong struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	PlaylistID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_playlist_song" json:"playlist_id"`
	SongID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_playlist_song" json:"song_id"`
	Song       *song.Song `gorm:"foreignKey:SongID;constraint:OnDelete:CASCADE" json:"-"`
	Position   int        `gorm:"not null" json:"position"`
	CreatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (PlaylistSong) TableName() string {
	return "playlist_songs"
}

// BeforeCreate generates the ID app-side when the database default does not
// apply.
func (ps *PlaylistSong) BeforeCreate(tx *gorm.DB) error {
	if ps.ID == uuid.Nil {
		ps.ID = uuid.New()
	}
	return nil
}

// CreatePlaylistRequest defines the payload for creating a playlist.
type CreatePlaylistRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// UpdatePlaylistRequest defines the payload for updating a playlist.
type UpdatePlaylistRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// PlaylistSongResponse is a song entry within a playlist response.
type PlaylistSongResponse struct {
	Position int               `json:"position"`
	AddedAt  time.Time         `json:"added_at"`
	Song     song.SongResponse `json:"song"`
}

// PlaylistResponse is the DTO for playlist API responses.
type PlaylistResponse struct {
	ID          uuid.UUID              `json:"id"`
	UserID      uuid.UUID              `json:"user_id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	SongCount   int                    `json:"song_count"`
	Songs       []PlaylistSongResponse `json:"songs,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// ToPlaylistResponse converts a Playlist to its API representation.
// Membership entries without a preloaded song are skipped.
func ToPlaylistResponse(p *Playlist, includeSongs bool) PlaylistResponse {
	resp := PlaylistResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		Description: p.Description,
		SongCount:   len(p.Songs),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if includeSongs {
		resp.Songs = make([]PlaylistSongResponse, 0, len(p.Songs))
		for i := range p.Songs {
			entry := &p.Songs[i]
			if entry.Song == nil {
				continue
			}
			resp.Songs = append(resp.Songs, PlaylistSongResponse{
				Position: entry.Position,
				AddedAt:  entry.CreatedAt,
				Song:     song.ToSongResponse(entry.Song),
			})
		}
	}
	return resp
}
