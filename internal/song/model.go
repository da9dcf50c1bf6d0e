// File: internal/song/model.go
package song

import (
	"time"

	"music_library_backend/internal/common"
	"music_library_backend/internal/user"

	"github.com/google/uuid"
)

// Song is the GORM model for the songs table.
type Song struct {
	common.BaseModel
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *user.User `gorm:"foreignKey:UserID" json:"-"`
	Title           string     `gorm:"type:varchar(255);not null" json:"title"`
	Slug            string     `gorm:"type:varchar(280);not null;index" json:"slug"`
	Artist          string     `gorm:"type:varchar(255);not null;index" json:"artist"`
	Album           string     `gorm:"type:varchar(255)" json:"album"`
	Genre           string     `gorm:"type:varchar(100);index" json:"genre"`
	Year            *int       `gorm:"type:int" json:"year,omitempty"`
	DurationSeconds *int       `gorm:"type:int" json:"duration_seconds,omitempty"`
}

// TableName specifies the table name for the Song model.
func (Song) TableName() string {
	return "songs"
}

// CreateSongRequest defines the payload for creating a song.
type CreateSongRequest struct {
	Title           string `json:"title" binding:"required,min=1,max=255"`
	Artist          string `json:"artist" binding:"required,min=1,max=255"`
	Album           string `json:"album" binding:"omitempty,max=255"`
	Genre           string `json:"genre" binding:"omitempty,max=100"`
	Year            *int   `json:"year" binding:"omitempty,gte=1000,lte=2100"`
	DurationSeconds *int   `json:"duration_seconds" binding:"omitempty,gt=0"`
}

// UpdateSongRequest defines the payload for updating a song.
// Pointer fields distinguish "not provided" from zero values.
type UpdateSongRequest struct {
	Title           *string `json:"title" binding:"omitempty,min=1,max=255"`
	Artist          *string `json:"artist" binding:"omitempty,min=1,max=255"`
	Album           *string `json:"album" binding:"omitempty,max=255"`
	Genre           *string `json:"genre" binding:"omitempty,max=100"`
	Year            *int    `json:"year" binding:"omitempty,gte=1000,lte=2100"`
	DurationSeconds *int    `json:"duration_seconds" binding:"omitempty,gt=0"`
}

// SongSearchQuery defines query parameters for searching songs.
type SongSearchQuery struct {
	SearchTerm string `form:"q"`
	Genre      string `form:"genre"`
	Artist     string `form:"artist"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"-"`
	PageSize   int    `form:"-"`
}

// SongResponse is the DTO for song API responses.
type SongResponse struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Artist          string    `json:"artist"`
	Album           string    `json:"album,omitempty"`
	Genre           string    `json:"genre,omitempty"`
	Year            *int      `json:"year,omitempty"`
	DurationSeconds *int      `json:"duration_seconds,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToSongResponse converts a Song model to its API representation.
func ToSongResponse(s *Song) SongResponse {
	return SongResponse{
		ID:              s.ID,
		UserID:          s.UserID,
		Title:           s.Title,
		Slug:            s.Slug,
		Artist:          s.Artist,
		Album:           s.Album,
		Genre:           s.Genre,
		Year:            s.Year,
		DurationSeconds: s.DurationSeconds,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
