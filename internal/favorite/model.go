// File: internal/favorite/model.go
package favorite

import (
	"time"

	"music_library_backend/internal/song"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite marks a song as favorited by a user. The (user_id, song_id)
// pair is unique so a song can be favorited at most once per user.
type Favorite struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_song" json:"user_id"`
	SongID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_song" json:"song_id"`
	Song      *song.Song `gorm:"foreignKey:SongID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Favorite) TableName() string {
	return "favorites"
}

// BeforeCreate generates the ID app-side when the database default does not
// apply.
func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// ToggleResponse reports the resulting state after a toggle.
type ToggleResponse struct {
	SongID    uuid.UUID `json:"song_id"`
	Favorited bool      `json:"favorited"`
}

// FavoriteSongResponse pairs a favorited song with the time it was favorited.
type FavoriteSongResponse struct {
	Song        song.SongResponse `json:"song"`
	FavoritedAt time.Time         `json:"favorited_at"`
}
