// File: internal/dashboard/repository.go
package dashboard

import (
	"context"
	"fmt"

	"music_library_backend/internal/playlist"
	"music_library_backend/internal/song"
	"music_library_backend/internal/user"

	"gorm.io/gorm"
)

// Repository defines the aggregate queries behind the dashboard.
type Repository interface {
	CountTotals(ctx context.Context) (*Totals, error)
	SongsPerGenre(ctx context.Context) ([]GenreCount, error)
	TopArtists(ctx context.Context, limit int) ([]ArtistCount, error)
	LatestSongs(ctx context.Context, limit int) ([]song.Song, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM dashboard repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// CountTotals gathers the library-wide counters in one pass of scalar queries.
func (r *gormRepository) CountTotals(ctx context.Context) (*Totals, error) {
	var totals Totals
	db := r.db.WithContext(ctx)

	if err := db.Model(&song.Song{}).Count(&totals.Songs).Error; err != nil {
		return nil, fmt.Errorf("failed to count songs: %w", err)
	}
	if err := db.Model(&song.Song{}).Distinct("artist").Count(&totals.Artists).Error; err != nil {
		return nil, fmt.Errorf("failed to count artists: %w", err)
	}
	if err := db.Model(&song.Song{}).Where("album <> ''").Distinct("album").Count(&totals.Albums).Error; err != nil {
		return nil, fmt.Errorf("failed to count albums: %w", err)
	}
	if err := db.Model(&song.Song{}).Where("genre <> ''").Distinct("genre").Count(&totals.Genres).Error; err != nil {
		return nil, fmt.Errorf("failed to count genres: %w", err)
	}
	if err := db.Model(&user.User{}).Count(&totals.Users).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.Model(&playlist.Playlist{}).Count(&totals.Playlists).Error; err != nil {
		return nil, fmt.Errorf("failed to count playlists: %w", err)
	}
	return &totals, nil
}

// SongsPerGenre groups song counts by genre, largest first.
func (r *gormRepository) SongsPerGenre(ctx context.Context) ([]GenreCount, error) {
	var counts []GenreCount
	err := r.db.WithContext(ctx).Model(&song.Song{}).
		Select("genre, COUNT(*) AS count").
		Where("genre <> ''").
		Group("genre").
		Order("count DESC, genre ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate songs per genre: %w", err)
	}
	return counts, nil
}

// TopArtists returns the artists with the most songs.
func (r *gormRepository) TopArtists(ctx context.Context, limit int) ([]ArtistCount, error) {
	var counts []ArtistCount
	err := r.db.WithContext(ctx).Model(&song.Song{}).
		Select("artist, COUNT(*) AS count").
		Group("artist").
		Order("count DESC, artist ASC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top artists: %w", err)
	}
	return counts, nil
}

// LatestSongs returns the most recently added songs.
func (r *gormRepository) LatestSongs(ctx context.Context, limit int) ([]song.Song, error) {
	var songs []song.Song
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest songs: %w", err)
	}
	return songs, nil
}
