// File: internal/playlist/repository.go
package playlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"music_library_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for playlist data operations.
type Repository interface {
	Create(ctx context.Context, playlist *Playlist) error
	FindByID(ctx context.Context, id uuid.UUID, preloadSongs bool) (*Playlist, error)
	Update(ctx context.Context, playlist *Playlist) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByUserID(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Playlist, *common.Pagination, error)
	AddSong(ctx context.Context, playlistID, songID uuid.UUID) (*PlaylistSong, error)
	RemoveSong(ctx context.Context, playlistID, songID uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM playlist repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new playlist.
func (r *gormRepository) Create(ctx context.Context, playlist *Playlist) error {
	if err := r.db.WithContext(ctx).Create(playlist).Error; err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	return nil
}

// FindByID retrieves a playlist, optionally with its ordered songs.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID, preloadSongs bool) (*Playlist, error) {
	var playlist Playlist
	query := r.db.WithContext(ctx)
	if preloadSongs {
		query = query.Preload("Songs", func(db *gorm.DB) *gorm.DB {
			return db.Order("playlist_songs.position ASC")
		}).Preload("Songs.Song")
	}
	err := query.First(&playlist, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Playlist not found.")
		}
		return nil, err
	}
	return &playlist, nil
}

// Update saves playlist metadata. Membership changes go through AddSong
// and RemoveSong.
func (r *gormRepository) Update(ctx context.Context, playlist *Playlist) error {
	err := r.db.WithContext(ctx).Model(&Playlist{}).
		Where("id = ?", playlist.ID).
		Updates(map[string]interface{}{
			"name":        playlist.Name,
			"description": playlist.Description,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}
	return nil
}

// Delete removes a playlist and, via the cascade, its memberships.
func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&PlaylistSong{}).Error; err != nil {
			return fmt.Errorf("failed to delete playlist songs: %w", err)
		}
		result := tx.Delete(&Playlist{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrNotFound.WithDetails("Playlist not found or already deleted.")
		}
		return nil
	})
}

// GetByUserID retrieves the user's playlists, paginated, newest first.
func (r *gormRepository) GetByUserID(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Playlist, *common.Pagination, error) {
	var playlists []Playlist
	var total int64

	if err := r.db.WithContext(ctx).Model(&Playlist{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting playlists for user %s failed: %w", userID, err)
	}

	pagination := common.NewPagination(total, page, pageSize)
	offset := (pagination.CurrentPage - 1) * pagination.PageSize

	err := r.db.WithContext(ctx).
		Preload("Songs").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(pagination.PageSize).
		Offset(offset).
		Find(&playlists).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching playlists for user %s failed: %w", userID, err)
	}
	return playlists, pagination, nil
}

// AddSong appends a song to the end of a playlist inside a transaction.
// Position is assigned max+1 under the transaction so concurrent appends
// to different songs keep distinct positions; a duplicate song hits the
// unique index and surfaces as a conflict.
func (r *gormRepository) AddSong(ctx context.Context, playlistID, songID uuid.UUID) (*PlaylistSong, error) {
	var entry *PlaylistSong
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPosition int
		row := tx.Model(&PlaylistSong{}).
			Where("playlist_id = ?", playlistID).
			Select("COALESCE(MAX(position), 0)")
		if err := row.Scan(&maxPosition).Error; err != nil {
			return fmt.Errorf("failed to compute playlist position: %w", err)
		}

		entry = &PlaylistSong{
			PlaylistID: playlistID,
			SongID:     songID,
			Position:   maxPosition + 1,
		}
		if err := tx.Create(entry).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
				return common.ErrConflict.WithDetails("Song is already in this playlist.")
			}
			return fmt.Errorf("failed to add song to playlist: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RemoveSong deletes a membership and closes the position gap so the
// ordering stays dense.
func (r *gormRepository) RemoveSong(ctx context.Context, playlistID, songID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry PlaylistSong
		err := tx.Where("playlist_id = ? AND song_id = ?", playlistID, songID).First(&entry).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.ErrNotFound.WithDetails("Song is not in this playlist.")
			}
			return err
		}

		if err := tx.Delete(&entry).Error; err != nil {
			return fmt.Errorf("failed to remove song from playlist: %w", err)
		}

		err = tx.Model(&PlaylistSong{}).
			Where("playlist_id = ? AND position > ?", playlistID, entry.Position).
			UpdateColumn("position", gorm.Expr("position - 1")).Error
		if err != nil {
			return fmt.Errorf("failed to compact playlist positions: %w", err)
		}
		return nil
	})
}
