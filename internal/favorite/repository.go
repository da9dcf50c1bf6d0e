// File: internal/favorite/repository.go
package favorite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"music_library_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for favorite data operations.
type Repository interface {
	Create(ctx context.Context, favorite *Favorite) error
	Find(ctx context.Context, userID, songID uuid.UUID) (*Favorite, error)
	Delete(ctx context.Context, userID, songID uuid.UUID) error
	GetByUserID(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Favorite, *common.Pagination, error)
}

// GORMRepository implements the Repository interface using GORM.
type GORMRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM favorite repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &GORMRepository{db: db}
}

// Create inserts a new favorite. A concurrent duplicate insert surfaces as
// a conflict through the unique index.
func (r *GORMRepository) Create(ctx context.Context, favorite *Favorite) error {
	if err := r.db.WithContext(ctx).Create(favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
			return common.ErrConflict.WithDetails("Song is already in favorites.")
		}
		return fmt.Errorf("failed to create favorite: %w", err)
	}
	return nil
}

// Find retrieves a favorite by user and song.
func (r *GORMRepository) Find(ctx context.Context, userID, songID uuid.UUID) (*Favorite, error) {
	var favorite Favorite
	err := r.db.WithContext(ctx).Where("user_id = ? AND song_id = ?", userID, songID).First(&favorite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Favorite not found.")
		}
		return nil, fmt.Errorf("failed to find favorite for user %s, song %s: %w", userID, songID, err)
	}
	return &favorite, nil
}

// Delete removes a favorite by user and song.
func (r *GORMRepository) Delete(ctx context.Context, userID, songID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("user_id = ? AND song_id = ?", userID, songID).Delete(&Favorite{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete favorite for user %s, song %s: %w", userID, songID, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Favorite not found.")
	}
	return nil
}

// GetByUserID retrieves a paginated list of the user's favorites with song
// details preloaded, most recently favorited first.
func (r *GORMRepository) GetByUserID(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Favorite, *common.Pagination, error) {
	var favorites []Favorite
	var total int64

	countQuery := r.db.WithContext(ctx).Model(&Favorite{}).Where("user_id = ?", userID)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting favorites for user %s failed: %w", userID, err)
	}

	pagination := common.NewPagination(total, page, pageSize)

	offset := (pagination.CurrentPage - 1) * pagination.PageSize
	err := r.db.WithContext(ctx).
		Preload("Song").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(pagination.PageSize).
		Offset(offset).
		Find(&favorites).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching favorites for user %s failed: %w", userID, err)
	}
	return favorites, pagination, nil
}
