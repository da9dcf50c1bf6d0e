// File: internal/song/repository.go
package song

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"music_library_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for song data operations.
type Repository interface {
	Create(ctx context.Context, song *Song) error
	FindByID(ctx context.Context, id uuid.UUID) (*Song, error)
	Update(ctx context.Context, song *Song) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query SongSearchQuery) ([]Song, *common.Pagination, error)
	SearchByIDsFiltered(ctx context.Context, query SongSearchQuery, ids []uuid.UUID) ([]Song, error)
	FindBatch(ctx context.Context, offset, limit int) ([]Song, error)
	Count(ctx context.Context) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM song repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new song into the database.
func (r *gormRepository) Create(ctx context.Context, song *Song) error {
	if err := r.db.WithContext(ctx).Create(song).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
			return common.ErrConflict.WithDetails("A song with these attributes already exists.")
		}
		return fmt.Errorf("failed to create song: %w", err)
	}
	return nil
}

// FindByID retrieves a song by its ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Song, error) {
	var song Song
	err := r.db.WithContext(ctx).First(&song, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Song not found.")
		}
		return nil, err
	}
	return &song, nil
}

// Update saves the full song record.
func (r *gormRepository) Update(ctx context.Context, song *Song) error {
	if err := r.db.WithContext(ctx).Save(song).Error; err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}
	return nil
}

// Delete removes a song by ID. Ownership is enforced by the service layer.
func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Song{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Song not found or already deleted.")
	}
	return nil
}

// Search retrieves songs matching the query using database-side filtering.
// This is the fallback path when no Elasticsearch client is configured.
func (r *gormRepository) Search(ctx context.Context, queryParams SongSearchQuery) ([]Song, *common.Pagination, error) {
	var songs []Song
	var totalItems int64

	dbQuery := r.applyFilters(r.db.WithContext(ctx).Model(&Song{}), queryParams)

	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count songs: %w", err)
	}

	dbQuery = dbQuery.Order(orderClause(queryParams))

	pagination := common.NewPagination(totalItems, queryParams.Page, queryParams.PageSize)
	offset := (pagination.CurrentPage - 1) * pagination.PageSize
	if err := dbQuery.Offset(offset).Limit(pagination.PageSize).Find(&songs).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to search songs: %w", err)
	}

	return songs, pagination, nil
}

// SearchByIDsFiltered fetches songs restricted to a set of IDs, re-applying
// the structured filters (genre, artist) from the query. The free-text term
// is deliberately not re-applied: the index already matched it, with
// fuzziness a LIKE cannot reproduce. Order is not guaranteed; callers that
// care about order reorder the result themselves.
func (r *gormRepository) SearchByIDsFiltered(ctx context.Context, queryParams SongSearchQuery, ids []uuid.UUID) ([]Song, error) {
	var songs []Song
	if len(ids) == 0 {
		return songs, nil
	}
	structured := queryParams
	structured.SearchTerm = ""
	dbQuery := r.applyFilters(r.db.WithContext(ctx).Model(&Song{}), structured)
	err := dbQuery.Where("id IN ?", ids).Find(&songs).Error
	return songs, err
}

func (r *gormRepository) applyFilters(dbQuery *gorm.DB, queryParams SongSearchQuery) *gorm.DB {
	if queryParams.SearchTerm != "" {
		searchTerm := "%" + strings.ToLower(queryParams.SearchTerm) + "%"
		dbQuery = dbQuery.Where(
			"LOWER(songs.title) LIKE ? OR LOWER(songs.artist) LIKE ? OR LOWER(songs.album) LIKE ?",
			searchTerm, searchTerm, searchTerm,
		)
	}
	if queryParams.Genre != "" {
		dbQuery = dbQuery.Where("songs.genre = ?", queryParams.Genre)
	}
	if queryParams.Artist != "" {
		dbQuery = dbQuery.Where("songs.artist = ?", queryParams.Artist)
	}
	return dbQuery
}

func orderClause(queryParams SongSearchQuery) string {
	validSortableFields := map[string]string{
		"created_at": "songs.created_at",
		"title":      "songs.title",
		"artist":     "songs.artist",
		"year":       "songs.year",
	}
	dbSortField, ok := validSortableFields[queryParams.SortBy]
	if !ok {
		return "songs.created_at DESC"
	}
	sortOrder := "ASC"
	if strings.ToLower(queryParams.SortOrder) == "desc" {
		sortOrder = "DESC"
	}
	return fmt.Sprintf("%s %s", dbSortField, sortOrder)
}

// FindBatch retrieves songs for bulk index synchronization, ordered by
// creation time so batches are stable across runs.
func (r *gormRepository) FindBatch(ctx context.Context, offset, limit int) ([]Song, error) {
	var songs []Song
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&songs).Error
	return songs, err
}

// Count returns the total number of songs.
func (r *gormRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Song{}).Count(&count).Error
	return count, err
}
