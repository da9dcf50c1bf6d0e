// File: internal/song/service.go
package song

import (
	"context"

	"music_library_backend/internal/common"
	"music_library_backend/internal/config"
	platformES "music_library_backend/internal/platform/elasticsearch"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// Service defines the interface for song-related business logic.
type Service interface {
	CreateSong(ctx context.Context, userID uuid.UUID, req CreateSongRequest) (*Song, error)
	GetSongByID(ctx context.Context, id uuid.UUID) (*Song, error)
	UpdateSong(ctx context.Context, id uuid.UUID, userID uuid.UUID, userRole string, req UpdateSongRequest) (*Song, error)
	DeleteSong(ctx context.Context, id uuid.UUID, userID uuid.UUID, userRole string) error
	SearchSongs(ctx context.Context, query SongSearchQuery) ([]Song, *common.Pagination, error)

	// Jobs related (called by the cron job and the sync CLI)
	ReindexAllSongs(ctx context.Context) (int, error)
}

// ServiceImplementation implements the song Service interface.
type ServiceImplementation struct {
	repo     Repository
	esClient *platformES.ESClientWrapper
	cfg      *config.Config
	logger   *zap.Logger
}

// NewService creates a new song service.
func NewService(
	repo Repository,
	esClient *platformES.ESClientWrapper,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &ServiceImplementation{
		repo:     repo,
		esClient: esClient,
		cfg:      cfg,
		logger:   logger.Named("song_service"),
	}
}

// CreateSong handles the business logic for adding a new song.
func (s *ServiceImplementation) CreateSong(ctx context.Context, userID uuid.UUID, req CreateSongRequest) (*Song, error) {
	newSong := &Song{
		UserID:          userID,
		Title:           req.Title,
		Slug:            slug.Make(req.Title),
		Artist:          req.Artist,
		Album:           req.Album,
		Genre:           req.Genre,
		Year:            req.Year,
		DurationSeconds: req.DurationSeconds,
	}

	if err := s.repo.Create(ctx, newSong); err != nil {
		s.logger.Error("Failed to create song in repository", zap.Error(err))
		return nil, err
	}

	s.indexSong(ctx, newSong)

	s.logger.Info("Song created successfully",
		zap.String("songID", newSong.ID.String()),
		zap.String("userID", userID.String()),
	)
	return newSong, nil
}

// GetSongByID retrieves a single song.
func (s *ServiceImplementation) GetSongByID(ctx context.Context, id uuid.UUID) (*Song, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateSong handles the logic for updating an existing song. Only the
// owner or an admin may update.
func (s *ServiceImplementation) UpdateSong(ctx context.Context, id uuid.UUID, userID uuid.UUID, userRole string, req UpdateSongRequest) (*Song, error) {
	existingSong, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existingSong.UserID != userID && userRole != common.RoleAdmin {
		s.logger.Warn("User attempted to update a song they do not own",
			zap.String("songID", id.String()),
			zap.String("editorUserID", userID.String()),
			zap.String("ownerUserID", existingSong.UserID.String()))
		return nil, common.ErrForbidden.WithDetails("You do not have permission to update this song.")
	}

	if req.Title != nil {
		existingSong.Title = *req.Title
		existingSong.Slug = slug.Make(*req.Title)
	}
	if req.Artist != nil {
		existingSong.Artist = *req.Artist
	}
	if req.Album != nil {
		existingSong.Album = *req.Album
	}
	if req.Genre != nil {
		existingSong.Genre = *req.Genre
	}
	if req.Year != nil {
		existingSong.Year = req.Year
	}
	if req.DurationSeconds != nil {
		existingSong.DurationSeconds = req.DurationSeconds
	}

	if err := s.repo.Update(ctx, existingSong); err != nil {
		s.logger.Error("Failed to update song in repository", zap.Error(err), zap.String("songID", id.String()))
		return nil, err
	}

	s.indexSong(ctx, existingSong)

	s.logger.Info("Song updated successfully", zap.String("songID", id.String()))
	return existingSong, nil
}

// DeleteSong handles deleting a song. Only the owner or an admin may delete.
func (s *ServiceImplementation) DeleteSong(ctx context.Context, id uuid.UUID, userID uuid.UUID, userRole string) error {
	existingSong, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if existingSong.UserID != userID && userRole != common.RoleAdmin {
		s.logger.Warn("User attempted to delete a song they do not own",
			zap.String("songID", id.String()),
			zap.String("userID", userID.String()))
		return common.ErrForbidden.WithDetails("You do not have permission to delete this song.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete song", zap.Error(err), zap.String("songID", id.String()))
		return err
	}

	s.removeSongFromIndex(ctx, id)

	s.logger.Info("Song deleted successfully", zap.String("songID", id.String()), zap.String("userID", userID.String()))
	return nil
}

// SearchSongs performs a search, going through Elasticsearch when a client
// is configured and falling back to the database otherwise. An index error
// also falls back rather than failing the request.
func (s *ServiceImplementation) SearchSongs(ctx context.Context, query SongSearchQuery) ([]Song, *common.Pagination, error) {
	if query.Page <= 0 {
		query.Page = common.DefaultPage
	}
	if query.PageSize <= 0 {
		query.PageSize = common.DefaultPageSize
	}

	if s.esClient.Enabled() {
		songs, pagination, err := s.searchViaElasticsearch(ctx, query)
		if err == nil {
			return songs, pagination, nil
		}
		s.logger.Warn("Elasticsearch search failed, falling back to database", zap.Error(err))
	}

	songs, pagination, err := s.repo.Search(ctx, query)
	if err != nil {
		s.logger.Error("Failed to search songs", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve songs.")
	}
	return songs, pagination, nil
}

// searchViaElasticsearch resolves IDs from the index and hydrates them from
// the database, preserving relevance order. Hydration re-applies the
// structured filters so a stale index entry cannot surface a song the
// database no longer matches.
func (s *ServiceImplementation) searchViaElasticsearch(ctx context.Context, query SongSearchQuery) ([]Song, *common.Pagination, error) {
	ids, total, err := s.searchSongIDs(ctx, query)
	if err != nil {
		return nil, nil, err
	}

	found, err := s.repo.SearchByIDsFiltered(ctx, query, ids)
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[uuid.UUID]Song, len(found))
	for _, sng := range found {
		byID[sng.ID] = sng
	}
	ordered := make([]Song, 0, len(ids))
	for _, id := range ids {
		if sng, ok := byID[id]; ok {
			ordered = append(ordered, sng)
		}
	}

	return ordered, common.NewPagination(total, query.Page, query.PageSize), nil
}

// ReindexAllSongs pushes every song into the index in batches. Returns the
// number of songs indexed.
func (s *ServiceImplementation) ReindexAllSongs(ctx context.Context) (int, error) {
	if !s.esClient.Enabled() {
		s.logger.Debug("Elasticsearch not configured, skipping reindex")
		return 0, nil
	}

	const batchSize = 200
	indexed := 0
	for offset := 0; ; offset += batchSize {
		batch, err := s.repo.FindBatch(ctx, offset, batchSize)
		if err != nil {
			s.logger.Error("Failed to load song batch for reindex", zap.Error(err), zap.Int("offset", offset))
			return indexed, err
		}
		if len(batch) == 0 {
			break
		}
		for i := range batch {
			s.indexSong(ctx, &batch[i])
			indexed++
		}
	}

	s.logger.Info("Song reindex completed", zap.Int("indexed_count", indexed))
	return indexed, nil
}
