// File: internal/favorite/service.go
package favorite

import (
	"context"
	"errors"

	"music_library_backend/internal/common"
	"music_library_backend/internal/song"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for favorite business logic.
type Service interface {
	// ToggleFavorite flips the favorite state for the song and reports the
	// resulting state. Favoriting a missing song is a not-found error.
	ToggleFavorite(ctx context.Context, userID, songID uuid.UUID) (*ToggleResponse, error)
	GetFavorites(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Favorite, *common.Pagination, error)
}

// ServiceImplementation implements the favorite Service interface.
type ServiceImplementation struct {
	repo        Repository
	songService song.Service
	logger      *zap.Logger
}

// NewService creates a new favorite service.
func NewService(repo Repository, songService song.Service, logger *zap.Logger) Service {
	return &ServiceImplementation{
		repo:        repo,
		songService: songService,
		logger:      logger.Named("favorite_service"),
	}
}

// ToggleFavorite adds the song to the user's favorites, or removes it when
// already present.
func (s *ServiceImplementation) ToggleFavorite(ctx context.Context, userID, songID uuid.UUID) (*ToggleResponse, error) {
	if _, err := s.songService.GetSongByID(ctx, songID); err != nil {
		return nil, err
	}

	_, err := s.repo.Find(ctx, userID, songID)
	switch {
	case err == nil:
		if err := s.repo.Delete(ctx, userID, songID); err != nil {
			// Lost a race with a concurrent toggle; the song is already
			// unfavorited, which is the state we wanted.
			if errors.Is(err, common.ErrNotFound) {
				return &ToggleResponse{SongID: songID, Favorited: false}, nil
			}
			s.logger.Error("Failed to remove favorite", zap.Error(err), zap.String("userID", userID.String()), zap.String("songID", songID.String()))
			return nil, err
		}
		s.logger.Debug("Song unfavorited", zap.String("userID", userID.String()), zap.String("songID", songID.String()))
		return &ToggleResponse{SongID: songID, Favorited: false}, nil

	case errors.Is(err, common.ErrNotFound):
		newFavorite := &Favorite{UserID: userID, SongID: songID}
		if err := s.repo.Create(ctx, newFavorite); err != nil {
			if errors.Is(err, common.ErrConflict) {
				return &ToggleResponse{SongID: songID, Favorited: true}, nil
			}
			s.logger.Error("Failed to add favorite", zap.Error(err), zap.String("userID", userID.String()), zap.String("songID", songID.String()))
			return nil, err
		}
		s.logger.Debug("Song favorited", zap.String("userID", userID.String()), zap.String("songID", songID.String()))
		return &ToggleResponse{SongID: songID, Favorited: true}, nil

	default:
		s.logger.Error("Failed to look up favorite", zap.Error(err), zap.String("userID", userID.String()), zap.String("songID", songID.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not toggle favorite.")
	}
}

// GetFavorites retrieves the user's favorited songs, paginated.
func (s *ServiceImplementation) GetFavorites(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Favorite, *common.Pagination, error) {
	favorites, pagination, err := s.repo.GetByUserID(ctx, userID, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to get favorites from repository", zap.Error(err), zap.String("userID", userID.String()))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve favorites.")
	}
	return favorites, pagination, nil
}
