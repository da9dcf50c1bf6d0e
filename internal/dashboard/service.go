// File: internal/dashboard/service.go
package dashboard

import (
	"context"

	"music_library_backend/internal/common"
	"music_library_backend/internal/song"

	"go.uber.org/zap"
)

const (
	topArtistsLimit  = 10
	latestSongsLimit = 5
)

// Service defines the interface for dashboard business logic.
type Service interface {
	GetStats(ctx context.Context) (*StatsResponse, error)
}

// ServiceImplementation implements the dashboard Service interface.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new dashboard service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &ServiceImplementation{
		repo:   repo,
		logger: logger.Named("dashboard_service"),
	}
}

// GetStats assembles the dashboard payload.
func (s *ServiceImplementation) GetStats(ctx context.Context) (*StatsResponse, error) {
	totals, err := s.repo.CountTotals(ctx)
	if err != nil {
		s.logger.Error("Failed to count library totals", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not compute dashboard statistics.")
	}

	perGenre, err := s.repo.SongsPerGenre(ctx)
	if err != nil {
		s.logger.Error("Failed to aggregate songs per genre", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not compute dashboard statistics.")
	}

	topArtists, err := s.repo.TopArtists(ctx, topArtistsLimit)
	if err != nil {
		s.logger.Error("Failed to aggregate top artists", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not compute dashboard statistics.")
	}

	latest, err := s.repo.LatestSongs(ctx, latestSongsLimit)
	if err != nil {
		s.logger.Error("Failed to fetch latest songs", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not compute dashboard statistics.")
	}

	latestResponses := make([]song.SongResponse, len(latest))
	for i := range latest {
		latestResponses[i] = song.ToSongResponse(&latest[i])
	}

	return &StatsResponse{
		Totals:        *totals,
		SongsPerGenre: perGenre,
		TopArtists:    topArtists,
		LatestSongs:   latestResponses,
	}, nil
}
