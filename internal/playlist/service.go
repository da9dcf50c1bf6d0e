// File: internal/playlist/service.go
package playlist

import (
	"context"

	"music_library_backend/internal/common"
	"music_library_backend/internal/song"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for playlist business logic.
type Service interface {
	CreatePlaylist(ctx context.Context, userID uuid.UUID, req CreatePlaylistRequest) (*Playlist, error)
	GetPlaylistByID(ctx context.Context, id uuid.UUID, userID uuid.UUID, userRole string) (*Playlist, error)
	GetUserPlaylists(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Playlist, *common.Pagination, error)
	UpdatePlaylist(ctx context.Context, id uuid.UUID, userID uuid.UUID, userRole string, req UpdatePlaylistRequest) (*Playlist, error)
	DeletePlaylist(ctx context.Context, id uuid.UUID, userID uuid.UUID, userRole string) error
	AddSongToPlaylist(ctx context.Context, playlistID, songID, userID uuid.UUID, userRole string) (*Playlist, error)
	RemoveSongFromPlaylist(ctx context.Context, playlistID, songID, userID uuid.UUID, userRole string) (*Playlist, error)
}

// ServiceImplementation implements the playlist Service interface.
type ServiceImplementation struct {
	repo        Repository
	songService song.Service
	logger      *zap.Logger
}

// NewService creates a new playlist service.
func NewService(repo Repository, songService song.Service, logger *zap.Logger) Service {
	return &ServiceImplementation{
		repo:        repo,
		songService: songService,
		logger:      logger.Named("playlist_service"),
	}
}

// CreatePlaylist creates an empty playlist owned by the user.
func (s *ServiceImplementation) CreatePlaylist(ctx context.Context, userID uuid.UUID, req CreatePlaylistRequest) (*Playlist, error) {
	newPlaylist := &Playlist{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, newPlaylist); err != nil {
		s.logger.Error("Failed to create playlist in repository", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not create playlist.")
	}

	s.logger.Info("Playlist created successfully",
		zap.String("playlistID", newPlaylist.ID.String()),
		zap.String("userID", userID.String()),
	)
	return newPlaylist, nil
}

// GetPlaylistByID retrieves a playlist with its ordered songs. Playlists are
// private: only the owner or an admin may view one.
func (s *ServiceImplementation) GetPlaylistByID(ctx context.Context, id uuid.UUID, userID uuid.UUID, userRole string) (*Playlist, error) {
	playlist, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(playlist, userID, userRole, "view"); err != nil {
		return nil, err
	}
	return playlist, nil
}

// GetUserPlaylists retrieves the user's own playlists.
func (s *ServiceImplementation) GetUserPlaylists(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Playlist, *common.Pagination, error) {
	playlists, pagination, err := s.repo.GetByUserID(ctx, userID, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to get playlists from repository", zap.Error(err), zap.String("userID", userID.String()))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve playlists.")
	}
	return playlists, pagination, nil
}

// UpdatePlaylist updates playlist metadata.
func (s *ServiceImplementation) UpdatePlaylist(ctx context.Context, id uuid.UUID, userID uuid.UUID, userRole string, req UpdatePlaylistRequest) (*Playlist, error) {
	playlist, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(playlist, userID, userRole, "update"); err != nil {
		return nil, err
	}

	if req.Name != nil {
		playlist.Name = *req.Name
	}
	if req.Description != nil {
		playlist.Description = *req.Description
	}

	if err := s.repo.Update(ctx, playlist); err != nil {
		s.logger.Error("Failed to update playlist", zap.Error(err), zap.String("playlistID", id.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not update playlist.")
	}

	s.logger.Info("Playlist updated successfully", zap.String("playlistID", id.String()))
	return s.repo.FindByID(ctx, id, true)
}

// DeletePlaylist removes a playlist and its memberships.
func (s *ServiceImplementation) DeletePlaylist(ctx context.Context, id uuid.UUID, userID uuid.UUID, userRole string) error {
	playlist, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return err
	}
	if err := s.authorize(playlist, userID, userRole, "delete"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete playlist", zap.Error(err), zap.String("playlistID", id.String()))
		return err
	}

	s.logger.Info("Playlist deleted successfully", zap.String("playlistID", id.String()), zap.String("userID", userID.String()))
	return nil
}

// AddSongToPlaylist appends a song at the end of the playlist. Adding a song
// that is already a member is a conflict.
func (s *ServiceImplementation) AddSongToPlaylist(ctx context.Context, playlistID, songID, userID uuid.UUID, userRole string) (*Playlist, error) {
	playlist, err := s.repo.FindByID(ctx, playlistID, false)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(playlist, userID, userRole, "modify"); err != nil {
		return nil, err
	}

	if _, err := s.songService.GetSongByID(ctx, songID); err != nil {
		return nil, err
	}

	if _, err := s.repo.AddSong(ctx, playlistID, songID); err != nil {
		return nil, err
	}

	s.logger.Info("Song added to playlist",
		zap.String("playlistID", playlistID.String()),
		zap.String("songID", songID.String()),
	)
	return s.repo.FindByID(ctx, playlistID, true)
}

// RemoveSongFromPlaylist removes a song and compacts the remaining positions.
func (s *ServiceImplementation) RemoveSongFromPlaylist(ctx context.Context, playlistID, songID, userID uuid.UUID, userRole string) (*Playlist, error) {
	playlist, err := s.repo.FindByID(ctx, playlistID, false)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(playlist, userID, userRole, "modify"); err != nil {
		return nil, err
	}

	if err := s.repo.RemoveSong(ctx, playlistID, songID); err != nil {
		return nil, err
	}

	s.logger.Info("Song removed from playlist",
		zap.String("playlistID", playlistID.String()),
		zap.String("songID", songID.String()),
	)
	return s.repo.FindByID(ctx, playlistID, true)
}

func (s *ServiceImplementation) authorize(playlist *Playlist, userID uuid.UUID, userRole, action string) error {
	if playlist.UserID == userID || userRole == common.RoleAdmin {
		return nil
	}
	s.logger.Warn("User attempted to access a playlist they do not own",
		zap.String("playlistID", playlist.ID.String()),
		zap.String("userID", userID.String()),
		zap.String("action", action),
	)
	return common.ErrForbidden.WithDetails("You do not have permission to " + action + " this playlist.")
}
