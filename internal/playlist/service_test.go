package playlist

import (
	"context"
	"testing"

	"music_library_backend/internal/common"
	"music_library_backend/internal/song"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockPlaylistRepository is a mock type for playlist.Repository
type MockPlaylistRepository struct {
	mock.Mock
}

func (m *MockPlaylistRepository) Create(ctx context.Context, playlist *Playlist) error {
	args := m.Called(ctx, playlist)
	return args.Error(0)
}

func (m *MockPlaylistRepository) FindByID(ctx context.Context, id uuid.UUID, preloadSongs bool) (*Playlist, error) {
	args := m.Called(ctx, id, preloadSongs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Playlist), args.Error(1)
}

func (m *MockPlaylistRepository) Update(ctx context.Context, playlist *Playlist) error {
	args := m.Called(ctx, playlist)
	return args.Error(0)
}

func (m *MockPlaylistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPlaylistRepository) GetByUserID(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Playlist, *common.Pagination, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Playlist), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockPlaylistRepository) AddSong(ctx context.Context, playlistID, songID uuid.UUID) (*PlaylistSong, error) {
	args := m.Called(ctx, playlistID, songID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PlaylistSong), args.Error(1)
}

func (m *MockPlaylistRepository) RemoveSong(ctx context.Context, playlistID, songID uuid.UUID) error {
	args := m.Called(ctx, playlistID, songID)
	return args.Error(0)
}

// MockSongService is a mock type for song.Service
type MockSongService struct {
	mock.Mock
}

func (m *MockSongService) CreateSong(ctx context.Context, userID uuid.UUID, req song.CreateSongRequest) (*song.Song, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*song.Song), args.Error(1)
}

func (m *MockSongService) GetSongByID(ctx context.Context, id uuid.UUID) (*song.Song, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*song.Song), args.Error(1)
}

func (m *MockSongService) UpdateSong(ctx context.Context, id uuid.UUID, userID uuid.UUID, userRole string, req song.UpdateSongRequest) (*song.Song, error) {
	args := m.Called(ctx, id, userID, userRole, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*song.Song), args.Error(1)
}

func (m *MockSongService) DeleteSong(ctx context.Context, id uuid.UUID, userID uuid.UUID, userRole string) error {
	args := m.Called(ctx, id, userID, userRole)
	return args.Error(0)
}

func (m *MockSongService) SearchSongs(ctx context.Context, query song.SongSearchQuery) ([]song.Song, *common.Pagination, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]song.Song), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockSongService) ReindexAllSongs(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// Test Suite Setup
type PlaylistServiceTestSuite struct {
	service         Service
	mockRepo        *MockPlaylistRepository
	mockSongService *MockSongService
}

func setupPlaylistServiceTestSuite(t *testing.T) *PlaylistServiceTestSuite {
	ts := &PlaylistServiceTestSuite{}
	ts.mockRepo = new(MockPlaylistRepository)
	ts.mockSongService = new(MockSongService)
	ts.service = NewService(ts.mockRepo, ts.mockSongService, zap.NewNop())
	return ts
}

func ownedPlaylist(id, userID uuid.UUID) *Playlist {
	return &Playlist{
		BaseModel: common.BaseModel{ID: id},
		UserID:    userID,
		Name:      "Road Trip",
	}
}

func TestService_CreatePlaylist_Success(t *testing.T) {
	ts := setupPlaylistServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()

	req := CreatePlaylistRequest{Name: "Road Trip", Description: "Long drives"}
	ts.mockRepo.On("Create", ctx, mock.MatchedBy(func(p *Playlist) bool {
		return p.UserID == userID && p.Name == "Road Trip" && p.Description == "Long drives"
	})).Return(nil)

	created, err := ts.service.CreatePlaylist(ctx, userID, req)

	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, "Road Trip", created.Name)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_GetPlaylistByID_OwnerCanView(t *testing.T) {
	ts := setupPlaylistServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()
	playlistID := uuid.New()

	ts.mockRepo.On("FindByID", ctx, playlistID, true).Return(ownedPlaylist(playlistID, userID), nil)

	playlist, err := ts.service.GetPlaylistByID(ctx, playlistID, userID, common.RoleUser)

	assert.NoError(t, err)
	assert.NotNil(t, playlist)
	assert.Equal(t, playlistID, playlist.ID)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_GetPlaylistByID_NonOwnerForbidden(t *testing.T) {
	ts := setupPlaylistServiceTestSuite(t)
	ctx := context.Background()
	playlistID := uuid.New()

	ts.mockRepo.On("FindByID", ctx, playlistID, true).Return(ownedPlaylist(playlistID, uuid.New()), nil)

	playlist, err := ts.service.GetPlaylistByID(ctx, playlistID, uuid.New(), common.RoleUser)

	assert.Nil(t, playlist)
	assert.ErrorIs(t, err, common.ErrForbidden)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_GetPlaylistByID_AdminCanViewAny(t *testing.T) {
	ts := setupPlaylistServiceTestSuite(t)
	ctx := context.Background()
	playlistID := uuid.New()

	ts.mockRepo.On("FindByID", ctx, playlistID, true).Return(ownedPlaylist(playlistID, uuid.New()), nil)

	playlist, err := ts.service.GetPlaylistByID(ctx, playlistID, uuid.New(), common.RoleAdmin)

	assert.NoError(t, err)
	assert.NotNil(t, playlist)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_UpdatePlaylist_Success(t *testing.T) {
	ts := setupPlaylistServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()
	playlistID := uuid.New()
	newName := "Updated Name"

	ts.mockRepo.On("FindByID", ctx, playlistID, false).Return(ownedPlaylist(playlistID, userID), nil)
	ts.mockRepo.On("Update", ctx, mock.MatchedBy(func(p *Playlist) bool {
		return p.ID == playlistID && p.Name == "Updated Name"
	})).Return(nil)
	reloaded := ownedPlaylist(playlistID, userID)
	reloaded.Name = newName
	ts.mockRepo.On("FindByID", ctx, playlistID, true).Return(reloaded, nil)

	updated, err := ts.service.UpdatePlaylist(ctx, playlistID, userID, common.RoleUser, UpdatePlaylistRequest{Name: &newName})

	assert.NoError(t, err)
	assert.NotNil(t, updated)
	assert.Equal(t, "Updated Name", updated.Name)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_DeletePlaylist_NonOwnerForbidden(t *testing.T) {
	ts := setupPlaylistServiceTestSuite(t)
	ctx := context.Background()
	playlistID := uuid.New()

	ts.mockRepo.On("FindByID", ctx, playlistID, false).Return(ownedPlaylist(playlistID, uuid.New()), nil)

	err := ts.service.DeletePlaylist(ctx, playlistID, uuid.New(), common.RoleUser)

	assert.ErrorIs(t, err, common.ErrForbidden)
	ts.mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_AddSongToPlaylist_AppendsAndReloads(t *testing.T) {
	ts := setupPlaylistServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()
	playlistID := uuid.New()
	songID := uuid.New()

	ts.mockRepo.On("FindByID", ctx, playlistID, false).Return(ownedPlaylist(playlistID, userID), nil)
	ts.mockSongService.On("GetSongByID", ctx, songID).
		Return(&song.Song{BaseModel: common.BaseModel{ID: songID}}, nil)
	ts.mockRepo.On("AddSong", ctx, playlistID, songID).
		Return(&PlaylistSong{PlaylistID: playlistID, SongID: songID, Position: 1}, nil)

	reloaded := ownedPlaylist(playlistID, userID)
	reloaded.Songs = []PlaylistSong{{PlaylistID: playlistID, SongID: songID, Position: 1}}
	ts.mockRepo.On("FindByID", ctx, playlistID, true).Return(reloaded, nil)

	playlist, err := ts.service.AddSongToPlaylist(ctx, playlistID, songID, userID, common.RoleUser)

	assert.NoError(t, err)
	assert.NotNil(t, playlist)
	assert.Len(t, playlist.Songs, 1)
	assert.Equal(t, 1, playlist.Songs[0].Position)
	ts.mockRepo.AssertExpectations(t)
	ts.mockSongService.AssertExpectations(t)
}

func TestService_AddSongToPlaylist_DuplicateSongConflict(t *testing.T) {
	ts := setupPlaylistServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()
	playlistID := uuid.New()
	songID := uuid.New()

	ts.mockRepo.On("FindByID", ctx, playlistID, false).Return(ownedPlaylist(playlistID, userID), nil)
	ts.mockSongService.On("GetSongByID", ctx, songID).
		Return(&song.Song{BaseModel: common.BaseModel{ID: songID}}, nil)
	ts.mockRepo.On("AddSong", ctx, playlistID, songID).
		Return(nil, common.ErrConflict.WithDetails("Song is already in this playlist."))

	playlist, err := ts.service.AddSongToPlaylist(ctx, playlistID, songID, userID, common.RoleUser)

	assert.Nil(t, playlist)
	assert.ErrorIs(t, err, common.ErrConflict)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_AddSongToPlaylist_MissingSong(t *testing.T) {
	ts := setupPlaylistServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()
	playlistID := uuid.New()
	songID := uuid.New()

	ts.mockRepo.On("FindByID", ctx, playlistID, false).Return(ownedPlaylist(playlistID, userID), nil)
	ts.mockSongService.On("GetSongByID", ctx, songID).
		Return(nil, common.ErrNotFound.WithDetails("Song not found."))

	playlist, err := ts.service.AddSongToPlaylist(ctx, playlistID, songID, userID, common.RoleUser)

	assert.Nil(t, playlist)
	assert.ErrorIs(t, err, common.ErrNotFound)
	ts.mockRepo.AssertNotCalled(t, "AddSong", mock.Anything, mock.Anything, mock.Anything)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_RemoveSongFromPlaylist_Success(t *testing.T) {
	ts := setupPlaylistServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()
	playlistID := uuid.New()
	songID := uuid.New()

	ts.mockRepo.On("FindByID", ctx, playlistID, false).Return(ownedPlaylist(playlistID, userID), nil)
	ts.mockRepo.On("RemoveSong", ctx, playlistID, songID).Return(nil)
	ts.mockRepo.On("FindByID", ctx, playlistID, true).Return(ownedPlaylist(playlistID, userID), nil)

	playlist, err := ts.service.RemoveSongFromPlaylist(ctx, playlistID, songID, userID, common.RoleUser)

	assert.NoError(t, err)
	assert.NotNil(t, playlist)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_RemoveSongFromPlaylist_SongNotInPlaylist(t *testing.T) {
	ts := setupPlaylistServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()
	playlistID := uuid.New()
	songID := uuid.New()

	ts.mockRepo.On("FindByID", ctx, playlistID, false).Return(ownedPlaylist(playlistID, userID), nil)
	ts.mockRepo.On("RemoveSong", ctx, playlistID, songID).
		Return(common.ErrNotFound.WithDetails("Song is not in this playlist."))

	playlist, err := ts.service.RemoveSongFromPlaylist(ctx, playlistID, songID, userID, common.RoleUser)

	assert.Nil(t, playlist)
	assert.ErrorIs(t, err, common.ErrNotFound)
	ts.mockRepo.AssertExpectations(t)
}
