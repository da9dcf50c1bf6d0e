package favorite

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

// MockFavoriteRepository is a mock type for favorite.Repository
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Create(ctx context.Context, favorite *Favorite) error {
	args := m.Called(ctx, favorite)
	return args.Error(0)
}

func (m *MockFavoriteRepository) Find(ctx context.Context, userID, songID uuid.UUID) (*Favorite, error) {
	args := m.Called(ctx, userID, songID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) Delete(ctx context.Context, userID, songID uuid.UUID) error {
	args := m.Called(ctx, userID, songID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) GetByUserID(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Favorite, *common.Pagination, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Favorite), args.Get(1).(*common.Pagination), args.Error(2)
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
type FavoriteServiceTestSuite struct {
	service         Service
	mockRepo        *MockFavoriteRepository
	mockSongService *MockSongService
}

func setupFavoriteServiceTestSuite(t *testing.T) *FavoriteServiceTestSuite {
	ts := &FavoriteServiceTestSuite{}
	ts.mockRepo = new(MockFavoriteRepository)
	ts.mockSongService = new(MockSongService)
	ts.service = NewService(ts.mockRepo, ts.mockSongService, zap.NewNop())
	return ts
}

func existingSong(songID uuid.UUID) *song.Song {
	return &song.Song{
		BaseModel: common.BaseModel{ID: songID},
		Title:     "Some Song",
		Artist:    "Some Artist",
	}
}

func TestService_ToggleFavorite_AddsWhenAbsent(t *testing.T) {
	ts := setupFavoriteServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()
	songID := uuid.New()

	ts.mockSongService.On("GetSongByID", ctx, songID).Return(existingSong(songID), nil)
	ts.mockRepo.On("Find", ctx, userID, songID).Return(nil, common.ErrNotFound)
	ts.mockRepo.On("Create", ctx, mock.MatchedBy(func(f *Favorite) bool {
		return f.UserID == userID && f.SongID == songID
	})).Return(nil)

	result, err := ts.service.ToggleFavorite(ctx, userID, songID)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, result.Favorited)
	assert.Equal(t, songID, result.SongID)
	ts.mockRepo.AssertExpectations(t)
	ts.mockSongService.AssertExpectations(t)
}

func TestService_ToggleFavorite_RemovesWhenPresent(t *testing.T) {
	ts := setupFavoriteServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()
	songID := uuid.New()

	ts.mockSongService.On("GetSongByID", ctx, songID).Return(existingSong(songID), nil)
	ts.mockRepo.On("Find", ctx, userID, songID).Return(&Favorite{UserID: userID, SongID: songID}, nil)
	ts.mockRepo.On("Delete", ctx, userID, songID).Return(nil)

	result, err := ts.service.ToggleFavorite(ctx, userID, songID)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.False(t, result.Favorited)
	ts.mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_ToggleFavorite_MissingSong(t *testing.T) {
	ts := setupFavoriteServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()
	songID := uuid.New()

	ts.mockSongService.On("GetSongByID", ctx, songID).
		Return(nil, common.ErrNotFound.WithDetails("Song not found."))

	result, err := ts.service.ToggleFavorite(ctx, userID, songID)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, common.ErrNotFound)
	ts.mockRepo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)
	ts.mockSongService.AssertExpectations(t)
}

func TestService_ToggleFavorite_CreateRaceTreatedAsFavorited(t *testing.T) {
	ts := setupFavoriteServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()
	songID := uuid.New()

	ts.mockSongService.On("GetSongByID", ctx, songID).Return(existingSong(songID), nil)
	ts.mockRepo.On("Find", ctx, userID, songID).Return(nil, common.ErrNotFound)
	// Concurrent toggle won the insert; the unique index reports the conflict.
	ts.mockRepo.On("Create", ctx, mock.AnythingOfType("*favorite.Favorite")).
		Return(common.ErrConflict)

	result, err := ts.service.ToggleFavorite(ctx, userID, songID)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, result.Favorited)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_ToggleFavorite_DeleteRaceTreatedAsUnfavorited(t *testing.T) {
	ts := setupFavoriteServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()
	songID := uuid.New()

	ts.mockSongService.On("GetSongByID", ctx, songID).Return(existingSong(songID), nil)
	ts.mockRepo.On("Find", ctx, userID, songID).Return(&Favorite{UserID: userID, SongID: songID}, nil)
	ts.mockRepo.On("Delete", ctx, userID, songID).Return(common.ErrNotFound)

	result, err := ts.service.ToggleFavorite(ctx, userID, songID)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.False(t, result.Favorited)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_GetFavorites_Success(t *testing.T) {
	ts := setupFavoriteServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()

	mockFavorites := []Favorite{
		{UserID: userID, SongID: uuid.New()},
		{UserID: userID, SongID: uuid.New()},
	}
	mockPagination := common.NewPagination(2, 1, 10)

	ts.mockRepo.On("GetByUserID", ctx, userID, 1, 10).Return(mockFavorites, mockPagination, nil)

	favorites, pagination, err := ts.service.GetFavorites(ctx, userID, 1, 10)

	assert.NoError(t, err)
	assert.Len(t, favorites, 2)
	assert.Equal(t, mockPagination, pagination)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_GetFavorites_RepositoryError(t *testing.T) {
	ts := setupFavoriteServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()

	ts.mockRepo.On("GetByUserID", ctx, userID, 1, 10).Return(nil, nil, assert.AnError)

	favorites, pagination, err := ts.service.GetFavorites(ctx, userID, 1, 10)

	assert.Nil(t, favorites)
	assert.Nil(t, pagination)
	assert.ErrorIs(t, err, common.ErrInternalServer)
	ts.mockRepo.AssertExpectations(t)
}
