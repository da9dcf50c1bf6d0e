package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"music_library_backend/internal/common"
	"music_library_backend/internal/config"
	"music_library_backend/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockUserRepository is a mock type for user.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

// Test Suite Setup
type UserServiceTestSuite struct {
	service  *ServiceImplementation
	mockRepo *MockUserRepository
	logger   *zap.Logger
	cfg      *config.Config
}

func setupUserServiceTestSuite(t *testing.T) *UserServiceTestSuite {
	ts := &UserServiceTestSuite{}
	ts.mockRepo = new(MockUserRepository)
	ts.logger = zap.NewNop()
	ts.cfg = &config.Config{}
	ts.service = NewService(ts.mockRepo, ts.cfg, ts.logger)
	return ts
}

func hashedUser(id uuid.UUID, email, password string) *User {
	hash, _ := common.HashPassword(password)
	return &User{
		BaseModel:    common.BaseModel{ID: id},
		Email:        email,
		PasswordHash: &hash,
		Role:         common.RoleUser,
	}
}

// --- Register ---

func TestService_Register_Success(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()

	ts.mockRepo.On("FindByEmail", ctx, "new@example.com").
		Return(nil, common.ErrNotFound.WithDetails("User not found with this email."))
	ts.mockRepo.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
		return u.Email == "new@example.com" &&
			u.PasswordHash != nil && *u.PasswordHash != "" &&
			u.Role == common.RoleUser &&
			!u.IsVerified
	})).Return(nil)

	created, err := ts.service.Register(ctx, "new@example.com", "strongpassword")

	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, "new@example.com", created.Email)
	assert.Nil(t, created.GoogleID)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()

	existing := hashedUser(uuid.New(), "taken@example.com", "whatever")
	ts.mockRepo.On("FindByEmail", ctx, "taken@example.com").Return(existing, nil)

	created, err := ts.service.Register(ctx, "taken@example.com", "strongpassword")

	assert.Nil(t, created)
	assert.ErrorIs(t, err, common.ErrDuplicateAccount)
	ts.mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_Register_ConcurrentDuplicateLosesOnCreate(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()

	// Pre-check misses, but the unique index catches the race on Create.
	ts.mockRepo.On("FindByEmail", ctx, "race@example.com").
		Return(nil, common.ErrNotFound)
	ts.mockRepo.On("Create", ctx, mock.AnythingOfType("*user.User")).
		Return(common.ErrDuplicateAccount.WithDetails("A user with this email or Google ID already exists."))

	created, err := ts.service.Register(ctx, "race@example.com", "strongpassword")

	assert.Nil(t, created)
	assert.ErrorIs(t, err, common.ErrDuplicateAccount)
	ts.mockRepo.AssertExpectations(t)
}

// --- Login ---

func TestService_Login_Success(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()

	dbUser := hashedUser(userID, "user@example.com", "correct-horse")
	ts.mockRepo.On("FindByEmail", ctx, "user@example.com").Return(dbUser, nil)
	ts.mockRepo.On("Update", ctx, mock.MatchedBy(func(u *User) bool {
		return u.ID == userID && u.LastLoginAt != nil
	})).Return(nil)

	loggedIn, err := ts.service.Login(ctx, "user@example.com", "correct-horse")

	assert.NoError(t, err)
	assert.NotNil(t, loggedIn)
	assert.Equal(t, userID, loggedIn.ID)
	assert.Equal(t, "user@example.com", loggedIn.Email)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()

	ts.mockRepo.On("FindByEmail", ctx, "ghost@example.com").
		Return(nil, common.ErrNotFound)

	loggedIn, err := ts.service.Login(ctx, "ghost@example.com", "anything")

	assert.Nil(t, loggedIn)
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_Login_WrongPassword(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()

	dbUser := hashedUser(uuid.New(), "user@example.com", "correct-horse")
	ts.mockRepo.On("FindByEmail", ctx, "user@example.com").Return(dbUser, nil)

	loggedIn, err := ts.service.Login(ctx, "user@example.com", "battery-staple")

	assert.Nil(t, loggedIn)
	// Must be indistinguishable from the unknown-email failure.
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	ts.mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_Login_OAuthOnlyAccount(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()
	googleID := "google-123"

	// Account created through Google: no password hash on record.
	dbUser := &User{
		BaseModel:  common.BaseModel{ID: uuid.New()},
		Email:      "oauth@example.com",
		GoogleID:   &googleID,
		IsVerified: true,
		Role:       common.RoleUser,
	}
	ts.mockRepo.On("FindByEmail", ctx, "oauth@example.com").Return(dbUser, nil)

	loggedIn, err := ts.service.Login(ctx, "oauth@example.com", "anything")

	assert.Nil(t, loggedIn)
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_Login_LastLoginUpdateFailureIsNonFatal(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()

	dbUser := hashedUser(uuid.New(), "user@example.com", "correct-horse")
	ts.mockRepo.On("FindByEmail", ctx, "user@example.com").Return(dbUser, nil)
	ts.mockRepo.On("Update", ctx, mock.AnythingOfType("*user.User")).
		Return(errors.New("db write failed"))

	loggedIn, err := ts.service.Login(ctx, "user@example.com", "correct-horse")

	assert.NoError(t, err)
	assert.NotNil(t, loggedIn)
	ts.mockRepo.AssertExpectations(t)
}

// --- FindOrCreateOrLinkOAuthUser ---

func TestService_OAuth_MissingGoogleID(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()

	usr, wasCreated, err := ts.service.FindOrCreateOrLinkOAuthUser(ctx, shared.OAuthUserProfile{
		Email: "user@example.com",
	})

	assert.Nil(t, usr)
	assert.False(t, wasCreated)
	assert.ErrorIs(t, err, common.ErrNoAuthUser)
	ts.mockRepo.AssertNotCalled(t, "FindByGoogleID", mock.Anything, mock.Anything)
}

func TestService_OAuth_FoundByGoogleID_NoMutation(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()
	googleID := "google-123"

	dbUser := &User{
		BaseModel:  common.BaseModel{ID: uuid.New()},
		Email:      "user@example.com",
		GoogleID:   &googleID,
		IsVerified: true,
		Role:       common.RoleUser,
	}
	ts.mockRepo.On("FindByGoogleID", ctx, googleID).Return(dbUser, nil)

	usr, wasCreated, err := ts.service.FindOrCreateOrLinkOAuthUser(ctx, shared.OAuthUserProfile{
		GoogleID: googleID,
		Email:    "user@example.com",
	})

	assert.NoError(t, err)
	assert.False(t, wasCreated)
	assert.NotNil(t, usr)
	assert.Equal(t, dbUser.ID, usr.ID)
	ts.mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	ts.mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_OAuth_LinksExistingEmailUserOnce(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()
	googleID := "google-123"

	local := hashedUser(userID, "user@example.com", "correct-horse")
	ts.mockRepo.On("FindByGoogleID", ctx, googleID).Return(nil, common.ErrNotFound)
	ts.mockRepo.On("FindByEmail", ctx, "user@example.com").Return(local, nil)
	ts.mockRepo.On("Update", ctx, mock.MatchedBy(func(u *User) bool {
		return u.ID == userID &&
			u.GoogleID != nil && *u.GoogleID == googleID &&
			u.LastLoginAt != nil
	})).Return(nil).Once()

	usr, wasCreated, err := ts.service.FindOrCreateOrLinkOAuthUser(ctx, shared.OAuthUserProfile{
		GoogleID: googleID,
		Email:    "user@example.com",
	})

	assert.NoError(t, err)
	assert.False(t, wasCreated)
	assert.NotNil(t, usr)
	assert.Equal(t, userID, usr.ID)
	assert.NotNil(t, usr.GoogleID)
	assert.Equal(t, googleID, *usr.GoogleID)
	ts.mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_OAuth_EmailMatchWithDifferentGoogleID_NoMutation(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()
	storedGoogleID := "google-old"

	dbUser := &User{
		BaseModel:  common.BaseModel{ID: uuid.New()},
		Email:      "user@example.com",
		GoogleID:   &storedGoogleID,
		IsVerified: true,
		Role:       common.RoleUser,
	}
	ts.mockRepo.On("FindByGoogleID", ctx, "google-new").Return(nil, common.ErrNotFound)
	ts.mockRepo.On("FindByEmail", ctx, "user@example.com").Return(dbUser, nil)

	usr, wasCreated, err := ts.service.FindOrCreateOrLinkOAuthUser(ctx, shared.OAuthUserProfile{
		GoogleID: "google-new",
		Email:    "user@example.com",
	})

	assert.NoError(t, err)
	assert.False(t, wasCreated)
	assert.NotNil(t, usr)
	assert.Equal(t, dbUser.ID, usr.ID)
	// The stored Google ID stays as-is.
	assert.Equal(t, storedGoogleID, *usr.GoogleID)
	ts.mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	ts.mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_OAuth_CreatesVerifiedUserWithoutPassword(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()
	googleID := "google-fresh"

	ts.mockRepo.On("FindByGoogleID", ctx, googleID).Return(nil, common.ErrNotFound)
	ts.mockRepo.On("FindByEmail", ctx, "fresh@example.com").Return(nil, common.ErrNotFound)
	ts.mockRepo.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
		return u.Email == "fresh@example.com" &&
			u.GoogleID != nil && *u.GoogleID == googleID &&
			u.PasswordHash == nil &&
			u.IsVerified &&
			u.Role == common.RoleUser &&
			u.LastLoginAt != nil
	})).Return(nil).Once()

	usr, wasCreated, err := ts.service.FindOrCreateOrLinkOAuthUser(ctx, shared.OAuthUserProfile{
		GoogleID:      googleID,
		Email:         "fresh@example.com",
		EmailVerified: true,
	})

	assert.NoError(t, err)
	assert.True(t, wasCreated)
	assert.NotNil(t, usr)
	assert.Equal(t, "fresh@example.com", usr.Email)
	assert.True(t, usr.IsVerified)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_OAuth_CreateRaceSurfacesDuplicate(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()
	googleID := "google-race"

	ts.mockRepo.On("FindByGoogleID", ctx, googleID).Return(nil, common.ErrNotFound)
	ts.mockRepo.On("FindByEmail", ctx, "race@example.com").Return(nil, common.ErrNotFound)
	ts.mockRepo.On("Create", ctx, mock.AnythingOfType("*user.User")).
		Return(common.ErrDuplicateAccount.WithDetails("A user with this email or Google ID already exists."))

	usr, wasCreated, err := ts.service.FindOrCreateOrLinkOAuthUser(ctx, shared.OAuthUserProfile{
		GoogleID: googleID,
		Email:    "race@example.com",
	})

	assert.Nil(t, usr)
	assert.False(t, wasCreated)
	assert.ErrorIs(t, err, common.ErrDuplicateAccount)
	ts.mockRepo.AssertExpectations(t)
}

// --- GetUserByID ---

func TestService_GetUserByID_SanitizesHash(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()

	dbUser := hashedUser(userID, "user@example.com", "correct-horse")
	dbUser.LastLoginAt = ptrTime(time.Now())
	ts.mockRepo.On("FindByID", ctx, userID).Return(dbUser, nil)

	usr, err := ts.service.GetUserByID(ctx, userID)

	assert.NoError(t, err)
	assert.NotNil(t, usr)
	assert.Equal(t, userID, usr.ID)
	assert.NotNil(t, usr.LastLoginAt)
	ts.mockRepo.AssertExpectations(t)
}

func TestService_GetUserByID_NotFound(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()

	ts.mockRepo.On("FindByID", ctx, userID).Return(nil, common.ErrNotFound)

	usr, err := ts.service.GetUserByID(ctx, userID)

	assert.Nil(t, usr)
	assert.ErrorIs(t, err, common.ErrNotFound)
	ts.mockRepo.AssertExpectations(t)
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
