// File: internal/user/service.go
package user

import (
	"context"
	"errors"
	"time"

	"music_library_backend/internal/common"
	"music_library_backend/internal/config"
	"music_library_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceImplementation implements the shared.Service and
// shared.OAuthUserProvider interfaces.
type ServiceImplementation struct {
	repo   Repository
	cfg    *config.Config
	logger *zap.Logger
}

var _ shared.Service = (*ServiceImplementation)(nil)
var _ shared.OAuthUserProvider = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(repo Repository, cfg *config.Config, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		cfg:    cfg,
		logger: logger.Named("UserService"),
	}
}

// Register creates a new local-credentials user.
func (s *ServiceImplementation) Register(ctx context.Context, email, password string) (*shared.User, error) {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrDuplicateAccount.WithDetails("A user with this email already exists.")
	}
	if !errors.Is(err, common.ErrNotFound) {
		s.logger.Error("Error checking existing user by email during registration", zap.Error(err))
		return nil, common.ErrAuthInternal
	}

	hashedPassword, err := common.HashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", zap.Error(err))
		return nil, common.ErrAuthInternal
	}

	dbUser := &User{
		Email:        email,
		PasswordHash: &hashedPassword,
		Role:         common.RoleUser,
	}

	// The pre-check above is advisory only: a concurrent signup for the
	// same email loses here with the unique-index violation.
	if err := s.repo.Create(ctx, dbUser); err != nil {
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, apiErr
		}
		s.logger.Error("Failed to create user in repository", zap.Error(err), zap.String("email", email))
		return nil, common.ErrAuthInternal
	}

	s.logger.Info("User registered successfully", zap.String("userID", dbUser.ID.String()))
	return DBToShared(dbUser), nil
}

// Login verifies email/password credentials and returns the sanitized
// identity. Unknown email, OAuth-only accounts, and hash mismatches all
// surface the same ErrInvalidCredentials so the response never reveals
// which part failed.
func (s *ServiceImplementation) Login(ctx context.Context, email, password string) (*shared.User, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found during login", zap.String("email", email))
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error("Error finding user by email during login", zap.Error(err), zap.String("email", email))
		return nil, common.ErrAuthInternal
	}

	if dbUser.PasswordHash == nil || *dbUser.PasswordHash == "" {
		s.logger.Warn("Password login attempted on account without a password hash",
			zap.String("userID", dbUser.ID.String()))
		return nil, common.ErrInvalidCredentials
	}

	if !common.CheckPasswordHash(password, *dbUser.PasswordHash) {
		s.logger.Warn("Invalid password attempt", zap.String("userID", dbUser.ID.String()))
		return nil, common.ErrInvalidCredentials
	}

	now := time.Now()
	dbUser.LastLoginAt = &now
	if err := s.repo.Update(ctx, dbUser); err != nil {
		// Not critical for auth; log and proceed.
		s.logger.Error("Failed to update last login time", zap.Error(err), zap.String("userID", dbUser.ID.String()))
	}

	s.logger.Info("User logged in successfully", zap.String("userID", dbUser.ID.String()))
	return DBToShared(dbUser), nil
}

func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error("Error finding user by ID", zap.Error(err), zap.String("userID", id.String()))
		}
		return nil, err
	}
	return DBToShared(dbUser), nil
}

func (s *ServiceImplementation) GetUserByEmail(ctx context.Context, email string) (*shared.User, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error("Error finding user by email", zap.Error(err), zap.String("email", email))
		}
		return nil, err
	}
	return DBToShared(dbUser), nil
}

// FindOrCreateOrLinkOAuthUser resolves a Google profile to a local account:
//
//  1. found by Google ID: plain login, no mutation;
//  2. found by email without a Google ID: link the Google ID once;
//  3. found by email with a different Google ID: login on the email match,
//     no mutation (the email match is sufficient in this trust model);
//  4. not found: create a new verified account with no password hash.
//
// The read-then-create window is an accepted race: a concurrent duplicate
// create loses with ErrDuplicateAccount from the storage unique index.
func (s *ServiceImplementation) FindOrCreateOrLinkOAuthUser(ctx context.Context, profile shared.OAuthUserProfile) (*shared.User, bool, error) {
	if profile.GoogleID == "" {
		return nil, false, common.ErrNoAuthUser.WithDetails("Google profile is missing its account ID.")
	}

	dbUser, err := s.repo.FindByGoogleID(ctx, profile.GoogleID)
	if err == nil {
		s.logger.Info("OAuth user found by Google ID", zap.String("userID", dbUser.ID.String()))
		return DBToShared(dbUser), false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		s.logger.Error("Error finding user by Google ID", zap.Error(err), zap.String("googleID", profile.GoogleID))
		return nil, false, common.ErrAuthInternal
	}

	if profile.Email == "" {
		return nil, false, common.ErrNoAuthUser.WithDetails("Google profile did not include an email address.")
	}

	dbUserByEmail, emailErr := s.repo.FindByEmail(ctx, profile.Email)
	if emailErr == nil {
		if dbUserByEmail.GoogleID == nil {
			// Account-linking merge: attach the Google ID exactly once.
			s.logger.Info("Linking Google identity to existing email user",
				zap.String("userID", dbUserByEmail.ID.String()))
			googleID := profile.GoogleID
			dbUserByEmail.GoogleID = &googleID
			now := time.Now()
			dbUserByEmail.LastLoginAt = &now
			if err := s.repo.Update(ctx, dbUserByEmail); err != nil {
				if apiErr, ok := common.IsAPIError(err); ok {
					return nil, false, apiErr
				}
				s.logger.Error("Failed to link Google account", zap.Error(err), zap.String("userID", dbUserByEmail.ID.String()))
				return nil, false, common.ErrAuthInternal
			}
			return DBToShared(dbUserByEmail), false, nil
		}

		// Email matches but a different Google ID is on file. The email
		// match authenticates the user; no merge needed.
		s.logger.Info("OAuth login via email match, Google ID differs from stored one",
			zap.String("userID", dbUserByEmail.ID.String()))
		return DBToShared(dbUserByEmail), false, nil
	}
	if !errors.Is(emailErr, common.ErrNotFound) {
		s.logger.Error("Error finding user by email for OAuth linking", zap.Error(emailErr), zap.String("email", profile.Email))
		return nil, false, common.ErrAuthInternal
	}

	// Fresh signup from the Google profile, auto-verified, no password hash.
	now := time.Now()
	googleID := profile.GoogleID
	dbNewUser := &User{
		Email:       profile.Email,
		GoogleID:    &googleID,
		IsVerified:  true,
		Role:        common.RoleUser,
		LastLoginAt: &now,
	}

	if err := s.repo.Create(ctx, dbNewUser); err != nil {
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, false, apiErr
		}
		s.logger.Error("Failed to create new OAuth user", zap.Error(err), zap.String("email", profile.Email))
		return nil, false, common.ErrAuthInternal
	}

	s.logger.Info("New OAuth user created", zap.String("userID", dbNewUser.ID.String()))
	return DBToShared(dbNewUser), true, nil
}
