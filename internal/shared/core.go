// File: internal/shared/core.go
package shared

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// User represents a sanitized user identity passed between features.
// The password hash never crosses this boundary.
type User struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	GoogleID    *string    `json:"-"`
	Role        string     `json:"role"`
	IsVerified  bool       `json:"is_verified"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// OAuthUserProfile holds the profile data received from Google.
type OAuthUserProfile struct {
	GoogleID      string
	Email         string
	EmailVerified bool
}

// Service defines the interface for user-related business logic.
type Service interface {
	Register(ctx context.Context, email, password string) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// OAuthUserProvider defines the user operations needed by the OAuth bridge.
type OAuthUserProvider interface {
	// FindOrCreateOrLinkOAuthUser resolves a Google profile to a local user:
	// found by Google ID, linked by email, or freshly created. wasCreated is
	// true only on the signup path.
	FindOrCreateOrLinkOAuthUser(ctx context.Context, profile OAuthUserProfile) (usr *User, wasCreated bool, err error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// UserDataForToken abstracts the user data needed for token generation.
type UserDataForToken interface {
	GetID() uuid.UUID
	GetEmail() string
	GetRole() string
}

// TokenService defines the interface for JWT operations.
type TokenService interface {
	GenerateToken(userData UserDataForToken) (string, time.Time, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims represents the JWT claims structure.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}
