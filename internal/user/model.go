// File: internal/user/model.go
package user

import (
	"time"

	"music_library_backend/internal/common"
	"music_library_backend/internal/shared"

	"github.com/google/uuid"
)

// User represents the user model in the database.
// Every user has at least one credential path: a password hash (local
// signup) or a Google ID (OAuth signup). Both columns are nullable but
// never both NULL; the service layer enforces that on create.
type User struct {
	common.BaseModel
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash *string `gorm:"type:varchar(255)"`
	GoogleID     *string `gorm:"type:varchar(255);uniqueIndex"` // NULL for local-only accounts
	IsVerified   bool    `gorm:"not null;default:false"`
	Role         string  `gorm:"type:varchar(50);not null;default:'user'"`
	LastLoginAt  *time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// Sanitize removes sensitive information like the password hash.
func (u *User) Sanitize() {
	u.PasswordHash = nil
}

// --- DTOs for API requests/responses ---

// RegisterRequest defines the structure for local signup.
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8,max=72"` // bcrypt max is 72 bytes
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
}

// UserResponse defines the structure for user data sent in API responses.
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	IsVerified  bool       `json:"is_verified"`
	Role        string     `json:"role"`
	HasGoogle   bool       `json:"has_google"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// ToUserResponse converts a shared.User to a UserResponse DTO.
func ToUserResponse(u *shared.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		IsVerified:  u.IsVerified,
		Role:        u.Role,
		HasGoogle:   u.GoogleID != nil,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) GetEmail() string {
	return u.Email
}

func (u *User) GetRole() string {
	return u.Role
}
