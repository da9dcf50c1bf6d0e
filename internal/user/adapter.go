// File: internal/user/adapter.go
package user

import (
	"music_library_backend/internal/shared"
)

// DBToShared converts a GORM user.User model to a shared.User DTO.
// The password hash is intentionally left behind.
func DBToShared(dbUser *User) *shared.User {
	if dbUser == nil {
		return nil
	}
	return &shared.User{
		ID:          dbUser.ID,
		Email:       dbUser.Email,
		GoogleID:    dbUser.GoogleID,
		Role:        dbUser.Role,
		IsVerified:  dbUser.IsVerified,
		CreatedAt:   dbUser.CreatedAt,
		UpdatedAt:   dbUser.UpdatedAt,
		LastLoginAt: dbUser.LastLoginAt,
	}
}
