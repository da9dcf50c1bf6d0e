// File: internal/middleware/auth.go
package middleware

import (
	"strings"

	"music_library_backend/internal/common"
	"music_library_backend/internal/config"
	"music_library_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// AuthorizationHeader is the header name for authorization token
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens
	AuthorizationTypeBearer = "Bearer"
)

// AuthMiddleware creates a Gin middleware for JWT authentication. The token
// is read from the session cookie first, falling back to a Bearer header for
// non-browser clients. Validation failures keep their specific error kind so
// clients can tell an expired session from a forged or garbled one.
func AuthMiddleware(cfg *config.Config, tokenService shared.TokenService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractToken(c, cfg)
		if err != nil {
			logger.Debug("No auth token on request", zap.String("path", c.Request.URL.Path))
			common.RespondWithError(c, err)
			// c.Abort() is handled by RespondWithError's AbortWithStatusJSON
			return
		}

		claims, err := tokenService.ValidateToken(tokenString)
		if err != nil {
			logger.Warn("Token validation failed", zap.Error(err))
			common.RespondWithError(c, err)
			return
		}

		// Set user information in context for downstream handlers
		c.Set(common.UserIDKey, claims.UserID)
		c.Set(common.UserEmailKey, claims.Email)
		c.Set(common.UserRoleKey, claims.Role)
		c.Set(common.UserClaimsKey, claims)

		logger.Debug("User authenticated successfully",
			zap.String("userID", claims.UserID.String()),
			zap.String("email", claims.Email),
			zap.String("role", claims.Role),
		)

		c.Next()
	}
}

// extractToken pulls the JWT from the session cookie or, failing that, the
// Authorization header.
func extractToken(c *gin.Context, cfg *config.Config) (string, error) {
	if cookie, err := c.Cookie(cfg.AuthCookieName); err == nil && cookie != "" {
		return cookie, nil
	}

	authHeader := c.GetHeader(AuthorizationHeader)
	if authHeader == "" {
		return "", common.ErrTokenMalformed.WithDetails("Authentication required. No session cookie or Authorization header found.")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], AuthorizationTypeBearer) {
		return "", common.ErrTokenMalformed.WithDetails("Authorization header format must be 'Bearer <token>'.")
	}
	return parts[1], nil
}

// GetUserClaimsFromContext retrieves the full claims object from the Gin context.
func GetUserClaimsFromContext(c *gin.Context) *shared.Claims {
	val, exists := c.Get(common.UserClaimsKey)
	if !exists {
		return nil
	}
	claims, ok := val.(*shared.Claims)
	if !ok {
		return nil
	}
	return claims
}

// RoleAuthMiddleware creates a middleware to check if the authenticated user has one of the required roles.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := common.GetUserRoleFromContext(c)
		if userRole == "" {
			// This should ideally not happen if AuthMiddleware ran successfully
			common.RespondWithError(c, common.ErrForbidden.WithDetails("User role not found in context."))
			return
		}

		isAllowed := false
		for _, role := range allowedRoles {
			if userRole == role {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
			return
		}
		c.Next()
	}
}
