// File: internal/user/handler.go
package user

import (
	"music_library_backend/internal/common"
	"music_library_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for user handlers.
type Handler struct {
	userService shared.Service
	logger      *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(userService shared.Service, logger *zap.Logger) *Handler {
	return &Handler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes sets up the routes for user operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	userGroup := router.Group("/users", authMW)
	{
		userGroup.GET("/me", h.getMe)
	}
}

func (h *Handler) getMe(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	u, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		h.logger.Warn("Authenticated user not found in store", zap.String("userID", userID.String()), zap.Error(err))
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User for this session no longer exists."))
		return
	}
	common.RespondOK(c, "Current user profile.", ToUserResponse(u))
}
