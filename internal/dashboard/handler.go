// File: internal/dashboard/handler.go
package dashboard

import (
	"music_library_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for dashboard handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new dashboard handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for dashboard operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	dashboardGroup := router.Group("/dashboard")
	dashboardGroup.Use(authMW)
	{
		dashboardGroup.GET("/stats", h.getStats)
	}
}

func (h *Handler) getStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Dashboard statistics retrieved successfully.", stats)
}
