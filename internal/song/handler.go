// File: internal/song/handler.go
package song

import (
	"errors"

	"music_library_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for song handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new song handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for song operations. The whole group
// sits behind the auth middleware: the library is private to logged-in users.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	songGroup := router.Group("/songs")
	songGroup.Use(authMW)
	{
		songGroup.GET("", h.searchSongs)
		songGroup.POST("", h.createSong)
		songGroup.GET("/:id", h.getSongByID)
		songGroup.PUT("/:id", h.updateSong)
		songGroup.DELETE("/:id", h.deleteSong)
	}
}

// RegisterAdminRoutes exposes maintenance operations. The caller layers the
// admin role check on top of the auth middleware.
func (h *Handler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.POST("/songs/reindex", h.reindexSongs)
}

func (h *Handler) reindexSongs(c *gin.Context) {
	indexed, err := h.service.ReindexAllSongs(c.Request.Context())
	if err != nil {
		h.logger.Error("Manual reindex failed", zap.Error(err))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Reindex failed."))
		return
	}
	common.RespondOK(c, "Reindex completed.", gin.H{"indexed": indexed})
}

func (h *Handler) createSong(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User ID not found."))
		return
	}

	var req CreateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create song: invalid request body", zap.Error(err), zap.String("userID", userID.String()))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	createdSong, err := h.service.CreateSong(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Song created successfully.", ToSongResponse(createdSong))
}

func (h *Handler) getSongByID(c *gin.Context) {
	songID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid song ID format."))
		return
	}

	foundSong, err := h.service.GetSongByID(c.Request.Context(), songID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Song retrieved successfully.", ToSongResponse(foundSong))
}

func (h *Handler) searchSongs(c *gin.Context) {
	var query SongSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Warn("Search songs: invalid query parameters", zap.Error(err))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid query parameters: "+err.Error()))
		return
	}
	query.Page, query.PageSize = common.GetPaginationParams(c)

	songs, pagination, err := h.service.SearchSongs(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	songResponses := make([]SongResponse, len(songs))
	for i := range songs {
		songResponses[i] = ToSongResponse(&songs[i])
	}
	common.RespondPaginated(c, "Songs retrieved successfully.", songResponses, pagination)
}

func (h *Handler) updateSong(c *gin.Context) {
	songID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid song ID format."))
		return
	}
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User ID not found."))
		return
	}

	var req UpdateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update song: invalid request body", zap.Error(err), zap.String("songID", songID.String()))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	updatedSong, err := h.service.UpdateSong(c.Request.Context(), songID, userID, common.GetUserRoleFromContext(c), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Song updated successfully.", ToSongResponse(updatedSong))
}

func (h *Handler) deleteSong(c *gin.Context) {
	songID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid song ID format."))
		return
	}
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User ID not found."))
		return
	}

	if err := h.service.DeleteSong(c.Request.Context(), songID, userID, common.GetUserRoleFromContext(c)); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
