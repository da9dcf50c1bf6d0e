// File: internal/playlist/handler.go
package playlist

import (
	"errors"

	"music_library_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for playlist handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new playlist handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for playlist operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	playlistGroup := router.Group("/playlists")
	playlistGroup.Use(authMW)
	{
		playlistGroup.GET("", h.getUserPlaylists)
		playlistGroup.POST("", h.createPlaylist)
		playlistGroup.GET("/:id", h.getPlaylistByID)
		playlistGroup.PUT("/:id", h.updatePlaylist)
		playlistGroup.DELETE("/:id", h.deletePlaylist)
		playlistGroup.POST("/:id/songs/:songID", h.addSong)
		playlistGroup.DELETE("/:id/songs/:songID", h.removeSong)
	}
}

func (h *Handler) createPlaylist(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User ID not found."))
		return
	}

	var req CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create playlist: invalid request body", zap.Error(err), zap.String("userID", userID.String()))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	createdPlaylist, err := h.service.CreatePlaylist(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Playlist created successfully.", ToPlaylistResponse(createdPlaylist, false))
}

func (h *Handler) getUserPlaylists(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User ID not found."))
		return
	}

	page, pageSize := common.GetPaginationParams(c)
	playlists, pagination, err := h.service.GetUserPlaylists(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]PlaylistResponse, len(playlists))
	for i := range playlists {
		responses[i] = ToPlaylistResponse(&playlists[i], false)
	}
	common.RespondPaginated(c, "Playlists retrieved successfully.", responses, pagination)
}

func (h *Handler) getPlaylistByID(c *gin.Context) {
	playlistID, userID, ok := h.parseIDs(c)
	if !ok {
		return
	}

	playlist, err := h.service.GetPlaylistByID(c.Request.Context(), playlistID, userID, common.GetUserRoleFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Playlist retrieved successfully.", ToPlaylistResponse(playlist, true))
}

func (h *Handler) updatePlaylist(c *gin.Context) {
	playlistID, userID, ok := h.parseIDs(c)
	if !ok {
		return
	}

	var req UpdatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update playlist: invalid request body", zap.Error(err), zap.String("playlistID", playlistID.String()))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	updatedPlaylist, err := h.service.UpdatePlaylist(c.Request.Context(), playlistID, userID, common.GetUserRoleFromContext(c), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Playlist updated successfully.", ToPlaylistResponse(updatedPlaylist, true))
}

func (h *Handler) deletePlaylist(c *gin.Context) {
	playlistID, userID, ok := h.parseIDs(c)
	if !ok {
		return
	}

	if err := h.service.DeletePlaylist(c.Request.Context(), playlistID, userID, common.GetUserRoleFromContext(c)); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) addSong(c *gin.Context) {
	playlistID, userID, ok := h.parseIDs(c)
	if !ok {
		return
	}
	songID, err := uuid.Parse(c.Param("songID"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid song ID format."))
		return
	}

	playlist, err := h.service.AddSongToPlaylist(c.Request.Context(), playlistID, songID, userID, common.GetUserRoleFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Song added to playlist.", ToPlaylistResponse(playlist, true))
}

func (h *Handler) removeSong(c *gin.Context) {
	playlistID, userID, ok := h.parseIDs(c)
	if !ok {
		return
	}
	songID, err := uuid.Parse(c.Param("songID"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid song ID format."))
		return
	}

	playlist, err := h.service.RemoveSongFromPlaylist(c.Request.Context(), playlistID, songID, userID, common.GetUserRoleFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Song removed from playlist.", ToPlaylistResponse(playlist, true))
}

func (h *Handler) parseIDs(c *gin.Context) (playlistID, userID uuid.UUID, ok bool) {
	playlistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid playlist ID format."))
		return uuid.Nil, uuid.Nil, false
	}
	userID = common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User ID not found."))
		return uuid.Nil, uuid.Nil, false
	}
	return playlistID, userID, true
}
