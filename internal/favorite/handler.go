// File: internal/favorite/handler.go
package favorite

import (
	"music_library_backend/internal/common"
	"music_library_backend/internal/song"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for favorite handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new favorite handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for favorite operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	favoriteGroup := router.Group("/favorites")
	favoriteGroup.Use(authMW)
	{
		favoriteGroup.GET("", h.getFavorites)
		favoriteGroup.PUT("/:songID", h.toggleFavorite)
	}
}

func (h *Handler) toggleFavorite(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User ID not found."))
		return
	}

	songID, err := uuid.Parse(c.Param("songID"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid song ID format."))
		return
	}

	result, err := h.service.ToggleFavorite(c.Request.Context(), userID, songID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	message := "Song removed from favorites."
	if result.Favorited {
		message = "Song added to favorites."
	}
	common.RespondOK(c, message, result)
}

func (h *Handler) getFavorites(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User ID not found."))
		return
	}

	page, pageSize := common.GetPaginationParams(c)
	favorites, pagination, err := h.service.GetFavorites(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]FavoriteSongResponse, 0, len(favorites))
	for i := range favorites {
		if favorites[i].Song == nil {
			continue
		}
		responses = append(responses, FavoriteSongResponse{
			Song:        song.ToSongResponse(favorites[i].Song),
			FavoritedAt: favorites[i].CreatedAt,
		})
	}
	common.RespondPaginated(c, "Favorites retrieved successfully.", responses, pagination)
}
