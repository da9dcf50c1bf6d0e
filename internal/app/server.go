// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"music_library_backend/internal/auth"
	"music_library_backend/internal/common"
	"music_library_backend/internal/config"
	"music_library_backend/internal/dashboard"
	"music_library_backend/internal/favorite"
	"music_library_backend/internal/jobs"
	"music_library_backend/internal/middleware"
	platformES "music_library_backend/internal/platform/elasticsearch"
	"music_library_backend/internal/playlist"
	"music_library_backend/internal/shared"
	"music_library_backend/internal/song"
	"music_library_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config

	// Exported for the sync CLI and startup index setup in cmd/server.
	AppLogger *zap.Logger
	ESClient  *platformES.ESClientWrapper
	DB        *gorm.DB

	// Handlers
	authHandler      *auth.Handler
	userHandler      *user.Handler
	songHandler      *song.Handler
	favoriteHandler  *favorite.Handler
	playlistHandler  *playlist.Handler
	dashboardHandler *dashboard.Handler

	// Jobs
	songIndexSyncJob *jobs.SongIndexSyncJob

	// Middleware instances
	authMW      gin.HandlerFunc
	adminRoleMW gin.HandlerFunc
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	songHandler *song.Handler,
	favoriteHandler *favorite.Handler,
	playlistHandler *playlist.Handler,
	dashboardHandler *dashboard.Handler,
	songIndexSyncJob *jobs.SongIndexSyncJob,
	tokenService shared.TokenService,
	db *gorm.DB,
	esClient *platformES.ESClientWrapper,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS: the session travels in a cookie, so the allowed origin must be
	// the exact frontend origin and credentials must be allowed. A wildcard
	// origin with credentials is rejected by browsers.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// Create middleware instances
	authMW := middleware.AuthMiddleware(cfg, tokenService, logger.Named("AuthMiddleware"))
	adminRoleMW := middleware.RoleAuthMiddleware(common.RoleAdmin)

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Music Library API is healthy!"})
	})

	v1 := router.Group("/api/v1")

	authHandler.RegisterRoutes(v1)
	userHandler.RegisterRoutes(v1, authMW)
	songHandler.RegisterRoutes(v1, authMW)
	favoriteHandler.RegisterRoutes(v1, authMW)
	playlistHandler.RegisterRoutes(v1, authMW)
	dashboardHandler.RegisterRoutes(v1, authMW)

	// Maintenance surface, restricted to admins.
	adminGroup := v1.Group("/admin")
	adminGroup.Use(authMW, adminRoleMW)
	songHandler.RegisterAdminRoutes(adminGroup)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:       httpServer,
		router:           router,
		cfg:              cfg,
		AppLogger:        logger,
		ESClient:         esClient,
		DB:               db,
		authHandler:      authHandler,
		userHandler:      userHandler,
		songHandler:      songHandler,
		favoriteHandler:  favoriteHandler,
		playlistHandler:  playlistHandler,
		dashboardHandler: dashboardHandler,
		songIndexSyncJob: songIndexSyncJob,
		authMW:           authMW,
		adminRoleMW:      adminRoleMW,
	}, nil
}

func (s *Server) Start() error {
	if s.songIndexSyncJob != nil {
		if err := s.songIndexSyncJob.SetupAndStart(); err != nil {
			s.AppLogger.Error("Failed to setup and start song index sync job", zap.Error(err))
		}
	} else {
		s.AppLogger.Info("Song index sync job is not configured, skipping start.")
	}

	s.AppLogger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.AppLogger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.AppLogger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.AppLogger.Info("Attempting graceful server shutdown...")
	if s.songIndexSyncJob != nil {
		s.songIndexSyncJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
