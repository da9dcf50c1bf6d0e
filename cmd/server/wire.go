// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"music_library_backend/internal/app"
	"music_library_backend/internal/auth"
	"music_library_backend/internal/config"
	"music_library_backend/internal/dashboard"
	"music_library_backend/internal/favorite"
	"music_library_backend/internal/jobs"
	"music_library_backend/internal/platform/database"
	"music_library_backend/internal/platform/elasticsearch"
	"music_library_backend/internal/platform/logger"
	"music_library_backend/internal/playlist"
	"music_library_backend/internal/shared"
	"music_library_backend/internal/song"
	"music_library_backend/internal/user"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		elasticsearch.NewClient,

		// Core User Services
		user.NewGORMRepository,
		user.NewService,
		wire.Bind(new(shared.Service), new(*user.ServiceImplementation)),
		wire.Bind(new(shared.OAuthUserProvider), new(*user.ServiceImplementation)),

		// Auth
		auth.NewJWTService,
		auth.NewOAuthService,
		auth.NewHandler,
		user.NewHandler,

		// Domain Modules
		song.NewGORMRepository,
		song.NewService,
		song.NewHandler,
		favorite.NewGORMRepository,
		favorite.NewService,
		favorite.NewHandler,
		playlist.NewGORMRepository,
		playlist.NewService,
		playlist.NewHandler,
		dashboard.NewGORMRepository,
		dashboard.NewService,
		dashboard.NewHandler,
		jobs.NewSongIndexSyncJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
