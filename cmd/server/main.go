// File: cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log" // Standard log for critical startup/shutdown messages before/after zap is active
	"os"
	"os/signal"
	"strings"
	"syscall"

	"music_library_backend/internal/config"
	"music_library_backend/internal/favorite"
	"music_library_backend/internal/platform/database"
	platformElasticsearch "music_library_backend/internal/platform/elasticsearch"
	"music_library_backend/internal/platform/logger"
	"music_library_backend/internal/playlist"
	"music_library_backend/internal/song"
	"music_library_backend/internal/song/esutil"
	"music_library_backend/internal/user"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	syncSongsCmd := flag.NewFlagSet("sync-songs", flag.ExitOnError)
	batchSize := syncSongsCmd.Int("batch-size", 100, "Batch size for syncing songs")
	esRefresh := syncSongsCmd.String("es-refresh", "false", "Elasticsearch refresh policy (true, false, wait_for)")

	if len(os.Args) > 1 && os.Args[1] == "sync-songs" {
		syncSongsCmd.Parse(os.Args[2:])

		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("FATAL: Failed to load configuration for sync: %v", err)
		}
		appLogger, err := logger.New(cfg)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize logger for sync: %v", err)
		}
		db, err := database.NewGORM(cfg)
		if err != nil {
			appLogger.Fatal("FATAL: Failed to initialize database for sync", zap.Error(err))
		}
		sqlDB, _ := db.DB()
		defer sqlDB.Close()

		esClient, err := platformElasticsearch.NewClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("FATAL: Failed to initialize Elasticsearch client for sync", zap.Error(err))
		}
		if !esClient.Enabled() {
			appLogger.Fatal("FATAL: Elasticsearch client is not configured, ensure ELASTICSEARCH_URL is set.")
		}

		// Ensure index exists before syncing
		if err := platformElasticsearch.CreateSongsIndexIfNotExists(esClient, appLogger); err != nil {
			appLogger.Fatal("FATAL: Failed to create/verify Elasticsearch index before sync", zap.Error(err))
		}

		songRepo := song.NewGORMRepository(db)

		if err := runSongSync(songRepo, esClient, appLogger, *batchSize, *esRefresh); err != nil {
			appLogger.Fatal("FATAL: Song synchronization failed", zap.Error(err))
		}
		appLogger.Info("Song synchronization completed successfully.")
		return
	}

	startServer()
}

func provideCleanup(appLogger *zap.Logger, db *gorm.DB) func() {
	return func() {
		appLogger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := appLogger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	if err := database.AutoMigrate(server.DB,
		&user.User{},
		&song.Song{},
		&favorite.Favorite{},
		&playlist.Playlist{},
		&playlist.PlaylistSong{},
	); err != nil {
		server.AppLogger.Fatal("FATAL: Database migration failed", zap.Error(err))
	}

	if server.ESClient.Enabled() {
		if err := platformElasticsearch.CreateSongsIndexIfNotExists(server.ESClient, server.AppLogger); err != nil {
			server.AppLogger.Error("Failed to create Elasticsearch songs index; search will fall back to the database.", zap.Error(err))
		}
	} else {
		server.AppLogger.Info("Elasticsearch client not configured, skipping index creation.")
	}

	go func() {
		if err := server.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}

// runSongSync performs the batch synchronization of songs to Elasticsearch
// using the Bulk API.
func runSongSync(
	songRepo song.Repository,
	esClient *platformElasticsearch.ESClientWrapper,
	logger *zap.Logger,
	batchSize int,
	esRefresh string,
) error {
	total, err := songRepo.Count(context.Background())
	if err != nil {
		return fmt.Errorf("failed to count songs before sync: %w", err)
	}
	logger.Info("Starting song synchronization to Elasticsearch...",
		zap.Int64("totalSongs", total),
		zap.Int("batchSize", batchSize),
		zap.String("esRefreshPolicy", esRefresh),
	)

	offset := 0
	totalSynced := 0
	totalFailed := 0
	batchNumber := 1

	for {
		logger.Info("Fetching batch of songs...", zap.Int("batchNumber", batchNumber), zap.Int("offset", offset), zap.Int("limit", batchSize))
		songs, err := songRepo.FindBatch(context.Background(), offset, batchSize)
		if err != nil {
			logger.Error("Failed to fetch batch of songs", zap.Error(err), zap.Int("batchNumber", batchNumber))
			return fmt.Errorf("failed to fetch batch %d: %w", batchNumber, err)
		}
		if len(songs) == 0 {
			logger.Info("No more songs to sync.")
			break
		}

		var bulkRequestBody strings.Builder
		currentBatchIDs := make([]string, 0, len(songs))

		for i := range songs {
			s := &songs[i]
			currentBatchIDs = append(currentBatchIDs, s.ID.String())
			docJSON, errDoc := esutil.SongToElasticsearchDoc(s)
			if errDoc != nil {
				logger.Error("Failed to convert song to Elasticsearch document",
					zap.String("songID", s.ID.String()),
					zap.Error(errDoc),
				)
				totalFailed++
				continue
			}

			action := fmt.Sprintf(`{ "index" : { "_index" : "%s", "_id" : "%s" } }%s`, platformElasticsearch.SongsIndexName, s.ID.String(), "\n")
			bulkRequestBody.WriteString(action)
			bulkRequestBody.WriteString(docJSON)
			bulkRequestBody.WriteString("\n")
		}

		if bulkRequestBody.Len() == 0 {
			logger.Info("No documents to index in current batch, possibly due to conversion errors.", zap.Int("batchNumber", batchNumber))
			offset += len(songs)
			batchNumber++
			continue
		}

		logger.Info("Sending bulk request to Elasticsearch", zap.Int("batchNumber", batchNumber), zap.Int("documentCount", len(currentBatchIDs)))

		req := esapi.BulkRequest{
			Body:    strings.NewReader(bulkRequestBody.String()),
			Refresh: esRefresh,
		}
		res, errBulk := req.Do(context.Background(), esClient.Client)
		if errBulk != nil {
			logger.Error("Failed to send bulk request to Elasticsearch", zap.Error(errBulk), zap.Int("batchNumber", batchNumber))
			totalFailed += len(currentBatchIDs)
			offset += len(songs)
			batchNumber++
			continue
		}

		batchSynced, batchFailed := parseBulkResponse(res, currentBatchIDs, logger, batchNumber)
		res.Body.Close()

		totalSynced += batchSynced
		totalFailed += batchFailed
		logger.Info("Batch processed.",
			zap.Int("batchNumber", batchNumber),
			zap.Int("syncedInBatch", batchSynced),
			zap.Int("failedInBatch", batchFailed),
		)

		offset += len(songs)
		batchNumber++
	}

	logger.Info("Song synchronization process finished.",
		zap.Int("totalSongsSyncedSuccessfully", totalSynced),
		zap.Int("totalSongsFailed", totalFailed),
	)
	if totalFailed > 0 {
		return fmt.Errorf("%d songs failed to sync", totalFailed)
	}
	return nil
}

// parseBulkResponse inspects a bulk response for item-level failures. A bulk
// call can succeed overall while individual documents are rejected.
func parseBulkResponse(res *esapi.Response, batchIDs []string, logger *zap.Logger, batchNumber int) (synced, failed int) {
	if res.IsError() {
		logger.Error("Elasticsearch bulk request returned an error", zap.String("status", res.Status()), zap.Int("batchNumber", batchNumber))
		return 0, len(batchIDs)
	}

	var bulkResponse struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				ID     string                 `json:"_id"`
				Status int                    `json:"status"`
				Error  map[string]interface{} `json:"error,omitempty"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulkResponse); err != nil {
		logger.Error("Failed to parse Elasticsearch bulk response body", zap.Error(err), zap.Int("batchNumber", batchNumber))
		return 0, len(batchIDs)
	}

	for _, item := range bulkResponse.Items {
		if item.Index.Error != nil {
			logger.Error("Failed to index document in bulk batch",
				zap.String("songID", item.Index.ID),
				zap.Any("error", item.Index.Error),
				zap.Int("status", item.Index.Status),
			)
			failed++
		} else {
			synced++
		}
	}
	return synced, failed
}
