// File: internal/jobs/song_index_sync.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"music_library_backend/internal/config"
	"music_library_backend/internal/song"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SongIndexSyncJob periodically reconciles the Elasticsearch songs index
// with the database. Per-write indexing is best-effort, so this job is the
// catch-up path for anything that was missed.
type SongIndexSyncJob struct {
	songService   song.Service
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewSongIndexSyncJob creates a new SongIndexSyncJob.
func NewSongIndexSyncJob(
	songService song.Service,
	logger *zap.Logger,
	cfg *config.Config,
) *SongIndexSyncJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &SongIndexSyncJob{
		songService:   songService,
		logger:        logger.Named("SongIndexSyncJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *SongIndexSyncJob) SetupAndStart() error {
	jobSpec := j.cfg.SongIndexSyncSchedule // e.g., "@hourly", "0 3 * * *"
	if jobSpec == "" {
		j.logger.Warn("Song index sync schedule not defined (SONG_INDEX_SYNC_SCHEDULE). Job will not run.")
		return nil // Not a fatal error, just won't run
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule song index sync job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Song index sync job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *SongIndexSyncJob) runJob() {
	j.logger.Info("Starting song index sync job run...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	indexedCount, err := j.songService.ReindexAllSongs(ctx)
	if err != nil {
		j.logger.Error("Song index sync job run failed", zap.Error(err))
	} else {
		j.logger.Info("Song index sync job run completed", zap.Int("songs_indexed", indexedCount))
	}
}

// Stop gracefully stops the cron scheduler.
func (j *SongIndexSyncJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping song index sync job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Song index sync job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Song index sync job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Info(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
