// Package main is the entry point for the TalentWatch workforce-intelligence
// dashboard. It wires the dataset store, the refresh scheduler, and the HTTP
// server around the pure analytics engine.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/talentwatch/internal/config"
	"github.com/aristath/talentwatch/internal/database"
	"github.com/aristath/talentwatch/internal/modules/dataset"
	"github.com/aristath/talentwatch/internal/modules/skills"
	"github.com/aristath/talentwatch/internal/server"
	"github.com/aristath/talentwatch/pkg/logger"
	"github.com/aristath/talentwatch/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting TalentWatch")

	db, err := database.New(database.Config{
		Path: cfg.DatabasePath(),
		Name: "dataset",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open dataset database")
	}
	defer db.Close()

	repo, err := dataset.NewRepository(db.Conn(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize dataset repository")
	}

	m := metrics.New()

	ds := dataset.NewService(repo, log)
	if err := ds.Refresh(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load dataset snapshot")
	}
	m.DatasetRecords.Set(float64(ds.Stats().Records))

	vocab, err := skills.LoadVocabulary(cfg.VocabularyPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.VocabularyPath).Msg("Failed to load skill vocabulary")
	}

	// Optional S3 export source; without it the scheduler only re-reads the
	// local store.
	var source *dataset.S3Source
	s3cfg := dataset.S3Config{
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		Key:             cfg.S3Key,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
	}
	if s3cfg.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		source, err = dataset.NewS3Source(ctx, s3cfg, log)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to configure S3 export source")
		}
		log.Info().Str("bucket", cfg.S3Bucket).Str("key", cfg.S3Key).Msg("S3 export source configured")
	}

	sched, err := dataset.NewScheduler(ds, source, cfg.RefreshCron, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create refresh scheduler")
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:        log,
		Cfg:        cfg,
		Dataset:    ds,
		Metrics:    m,
		Vocabulary: vocab,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("Server exited with error")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	log.Info().Msg("TalentWatch stopped")
}
