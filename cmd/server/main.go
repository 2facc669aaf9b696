// Package main is the entry point for the portfolio temperature scoring
// service. It scores company greenhouse-gas reduction targets against a
// regression reference model and aggregates the results into portfolio-level
// figures over an HTTP API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carbonview/tempscore/internal/config"
	"github.com/carbonview/tempscore/internal/database"
	"github.com/carbonview/tempscore/internal/modules/provider"
	"github.com/carbonview/tempscore/internal/modules/reference"
	"github.com/carbonview/tempscore/internal/modules/scoring"
	"github.com/carbonview/tempscore/internal/scheduler"
	"github.com/carbonview/tempscore/internal/server"
	"github.com/carbonview/tempscore/pkg/logger"
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

	// Reference datasets. Missing files are tolerated at startup so the
	// service can come up before the first S3 refresh has run.
	store := reference.NewStore(log)
	if err := store.LoadFromFiles(cfg.PathwayMappingFile, cfg.RegressionFile); err != nil {
		log.Warn().Err(err).Msg("Reference datasets not loaded at startup")
	}

	// Provider database with company and target records.
	db, err := database.New(database.Config{Path: cfg.ProviderDB, Name: "portfolio"})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open provider database")
	}
	defer db.Close()

	dataProvider, err := provider.NewSQLiteProvider(db.Conn(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize data provider")
	}

	// Optional scheduled refresh of the reference datasets from S3.
	var jobs *scheduler.Scheduler
	if cfg.S3Bucket != "" && cfg.RefreshSchedule != "" {
		fetcher, err := reference.NewS3Fetcher(context.Background(), reference.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 fetcher")
		}

		refresh := reference.NewRefreshJob(fetcher, store,
			cfg.S3RegressionKey, cfg.S3MappingKey,
			cfg.RegressionFile, cfg.PathwayMappingFile, log)

		jobs = scheduler.New(log)
		if err := jobs.AddJob(cfg.RefreshSchedule, refresh); err != nil {
			log.Fatal().Err(err).Msg("Failed to register refresh job")
		}
		jobs.Start()
		defer jobs.Stop()

		// Fetch once at startup when nothing was loaded from disk.
		if store.RegressionTable(cfg.Model).Len() == 0 {
			if err := refresh.Run(); err != nil {
				log.Warn().Err(err).Msg("Initial reference refresh failed")
			}
		}
	}

	srv := server.New(server.Config{
		Log:      log,
		Config:   cfg,
		Store:    store,
		Provider: dataProvider,
		Dumps:    scoring.NewDumpWriter(cfg.DataDir+"/dumps", log),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("Server failed")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}
}
