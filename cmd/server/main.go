package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finsight/advisor/internal/config"
	"github.com/finsight/advisor/internal/database"
	"github.com/finsight/advisor/internal/database/repositories"
	"github.com/finsight/advisor/internal/events"
	"github.com/finsight/advisor/internal/modules/scoring"
	"github.com/finsight/advisor/internal/modules/scoring/api"
	"github.com/finsight/advisor/internal/scheduler"
	"github.com/finsight/advisor/internal/server"
	"github.com/finsight/advisor/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting advisor")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Build the scoring engine, with optional YAML overrides
	scoringCfg := scoring.DefaultConfig()
	if cfg.ScoringConfigPath != "" {
		scoringCfg, err = scoring.LoadConfig(cfg.ScoringConfigPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.ScoringConfigPath).Msg("Failed to load scoring config")
		}
	}

	engine, err := scoring.NewEngine(scoringCfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build scoring engine")
	}

	eventManager := events.NewManager(log)
	repo := repositories.NewRecommendationRepository(db.Conn(), log)

	// Initialize scheduler
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	maintenance := scheduler.NewHistoryMaintenanceJob(scheduler.HistoryMaintenanceConfig{
		Log:       log,
		DB:        db,
		Repo:      repo,
		Events:    eventManager,
		Retention: cfg.HistoryRetention,
	})

	// Daily at 03:30
	if err := sched.AddJob("0 30 3 * * *", maintenance); err != nil {
		log.Fatal().Err(err).Msg("Failed to register maintenance job")
	}

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:    cfg.Port,
		Log:     log,
		DB:      db,
		Scoring: api.NewHandlers(engine, repo, eventManager, log),
		DevMode: cfg.DevMode,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
