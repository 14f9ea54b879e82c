package scheduler

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/advisor/internal/database"
	"github.com/finsight/advisor/internal/database/repositories"
	"github.com/finsight/advisor/internal/events"
)

// HistoryMaintenanceJob checks database integrity and prunes stored
// recommendations past their retention window
type HistoryMaintenanceJob struct {
	log       zerolog.Logger
	db        *database.DB
	repo      *repositories.RecommendationRepository
	events    *events.Manager
	retention time.Duration
}

// HistoryMaintenanceConfig holds configuration for the maintenance job
type HistoryMaintenanceConfig struct {
	Log       zerolog.Logger
	DB        *database.DB
	Repo      *repositories.RecommendationRepository
	Events    *events.Manager
	Retention time.Duration
}

// NewHistoryMaintenanceJob creates a new history maintenance job
func NewHistoryMaintenanceJob(cfg HistoryMaintenanceConfig) *HistoryMaintenanceJob {
	retention := cfg.Retention
	if retention <= 0 {
		retention = 90 * 24 * time.Hour
	}

	return &HistoryMaintenanceJob{
		log:       cfg.Log.With().Str("job", "history_maintenance").Logger(),
		db:        cfg.DB,
		repo:      cfg.Repo,
		events:    cfg.Events,
		retention: retention,
	}
}

// Name returns the job name
func (j *HistoryMaintenanceJob) Name() string {
	return "history_maintenance"
}

// Run executes the maintenance pass
func (j *HistoryMaintenanceJob) Run() error {
	startTime := time.Now()

	if err := j.checkIntegrity(); err != nil {
		j.log.Error().Err(err).Msg("Database integrity check failed")
		return err
	}

	removed, err := j.repo.PruneOlderThan(j.retention)
	if err != nil {
		return fmt.Errorf("failed to prune recommendation history: %w", err)
	}

	if removed > 0 && j.events != nil {
		j.events.Emit(events.HistoryPruned, "scheduler", map[string]interface{}{
			"removed":        removed,
			"retention_days": int(j.retention.Hours() / 24),
		})
	}

	// Checkpoint the WAL so pruned pages are reclaimed
	if _, err := j.db.Exec("PRAGMA wal_checkpoint(PASSIVE)"); err != nil {
		j.log.Warn().Err(err).Msg("WAL checkpoint failed")
	}

	j.log.Info().
		Int64("removed", removed).
		Dur("duration", time.Since(startTime)).
		Msg("History maintenance completed")

	return nil
}

func (j *HistoryMaintenanceJob) checkIntegrity() error {
	var result string
	if err := j.db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check query failed: %w", err)
	}

	if result != "ok" {
		return fmt.Errorf("integrity check returned: %s", result)
	}

	return nil
}
