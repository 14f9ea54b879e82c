package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a named unit of background work
type Job interface {
	Run() error
	Name() string
}

// Scheduler runs registered jobs on cron schedules
type Scheduler struct {
	cron *cron.Cron
	jobs []string
	log  zerolog.Logger
}

// New creates a new scheduler
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// AddJob registers a job under a six-field cron expression
// (seconds first), e.g. "0 30 3 * * *" for daily at 03:30
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		log := s.log.With().Str("job", job.Name()).Logger()
		log.Debug().Msg("Job starting")

		if err := job.Run(); err != nil {
			log.Error().Err(err).Msg("Job failed")
			return
		}
		log.Debug().Msg("Job finished")
	})
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", job.Name(), err)
	}

	s.jobs = append(s.jobs, job.Name())
	s.log.Info().
		Str("job", job.Name()).
		Str("schedule", schedule).
		Msg("Job registered")

	return nil
}

// Start begins executing registered jobs
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.jobs)).Msg("Scheduler started")
}

// Stop halts scheduling and waits for any running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("Scheduler stopped")
}
