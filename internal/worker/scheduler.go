package worker

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultReminderSchedule runs the reminder check every minute so the
// morning and evening windows are observed promptly after they open.
const DefaultReminderSchedule = "@every 1m"

// Scheduler runs recurring jobs on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	jobs   *Jobs
	logger zerolog.Logger
}

// SchedulerConfig holds configuration for the scheduler.
type SchedulerConfig struct {
	Jobs *Jobs

	// ReminderSchedule overrides the reminder check cadence.
	// Default: DefaultReminderSchedule
	ReminderSchedule string

	Logger zerolog.Logger
}

// NewScheduler creates a scheduler with the reminder check registered.
func NewScheduler(cfg SchedulerConfig) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		jobs:   cfg.Jobs,
		logger: cfg.Logger.With().Str("component", "scheduler").Logger(),
	}

	schedule := cfg.ReminderSchedule
	if schedule == "" {
		schedule = DefaultReminderSchedule
	}

	if _, err := s.cron.AddFunc(schedule, s.runReminderCheck); err != nil {
		return nil, fmt.Errorf("scheduling reminder check: %w", err)
	}

	return s, nil
}

// Start begins executing scheduled jobs in the background.
func (s *Scheduler) Start() {
	s.logger.Info().Msg("starting scheduler")
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("scheduler stopped")
}

func (s *Scheduler) runReminderCheck() {
	if err := s.jobs.Run(context.Background(), JobMessage{JobType: JobReminderCheck}); err != nil {
		s.logger.Error().Err(err).Msg("reminder check failed")
	}
}
