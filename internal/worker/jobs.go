// Package worker provides background job processing for Wanderlist.
package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wanderlist/wanderlist/internal/backup"
)

// Job types dispatched by the worker.
const (
	JobReminderCheck = "reminder_check"
	JobCloudBackup   = "cloud_backup"
)

// ErrUnknownJob is returned when a job message names a type the worker
// does not handle.
var ErrUnknownJob = errors.New("worker: unknown job type")

// JobMessage is the payload published for a background job.
type JobMessage struct {
	JobType string `json:"job_type"`
	UserID  string `json:"user_id,omitempty"`
}

// ReminderChecker evaluates the scheduled reminder windows for a user.
type ReminderChecker interface {
	Check(ctx context.Context, userID string) error
}

// BackupRunner captures a snapshot of a user's items.
type BackupRunner interface {
	Run(ctx context.Context, userID string) (*backup.Snapshot, error)
}

// Jobs executes background job messages against the application services.
type Jobs struct {
	reminders ReminderChecker
	backups   BackupRunner
	userID    string
	logger    zerolog.Logger
}

// JobsConfig holds dependencies for the job runner.
type JobsConfig struct {
	Reminders ReminderChecker
	Backups   BackupRunner

	// DefaultUserID is used when a job message carries no user.
	DefaultUserID string

	Logger zerolog.Logger
}

// NewJobs creates a new job runner.
func NewJobs(cfg JobsConfig) *Jobs {
	return &Jobs{
		reminders: cfg.Reminders,
		backups:   cfg.Backups,
		userID:    cfg.DefaultUserID,
		logger:    cfg.Logger.With().Str("component", "jobs").Logger(),
	}
}

// Run executes a single job message.
func (j *Jobs) Run(ctx context.Context, msg JobMessage) error {
	userID := msg.UserID
	if userID == "" {
		userID = j.userID
	}

	switch msg.JobType {
	case JobReminderCheck:
		if err := j.reminders.Check(ctx, userID); err != nil {
			return fmt.Errorf("reminder check: %w", err)
		}
		return nil
	case JobCloudBackup:
		snap, err := j.backups.Run(ctx, userID)
		if err != nil {
			return fmt.Errorf("cloud backup: %w", err)
		}
		j.logger.Info().
			Str("backup_id", snap.ID).
			Int("items", len(snap.Items)).
			Msg("cloud backup completed")
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownJob, msg.JobType)
	}
}
