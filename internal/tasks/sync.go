package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/weread-readwise/internal/entities"
	"github.com/mrlokans/weread-readwise/internal/logger"
	"github.com/mrlokans/weread-readwise/internal/services"
)

const SyncQueueName = "weread_sync"

// SyncRunner executes one sync run.
type SyncRunner interface {
	Run(ctx context.Context, opts services.RunOptions) (*entities.SyncResult, error)
}

// SyncTask asks for one WeRead to Readwise sync.
type SyncTask struct {
	Trigger    entities.SyncTrigger `json:"trigger"`
	DryRun     bool                 `json:"dry_run"`
	RecentDays int                  `json:"recent_days"`
}

// Config returns the queue configuration for sync tasks. Runs are never
// retried; the next trigger starts a fresh run.
func (t SyncTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        SyncQueueName,
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     DefaultConfig().TaskTimeout,
		Retention: &backlite.Retention{
			Duration:   7 * 24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SyncProcessor creates a processor function for SyncTask. timeout bounds a
// single run when positive.
func SyncProcessor(runner SyncRunner, timeout time.Duration, log logger.Logger) backlite.QueueProcessor[SyncTask] {
	if log == nil {
		log = logger.NewNop()
	}
	return func(ctx context.Context, task SyncTask) error {
		if runner == nil {
			return fmt.Errorf("sync runner not configured")
		}
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		result, err := runner.Run(ctx, services.RunOptions{
			Trigger:    task.Trigger,
			DryRun:     task.DryRun,
			RecentDays: task.RecentDays,
		})
		if err != nil {
			return fmt.Errorf("sync run: %w", err)
		}

		log.Info("sync task finished",
			logger.String("run_id", result.RunID),
			logger.Int("posted", result.Posted),
			logger.Int("failed_books", result.FailedBooks),
		)
		return nil
	}
}

// NewSyncQueue creates a backlite queue for sync tasks.
func NewSyncQueue(runner SyncRunner, timeout time.Duration, log logger.Logger) backlite.Queue {
	return backlite.NewQueue(SyncProcessor(runner, timeout, log))
}
