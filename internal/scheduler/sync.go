package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/weread-readwise/internal/entities"
	"github.com/mrlokans/weread-readwise/internal/logger"
	"github.com/mrlokans/weread-readwise/internal/metrics"
	"github.com/mrlokans/weread-readwise/internal/tasks"
)

// Enqueuer persists a task for the worker pool.
type Enqueuer interface {
	Enqueue(task backlite.Task) (string, error)
}

// Options configure what a scheduled run does.
type Options struct {
	Schedule   string
	DryRun     bool
	RecentDays int
	// AuditRetentionDays > 0 queues a journal cleanup with every tick.
	AuditRetentionDays int
}

// SyncScheduler queues a sync task on a cron schedule. It never runs a sync
// itself, so overlapping ticks cannot start concurrent runs.
type SyncScheduler struct {
	queue   Enqueuer
	opts    Options
	metrics *metrics.Metrics
	log     logger.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewSyncScheduler creates a new scheduler instance
func NewSyncScheduler(queue Enqueuer, opts Options, m *metrics.Metrics, log logger.Logger) *SyncScheduler {
	if log == nil {
		log = logger.NewNop()
	}
	return &SyncScheduler{
		queue:   queue,
		opts:    opts,
		metrics: m,
		log:     log.With(logger.String("component", "scheduler")),
		cron:    cron.New(cron.WithParser(parser)),
	}
}

// Start registers the cron job and begins ticking. Cancelling ctx stops it.
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.opts.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.opts.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.opts.Schedule, s.tick)
	if err != nil {
		return fmt.Errorf("failed to schedule sync job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := GetNextRunTime(s.opts.Schedule)
	s.log.Info("sync scheduler started",
		logger.String("schedule", s.opts.Schedule),
		logger.String("description", GetCronDescription(s.opts.Schedule)),
		logger.Time("next_run", *nextRun),
	)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *SyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	s.isRunning = false

	s.log.Info("sync scheduler stopped")
}

// IsRunning returns whether the scheduler is active
func (s *SyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next sync will be queued, or nil when stopped.
func (s *SyncScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// Schedule returns the configured cron expression.
func (s *SyncScheduler) Schedule() string {
	return s.opts.Schedule
}

// Enqueue queues a sync now with the scheduler's options.
func (s *SyncScheduler) Enqueue(trigger entities.SyncTrigger, dryRun bool) (string, error) {
	id, err := s.queue.Enqueue(tasks.SyncTask{
		Trigger:    trigger,
		DryRun:     dryRun,
		RecentDays: s.opts.RecentDays,
	})
	if err != nil {
		return "", err
	}
	s.metrics.ObserveEnqueue(string(trigger))
	s.log.Info("sync queued", logger.String("task_id", id), logger.String("trigger", string(trigger)))
	return id, nil
}

// EnqueueCleanup queues a journal cleanup when retention is configured.
func (s *SyncScheduler) EnqueueCleanup() {
	if s.opts.AuditRetentionDays <= 0 {
		return
	}
	if _, err := s.queue.Enqueue(tasks.CleanupAuditEventsTask{RetentionDays: s.opts.AuditRetentionDays}); err != nil {
		s.log.Warn("failed to queue audit cleanup", logger.Error(err))
	}
}

func (s *SyncScheduler) tick() {
	if _, err := s.Enqueue(entities.TriggerSchedule, s.opts.DryRun); err != nil {
		s.log.Error("failed to queue scheduled sync", logger.Error(err))
	}
	s.EnqueueCleanup()
}
