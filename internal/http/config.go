package http

import (
	"context"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mrlokans/weread-readwise/internal/entities"
	"github.com/mrlokans/weread-readwise/internal/logger"
	"github.com/mrlokans/weread-readwise/internal/services"
)

// SyncTrigger queues sync runs and reports the schedule.
type SyncTrigger interface {
	Enqueue(trigger entities.SyncTrigger, dryRun bool) (string, error)
	Schedule() string
	NextRun() *time.Time
}

// SyncStatusReader exposes the in-memory state of the latest run.
type SyncStatusReader interface {
	Status() services.SyncStatus
}

// HistoryReader lists journaled runs, newest first.
type HistoryReader interface {
	GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error)
}

// TaskStatusReader looks up queued tasks.
type TaskStatusReader interface {
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// Pinger is a dependency the health endpoint can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a plain function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// RouterConfig holds the dependencies of the HTTP router. Optional
// dependencies left nil disable the routes that need them.
type RouterConfig struct {
	Version string
	Logger  logger.Logger

	// APIToken guards every /api route. Empty rejects all API calls.
	APIToken string

	// Checks are probed by /health, keyed by component name.
	Checks map[string]Pinger

	Tracker   SyncStatusReader
	Scheduler SyncTrigger
	History   HistoryReader
	Tasks     TaskStatusReader

	// Gatherer backs /metrics. Defaults to the global registry.
	Gatherer prometheus.Gatherer
}
