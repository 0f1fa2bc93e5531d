package services

import (
	"sync"
	"time"

	"github.com/mrlokans/weread-readwise/internal/entities"
)

// SyncStatus is a point-in-time view of the tracker.
type SyncStatus struct {
	Running       bool                 `json:"running"`
	Current       *entities.SyncResult `json:"current,omitempty"`
	Last          *entities.SyncResult `json:"last,omitempty"`
	LastSuccessAt *time.Time           `json:"last_success_at,omitempty"`
	Runs          int                  `json:"runs"`
}

// StatusTracker keeps the latest run in memory for the status endpoint.
// A nil tracker ignores updates and reports an empty status.
type StatusTracker struct {
	mu            sync.RWMutex
	current       *entities.SyncResult
	last          *entities.SyncResult
	lastSuccessAt time.Time
	runs          int
}

func NewStatusTracker() *StatusTracker {
	return &StatusTracker{}
}

// Start marks a run as in progress.
func (t *StatusTracker) Start(result *entities.SyncResult) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := *result
	t.current = &cp
}

// Finish records a completed run, successful or not.
func (t *StatusTracker) Finish(result *entities.SyncResult) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := *result
	t.current = nil
	t.last = &cp
	t.runs++
	if result.Error == "" {
		t.lastSuccessAt = result.FinishedAt
	}
}

// Status returns a copy of the tracked state.
func (t *StatusTracker) Status() SyncStatus {
	if t == nil {
		return SyncStatus{}
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	status := SyncStatus{
		Running: t.current != nil,
		Current: t.current,
		Last:    t.last,
		Runs:    t.runs,
	}
	if !t.lastSuccessAt.IsZero() {
		at := t.lastSuccessAt
		status.LastSuccessAt = &at
	}
	return status
}
