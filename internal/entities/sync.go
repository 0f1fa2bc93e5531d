package entities

import "time"

// SyncTrigger names what started a run.
type SyncTrigger string

const (
	TriggerCLI      SyncTrigger = "cli"
	TriggerSchedule SyncTrigger = "schedule"
	TriggerAPI      SyncTrigger = "api"
)

// BookError is a per-book failure. The run continues without that book.
type BookError struct {
	BookID string `json:"book_id"`
	Title  string `json:"title"`
	Error  string `json:"error"`
}

// SyncResult summarizes one run.
type SyncResult struct {
	RunID      string      `json:"run_id"`
	Trigger    SyncTrigger `json:"trigger"`
	DryRun     bool        `json:"dry_run"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`

	Books       int `json:"books"`
	FailedBooks int `json:"failed_books"`
	Highlights  int `json:"highlights"`
	Notes       int `json:"notes"`
	Total       int `json:"total"`
	Posted      int `json:"posted"`
	Chunks      int `json:"chunks"`

	BookErrors []BookError `json:"book_errors,omitempty"`
	// Snapshot is the audit file holding the preview payload, if one was written.
	Snapshot string `json:"snapshot,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Duration is the wall time of the run.
func (r *SyncResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
