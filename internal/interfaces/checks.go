package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/weread-readwise/internal/audit"
	"github.com/mrlokans/weread-readwise/internal/http"
	"github.com/mrlokans/weread-readwise/internal/importers"
	"github.com/mrlokans/weread-readwise/internal/logger"
	"github.com/mrlokans/weread-readwise/internal/readwise"
	"github.com/mrlokans/weread-readwise/internal/scheduler"
	"github.com/mrlokans/weread-readwise/internal/services"
	"github.com/mrlokans/weread-readwise/internal/tasks"
	"github.com/mrlokans/weread-readwise/internal/weread"
)

// =============================================================================
// Source and Sink
// =============================================================================

var _ services.Source = (*weread.Client)(nil)
var _ importers.Exporter = (*readwise.Client)(nil)

// Converter implementations
var _ importers.Converter = (*importers.HighlightConverter)(nil)
var _ importers.Converter = (*importers.NoteConverter)(nil)

// =============================================================================
// Audit
// =============================================================================

var _ services.Recorder = (*audit.Service)(nil)
var _ services.Snapshotter = (*audit.Auditor)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ http.HistoryReader = (*audit.Service)(nil)

// =============================================================================
// Serve Mode
// =============================================================================

var _ tasks.SyncRunner = (*services.SyncService)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ http.SyncTrigger = (*scheduler.SyncScheduler)(nil)
var _ http.SyncStatusReader = (*services.StatusTracker)(nil)
var _ http.TaskStatusReader = (*tasks.Client)(nil)
var _ http.Pinger = (*tasks.Client)(nil)

// =============================================================================
// Logging
// =============================================================================

var _ logger.Logger = (*logger.NoOpLogger)(nil)
