// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Sync Flow
//
//   - Source: WeRead bookshelf, bookmarks and reviews (internal/services/interfaces.go)
//   - Converter: one raw WeRead response to highlights (internal/importers/pipeline.go)
//   - Exporter: posts one batch to Readwise (internal/importers/pipeline.go)
//
// ## Audit
//
//   - Recorder: journals the outcome of a run (internal/services/interfaces.go)
//   - Snapshotter: stores preview payloads (internal/services/interfaces.go)
//   - AuditEventCleaner: prunes the journal (internal/tasks/cleanup_audit.go)
//
// ## Serve Mode
//
//   - SyncRunner: what the queue executes (internal/tasks/sync.go)
//   - Enqueuer: what the scheduler queues into (internal/scheduler/sync.go)
//   - SyncTrigger, SyncStatusReader, HistoryReader, TaskStatusReader, Pinger:
//     what the HTTP layer reads (internal/http/config.go)
//
// # Adding a New Destination
//
// The orchestrator only needs an importers.Exporter:
//
//	type NotionClient struct{ token string }
//
//	func (c *NotionClient) PostHighlights(ctx context.Context, hs []entities.Highlight) (*readwise.CreateResult, error)
//
//	var _ importers.Exporter = (*NotionClient)(nil)
//
// Then pass it as services.Dependencies.Sink in internal/entrypoint/app.go.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
