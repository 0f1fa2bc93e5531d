package audit

import (
	"encoding/json"
	"fmt"
	"time"

	auditRepo "github.com/mrlokans/weread-readwise/internal/database/audit"
	"github.com/mrlokans/weread-readwise/internal/entities"
	"github.com/mrlokans/weread-readwise/internal/logger"
	"github.com/mrlokans/weread-readwise/internal/utils"
)

const maxErrorLen = 500

// Service journals sync runs.
type Service struct {
	repo *auditRepo.Repository
	log  logger.Logger
}

// NewService creates a new audit service.
func NewService(repo *auditRepo.Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{repo: repo, log: log}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// runMetadata is stored as JSON in AuditEvent.Metadata.
type runMetadata struct {
	Books       int                  `json:"books"`
	FailedBooks int                  `json:"failed_books"`
	Highlights  int                  `json:"highlights"`
	Notes       int                  `json:"notes"`
	Total       int                  `json:"total"`
	Posted      int                  `json:"posted"`
	Chunks      int                  `json:"chunks"`
	DurationMS  int64                `json:"duration_ms"`
	Snapshot    string               `json:"snapshot,omitempty"`
	BookErrors  []entities.BookError `json:"book_errors,omitempty"`
}

// LogSync records one finished run. It writes synchronously so a one-shot
// process does not exit before the row lands; failures are logged only.
func (s *Service) LogSync(result *entities.SyncResult, runErr error) {
	event := &entities.AuditEvent{
		RunID:       result.RunID,
		EventType:   entities.AuditEventSync,
		Trigger:     string(result.Trigger),
		Description: describe(result),
		Status:      entities.AuditStatusSuccess,
		CreatedAt:   result.FinishedAt,
	}
	if result.DryRun {
		event.EventType = entities.AuditEventPreview
	}

	metadata := runMetadata{
		Books:       result.Books,
		FailedBooks: result.FailedBooks,
		Highlights:  result.Highlights,
		Notes:       result.Notes,
		Total:       result.Total,
		Posted:      result.Posted,
		Chunks:      result.Chunks,
		DurationMS:  result.Duration().Milliseconds(),
		Snapshot:    result.Snapshot,
		BookErrors:  result.BookErrors,
	}
	if mdBytes, err := json.Marshal(metadata); err == nil {
		event.Metadata = string(mdBytes)
	}

	if runErr != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = utils.Truncate(runErr.Error(), maxErrorLen)
	}

	if err := s.repo.LogEvent(event); err != nil {
		s.log.Warn("failed to journal sync run", logger.String("run_id", result.RunID), logger.Error(err))
	}
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

func describe(r *entities.SyncResult) string {
	desc := fmt.Sprintf("Posted %d/%d highlights from %d books", r.Posted, r.Total, r.Books)
	if r.DryRun {
		desc = fmt.Sprintf("Previewed %d highlights from %d books", r.Total, r.Books)
	}
	if r.FailedBooks > 0 {
		desc += fmt.Sprintf(" (%d failed)", r.FailedBooks)
	}
	return utils.Truncate(desc, maxErrorLen)
}
