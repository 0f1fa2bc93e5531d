package entities

import "time"

type AuditEventType string

const (
	AuditEventSync    AuditEventType = "sync"
	AuditEventPreview AuditEventType = "preview"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEvent is one row of the run journal. The journal is write-mostly and
// is never consulted to decide what gets synced.
type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	RunID       string         `gorm:"index;size:36" json:"run_id"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Trigger     string         `gorm:"size:50" json:"trigger"`      // "cli", "schedule", "api"
	Description string         `gorm:"size:500" json:"description"` // Human-readable summary
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"`
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
