// Package database opens the optional SQLite run journal.
//
// The journal is append-mostly: every sync run writes one entities.AuditEvent
// through the repository in database/audit. Nothing in the sync path reads
// it back, so deleting the file never changes what gets sent to Readwise.
//
//	db, err := database.NewDatabase("./weread-readwise.db")
//	repo := audit.NewRepository(db.DB)
package database
