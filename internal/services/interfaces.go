package services

import (
	"context"

	"github.com/mrlokans/weread-readwise/internal/entities"
	"github.com/mrlokans/weread-readwise/internal/weread"
)

// Source reads one WeRead account.
type Source interface {
	ListBooks(ctx context.Context, userVID string) ([]entities.Book, error)
	Bookmarks(ctx context.Context, bookID string) (weread.Record, error)
	Reviews(ctx context.Context, bookID string) (weread.Record, error)
}

// Recorder journals finished runs.
type Recorder interface {
	LogSync(result *entities.SyncResult, runErr error)
}

// Snapshotter persists a preview payload and returns its name.
type Snapshotter interface {
	SaveJSON(data any) (string, error)
}
