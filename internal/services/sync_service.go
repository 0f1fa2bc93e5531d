package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/weread-readwise/internal/entities"
	"github.com/mrlokans/weread-readwise/internal/importers"
	"github.com/mrlokans/weread-readwise/internal/logger"
	"github.com/mrlokans/weread-readwise/internal/metrics"
	"github.com/mrlokans/weread-readwise/internal/readwise"
)

// ErrSyncInProgress is returned when Run is called while another run holds
// the service.
var ErrSyncInProgress = errors.New("a sync is already running")

// Dependencies are the collaborators of SyncService. Only Source and Sink are
// required.
type Dependencies struct {
	Source    Source
	Sink      importers.Exporter
	Recorder  Recorder
	Snapshots Snapshotter
	Tracker   *StatusTracker
	Metrics   *metrics.Metrics
	Logger    logger.Logger
	// Out receives progress lines. Defaults to stdout.
	Out io.Writer
	Now func() time.Time
}

// Settings are fixed for the lifetime of the service.
type Settings struct {
	UserVID   string
	WebURL    string
	ChunkSize int
}

// RunOptions vary per run.
type RunOptions struct {
	DryRun     bool
	RecentDays int
	Trigger    entities.SyncTrigger
}

// SyncService runs the one-shot WeRead to Readwise flow: list books, fetch and
// normalize each book, then post everything in chunks.
type SyncService struct {
	source    Source
	pipeline  *importers.Pipeline
	recorder  Recorder
	snapshots Snapshotter
	tracker   *StatusTracker
	metrics   *metrics.Metrics
	log       logger.Logger
	out       io.Writer
	now       func() time.Time

	settings Settings

	mu sync.Mutex
}

// NewSyncService wires a service from its dependencies.
func NewSyncService(deps Dependencies, settings Settings) *SyncService {
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	pipeline := importers.NewPipeline(deps.Sink, settings.ChunkSize)
	settings.ChunkSize = pipeline.ChunkSize()

	return &SyncService{
		source:    deps.Source,
		pipeline:  pipeline,
		recorder:  deps.Recorder,
		snapshots: deps.Snapshots,
		tracker:   deps.Tracker,
		metrics:   deps.Metrics,
		log:       deps.Logger,
		out:       deps.Out,
		now:       deps.Now,
		settings:  settings,
	}
}

// Run performs one sync. Per-book failures are reported and skipped; a
// bookshelf or Readwise failure ends the run with an error. The result is
// nil only when another run is in progress (ErrSyncInProgress).
func (s *SyncService) Run(ctx context.Context, opts RunOptions) (*entities.SyncResult, error) {
	if !s.mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer s.mu.Unlock()

	if opts.Trigger == "" {
		opts.Trigger = entities.TriggerCLI
	}
	result := &entities.SyncResult{
		RunID:     uuid.New().String(),
		Trigger:   opts.Trigger,
		DryRun:    opts.DryRun,
		StartedAt: s.now(),
	}
	log := s.log.With(logger.String("run_id", result.RunID), logger.String("trigger", string(opts.Trigger)))
	log.Info("sync started", logger.Bool("dry_run", opts.DryRun), logger.Int("recent_days", opts.RecentDays))
	s.tracker.Start(result)

	err := s.run(ctx, opts, result, log)
	s.finish(result, err, log)
	return result, err
}

func (s *SyncService) run(ctx context.Context, opts RunOptions, result *entities.SyncResult, log logger.Logger) error {
	books, err := s.source.ListBooks(ctx, s.settings.UserVID)
	if err != nil {
		return err
	}
	result.Books = len(books)
	if len(books) == 0 {
		s.printf("No books found on bookshelf.")
		return nil
	}

	convOpts := importers.Options{
		Recency: importers.RecencyFilter{Days: opts.RecentDays},
		WebURL:  s.settings.WebURL,
		Now:     s.now,
	}

	var all []entities.Highlight
	for i, book := range books {
		hs, ns, err := s.collectBook(ctx, book, convOpts)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.printf("[%d/%d] %s -> ERROR: %v", i+1, len(books), book.Title, err)
			log.Warn("book failed", logger.String("book_id", book.ID), logger.String("title", book.Title), logger.Error(err))
			result.FailedBooks++
			result.BookErrors = append(result.BookErrors, entities.BookError{BookID: book.ID, Title: book.Title, Error: err.Error()})
			s.metrics.ObserveBook(metrics.OutcomeFailed, 0, 0)
			continue
		}

		all = append(all, hs...)
		all = append(all, ns...)
		result.Highlights += len(hs)
		result.Notes += len(ns)
		s.metrics.ObserveBook(metrics.OutcomeSynced, len(hs), len(ns))
		s.printf("[%d/%d] %s -> highlights=%d notes=%d", i+1, len(books), book.Title, len(hs), len(ns))
	}

	result.Total = len(all)
	result.Chunks = len(importers.Chunk(all, s.pipeline.ChunkSize()))
	s.printf("Total to sync: %d", len(all))

	if opts.DryRun {
		s.printf("DRY_RUN=1, skipping Readwise post.")
		s.snapshot(result, all, log)
		return nil
	}

	sent, err := s.pipeline.Export(ctx, all, func(r importers.ChunkReport) {
		s.metrics.ObserveChunk(metrics.StatusSuccess, r.Size)
		s.printf("Posted %d/%d. Readwise books=%d modified=%d", r.Sent, r.Total, len(resultBooks(r.Result)), r.Result.ModifiedCount())
		log.Debug("chunk posted", logger.Int("chunk", r.Index), logger.Int("chunks", r.Chunks), logger.Int("size", r.Size))
	})
	result.Posted = sent
	if err != nil {
		s.metrics.ObserveChunk(metrics.StatusFailed, 0)
		return err
	}

	s.printf("Done.")
	return nil
}

// collectBook fetches and normalizes one book. Either both record kinds are
// returned or neither is.
func (s *SyncService) collectBook(ctx context.Context, book entities.Book, opts importers.Options) ([]entities.Highlight, []entities.Highlight, error) {
	bookmarks, err := s.source.Bookmarks(ctx, book.ID)
	if err != nil {
		return nil, nil, err
	}
	highlights := importers.NormalizeHighlights(book, bookmarks, opts)

	reviews, err := s.source.Reviews(ctx, book.ID)
	if err != nil {
		return nil, nil, err
	}
	notes := importers.NormalizeNotes(book, reviews, opts)

	return highlights, notes, nil
}

func (s *SyncService) snapshot(result *entities.SyncResult, highlights []entities.Highlight, log logger.Logger) {
	if s.snapshots == nil {
		return
	}
	name, err := s.snapshots.SaveJSON(readwise.NewCreateRequest(highlights))
	if err != nil {
		log.Warn("failed to save preview snapshot", logger.Error(err))
		return
	}
	result.Snapshot = name
	log.Info("preview snapshot saved", logger.String("file", name))
}

func (s *SyncService) finish(result *entities.SyncResult, err error, log logger.Logger) {
	result.FinishedAt = s.now()

	status := metrics.StatusSuccess
	switch {
	case err != nil:
		status = metrics.StatusFailed
		result.Error = err.Error()
		log.Error("sync failed", logger.Error(err), logger.Int("posted", result.Posted), logger.Int("total", result.Total))
	case result.DryRun:
		status = metrics.StatusPreview
		log.Info("sync preview finished", logger.Int("total", result.Total), logger.Int("failed_books", result.FailedBooks))
	default:
		log.Info("sync finished",
			logger.Int("books", result.Books),
			logger.Int("failed_books", result.FailedBooks),
			logger.Int("posted", result.Posted),
			logger.Duration("duration", result.Duration()),
		)
	}

	s.metrics.ObserveRun(status, result.Duration(), result.FinishedAt)
	s.tracker.Finish(result)
	if s.recorder != nil {
		s.recorder.LogSync(result, err)
	}
}

func (s *SyncService) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

func resultBooks(r *readwise.CreateResult) []readwise.CreatedBook {
	if r == nil {
		return nil
	}
	return r.Books
}
