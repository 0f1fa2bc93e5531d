package entrypoint

import (
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mrlokans/weread-readwise/internal/audit"
	"github.com/mrlokans/weread-readwise/internal/config"
	"github.com/mrlokans/weread-readwise/internal/database"
	auditRepo "github.com/mrlokans/weread-readwise/internal/database/audit"
	"github.com/mrlokans/weread-readwise/internal/logger"
	"github.com/mrlokans/weread-readwise/internal/metrics"
	"github.com/mrlokans/weread-readwise/internal/readwise"
	"github.com/mrlokans/weread-readwise/internal/services"
	"github.com/mrlokans/weread-readwise/internal/weread"
)

// App holds the collaborators shared by the one-shot commands and serve mode.
type App struct {
	Config   *config.Config
	Logger   logger.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	WeRead   *weread.Client
	Readwise *readwise.Client
	Tracker  *services.StatusTracker

	// Journal is nil unless AUDIT_DATABASE_PATH is set.
	Journal *audit.Service
	// Snapshots is nil unless AUDIT_DIR is set.
	Snapshots *audit.Auditor

	db *database.Database
}

// NewLogger builds the process logger. verbose forces debug level.
func NewLogger(cfg *config.Config, verbose bool) (logger.Logger, error) {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	return logger.New(logger.Config{Level: level})
}

// NewApp wires clients and optional audit storage from cfg. It does not
// validate credentials; callers decide which ones they need.
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	if log == nil {
		log = logger.NewNop()
	}

	reg := prometheus.NewRegistry()
	app := &App{
		Config:   cfg,
		Logger:   log,
		Registry: reg,
		Metrics:  metrics.New(reg),
		WeRead: weread.NewClient(weread.Config{
			Cookie: cfg.WeRead.Cookie,
			APIURL: cfg.WeRead.APIURL,
			WebURL: cfg.WeRead.WebURL,
		}),
		Readwise: readwise.NewClient(readwise.Config{
			Token:  cfg.Readwise.Token,
			APIURL: cfg.Readwise.APIURL,
		}),
		Tracker: services.NewStatusTracker(),
	}

	if cfg.Audit.Dir != "" {
		app.Snapshots = audit.NewAuditor(cfg.Audit.Dir)
	}

	if cfg.Audit.DatabasePath != "" {
		db, err := database.NewDatabase(cfg.Audit.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open audit database: %w", err)
		}
		app.db = db
		app.Journal = audit.NewService(auditRepo.NewRepository(db.DB), log)
		log.Debug("run journal enabled", logger.String("path", cfg.Audit.DatabasePath))
	}

	return app, nil
}

// SyncService builds the orchestrator. Progress lines go to out.
func (a *App) SyncService(out io.Writer) *services.SyncService {
	deps := services.Dependencies{
		Source:  a.WeRead,
		Sink:    a.Readwise,
		Tracker: a.Tracker,
		Metrics: a.Metrics,
		Logger:  a.Logger,
		Out:     out,
	}
	// Only assign non-nil pointers so the interfaces stay nil when disabled.
	if a.Journal != nil {
		deps.Recorder = a.Journal
	}
	if a.Snapshots != nil {
		deps.Snapshots = a.Snapshots
	}

	return services.NewSyncService(deps, services.Settings{
		UserVID:   a.Config.ResolveUserVID(),
		WebURL:    a.WeRead.WebURL(),
		ChunkSize: a.Config.Sync.ChunkSize,
	})
}

// Database returns the audit database, or nil when the journal is off.
func (a *App) Database() *database.Database {
	return a.db
}

// Close releases the audit database and flushes the logger.
func (a *App) Close() error {
	var errs []error
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	_ = a.Logger.Sync()
	return errors.Join(errs...)
}
