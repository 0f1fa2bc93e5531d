package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/collectors"

	http_controllers "github.com/mrlokans/weread-readwise/internal/http"
	"github.com/mrlokans/weread-readwise/internal/logger"
	"github.com/mrlokans/weread-readwise/internal/scheduler"
	"github.com/mrlokans/weread-readwise/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs router until SIGINT or SIGTERM, then shuts down within the
// configured timeout. onShutdown runs before the HTTP server stops.
func Serve(ctx context.Context, app *App, router *gin.Engine, onShutdown ShutdownFunc) error {
	cfg := app.Config
	log := app.Logger

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout()
	log.Info("shutting down server", logger.Duration("timeout", timeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(shutdownCtx)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("server exiting")
	return nil
}

// Run starts serve mode: task queue, cron trigger and the HTTP API.
func Run(ctx context.Context, app *App, version string) error {
	cfg := app.Config
	log := app.Logger

	if err := cfg.ValidateServe(); err != nil {
		return err
	}
	if err := scheduler.ValidateCronSchedule(cfg.Schedule.Cron); err != nil {
		return fmt.Errorf("invalid SYNC_SCHEDULE %q: %w", cfg.Schedule.Cron, err)
	}

	log.Info("starting weread-readwise", logger.String("version", version))

	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	taskClient, err := tasks.NewClient(cfg.Tasks.DatabasePath, tasks.Config{
		Workers:           cfg.Tasks.Workers,
		TaskTimeout:       cfg.Tasks.TaskTimeout,
		ReleaseAfter:      cfg.Tasks.ReleaseAfter,
		CleanupInterval:   cfg.Tasks.CleanupInterval,
		RetentionDuration: cfg.Tasks.Retention,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize task queue: %w", err)
	}
	defer func() {
		if err := taskClient.Close(); err != nil {
			log.Warn("error closing task client", logger.Error(err))
		}
	}()

	syncService := app.SyncService(nil)
	taskClient.Register(tasks.NewSyncQueue(syncService, taskClient.TaskTimeout(), log))

	opts := scheduler.Options{
		Schedule:   cfg.Schedule.Cron,
		DryRun:     cfg.Sync.DryRun,
		RecentDays: cfg.Sync.RecentDays,
	}
	if app.Journal != nil {
		taskClient.Register(tasks.NewCleanupAuditEventsQueue(app.Journal, log))
		opts.AuditRetentionDays = cfg.Audit.RetentionDays
	}

	taskCtx, taskCancel := context.WithCancel(ctx)
	defer taskCancel()
	taskClient.Start(taskCtx)

	syncScheduler := scheduler.NewSyncScheduler(taskClient, opts, app.Metrics, log)
	if err := syncScheduler.Start(taskCtx); err != nil {
		return err
	}
	syncScheduler.EnqueueCleanup()

	checks := map[string]http_controllers.Pinger{
		"config": http_controllers.PingerFunc(func(context.Context) error { return cfg.Validate() }),
		"tasks":  taskClient,
	}
	routerCfg := http_controllers.RouterConfig{
		Version:   version,
		Logger:    log,
		APIToken:  cfg.HTTP.APIToken,
		Checks:    checks,
		Tracker:   app.Tracker,
		Scheduler: syncScheduler,
		Tasks:     taskClient,
		Gatherer:  app.Registry,
	}
	if db := app.Database(); db != nil {
		checks["database"] = http_controllers.PingerFunc(func(context.Context) error { return db.Ping() })
		routerCfg.History = app.Journal
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		syncScheduler.Stop()
		taskClient.Stop(ctx)
		taskCancel()
	}

	return Serve(ctx, app, router, onShutdown)
}
