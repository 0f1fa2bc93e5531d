package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/weread-readwise/internal/entities"
	"github.com/mrlokans/weread-readwise/internal/entrypoint"
	"github.com/mrlokans/weread-readwise/internal/logger"
	"github.com/mrlokans/weread-readwise/internal/services"
)

// SyncCommand runs one WeRead to Readwise sync and exits.
type SyncCommand struct {
	base

	DryRun     bool
	RecentDays int
	ChunkSize  int
	Verbose    bool
}

// NewSyncCommand creates a new SyncCommand
func NewSyncCommand() *SyncCommand {
	return &SyncCommand{base: newBase()}
}

// ParseFlags parses command line flags
func (cmd *SyncCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)

	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Fetch and normalize but do not post (same as DRY_RUN=1)")
	fs.IntVar(&cmd.RecentDays, "recent-days", 0, "Only sync items created in the last N days (overrides ONLY_RECENT_DAYS)")
	fs.IntVar(&cmd.ChunkSize, "chunk-size", 0, "Highlights per Readwise request (overrides SYNC_CHUNK_SIZE)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sync [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Copy WeRead highlights and notes into Readwise.\n\n")
		fmt.Fprintf(os.Stderr, "Requires WEREAD_COOKIE and READWISE_TOKEN in the environment or a .env file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s sync\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s sync -dry-run\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s sync -recent-days 7 -verbose\n", os.Args[0])
	}

	if err := cmd.parse(fs, args); err != nil {
		return err
	}

	if cmd.isSet("recent-days") && cmd.RecentDays < 0 {
		return errors.New("-recent-days must be a non-negative integer")
	}
	if cmd.isSet("chunk-size") && cmd.ChunkSize <= 0 {
		return errors.New("-chunk-size must be positive")
	}
	return nil
}

// Run executes the sync command
func (cmd *SyncCommand) Run() error {
	cfg, err := cmd.load()
	if err != nil {
		return err
	}

	if cmd.isSet("dry-run") {
		cfg.Sync.DryRun = cmd.DryRun
	}
	if cmd.isSet("chunk-size") {
		cfg.Sync.ChunkSize = cmd.ChunkSize
	}
	if cmd.isSet("recent-days") {
		cfg.OverrideRecentDays(cmd.RecentDays)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := entrypoint.NewLogger(cfg, cmd.Verbose)
	if err != nil {
		return err
	}

	app, err := entrypoint.NewApp(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("error closing resources", logger.Error(err))
		}
	}()

	ctx, stop := signalContext()
	defer stop()

	_, err = app.SyncService(cmd.Out).Run(ctx, services.RunOptions{
		DryRun:     cfg.Sync.DryRun,
		RecentDays: cfg.Sync.RecentDays,
		Trigger:    entities.TriggerCLI,
	})
	return err
}
