package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/weread-readwise/internal/entrypoint"
	"github.com/mrlokans/weread-readwise/internal/logger"
)

// ServeCommand runs the scheduler and HTTP API until interrupted.
type ServeCommand struct {
	base

	Version string
	Host    string
	Port    int
	Verbose bool
}

// NewServeCommand creates a new ServeCommand
func NewServeCommand(version string) *ServeCommand {
	return &ServeCommand{base: newBase(), Version: version}
}

// ParseFlags parses command line flags
func (cmd *ServeCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)

	fs.StringVar(&cmd.Host, "host", "", "Listen host (overrides HOST)")
	fs.IntVar(&cmd.Port, "port", 0, "Listen port (overrides PORT)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s serve [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Run syncs on SYNC_SCHEDULE and expose status, metrics and manual triggers over HTTP.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := cmd.parse(fs, args); err != nil {
		return err
	}
	if cmd.isSet("port") && (cmd.Port <= 0 || cmd.Port > 65535) {
		return fmt.Errorf("-port must be between 1 and 65535, got %d", cmd.Port)
	}
	return nil
}

// Run executes the serve command
func (cmd *ServeCommand) Run() error {
	cfg, err := cmd.load()
	if err != nil {
		return err
	}
	if cmd.isSet("host") {
		cfg.HTTP.Host = cmd.Host
	}
	if cmd.isSet("port") {
		cfg.HTTP.Port = int32(cmd.Port)
	}
	if cmd.Verbose {
		cfg.Log.Level = "debug"
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

	return entrypoint.Run(ctx, app, cmd.Version)
}
