package cli

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrlokans/weread-readwise/internal/config"
)

// ConfigLoader produces the configuration a command runs with.
type ConfigLoader func() (*config.Config, error)

// base carries what every command shares: where output goes, how config is
// loaded and which flags were given explicitly.
type base struct {
	Out        io.Writer
	LoadConfig ConfigLoader

	set map[string]bool
}

func newBase() base {
	return base{Out: os.Stdout, LoadConfig: config.Load}
}

func (b *base) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	b.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { b.set[f.Name] = true })
	return nil
}

// isSet reports whether a flag was passed on the command line, so that only
// explicit flags override the environment.
func (b *base) isSet(name string) bool {
	return b.set[name]
}

func (b *base) load() (*config.Config, error) {
	if b.LoadConfig == nil {
		b.LoadConfig = config.Load
	}
	return b.LoadConfig()
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
