package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/weread-readwise/internal/readwise"
	"github.com/mrlokans/weread-readwise/internal/weread"
)

var ErrCheckFailed = errors.New("credential check failed")

// CheckCommand verifies both credentials without syncing anything.
type CheckCommand struct {
	base
}

// NewCheckCommand creates a new CheckCommand
func NewCheckCommand() *CheckCommand {
	return &CheckCommand{base: newBase()}
}

// ParseFlags parses command line flags
func (cmd *CheckCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s check\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Verify the WeRead cookie and the Readwise token.\n")
	}
	return cmd.parse(fs, args)
}

// Run executes the check command. Both sides are always checked.
func (cmd *CheckCommand) Run() error {
	cfg, err := cmd.load()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	ok := true
	report := func(name string, err error, detail string) {
		if err != nil {
			ok = false
			fmt.Fprintf(cmd.Out, "%-9s FAILED: %v\n", name+":", err)
			return
		}
		fmt.Fprintf(cmd.Out, "%-9s ok%s\n", name+":", detail)
	}

	if err := cfg.ValidateWeRead(); err != nil {
		report("WeRead", err, "")
	} else {
		client := weread.NewClient(weread.Config{
			Cookie: cfg.WeRead.Cookie,
			APIURL: cfg.WeRead.APIURL,
			WebURL: cfg.WeRead.WebURL,
		})
		books, err := client.ListBooks(ctx, cfg.ResolveUserVID())
		report("WeRead", err, fmt.Sprintf(" (user %s, %d books)", cfg.ResolveUserVID(), len(books)))
	}

	if err := cfg.ValidateReadwise(); err != nil {
		report("Readwise", err, "")
	} else {
		client := readwise.NewClient(readwise.Config{
			Token:  cfg.Readwise.Token,
			APIURL: cfg.Readwise.APIURL,
		})
		report("Readwise", client.ValidateToken(ctx), "")
	}

	if !ok {
		return ErrCheckFailed
	}
	return nil
}
