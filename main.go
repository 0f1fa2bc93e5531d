package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/weread-readwise/internal/cli"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

// command is what every sub-command implements.
type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	// No arguments runs a one-shot sync
	name := "sync"
	var args []string
	if len(os.Args) >= 2 {
		name = os.Args[1]
		args = os.Args[2:]
	}

	var cmd command
	switch name {
	case "sync":
		cmd = cli.NewSyncCommand()
	case "books":
		cmd = cli.NewBooksCommand()
	case "check":
		cmd = cli.NewCheckCommand()
	case "serve":
		cmd = cli.NewServeCommand(Version + " (" + Commit + ")")
	case "version":
		fmt.Printf("weread-readwise %s (%s)\n", Version, Commit)
		return
	case "-h", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  sync      Copy WeRead highlights and notes into Readwise (default)\n")
	fmt.Fprintf(os.Stderr, "  books     List the WeRead bookshelf\n")
	fmt.Fprintf(os.Stderr, "  check     Verify the WeRead cookie and the Readwise token\n")
	fmt.Fprintf(os.Stderr, "  serve     Sync on a schedule and serve status, metrics and triggers over HTTP\n")
	fmt.Fprintf(os.Stderr, "  version   Print the version\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
