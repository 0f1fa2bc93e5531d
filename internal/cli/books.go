package cli

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mrlokans/weread-readwise/internal/weread"
)

// BooksCommand prints the merged WeRead bookshelf.
type BooksCommand struct {
	base
}

// NewBooksCommand creates a new BooksCommand
func NewBooksCommand() *BooksCommand {
	return &BooksCommand{base: newBase()}
}

// ParseFlags parses command line flags
func (cmd *BooksCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("books", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s books\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List the books on your WeRead shelf, one per line.\n")
	}
	return cmd.parse(fs, args)
}

// Run executes the books command
func (cmd *BooksCommand) Run() error {
	cfg, err := cmd.load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateWeRead(); err != nil {
		return err
	}

	client := weread.NewClient(weread.Config{
		Cookie:  cfg.WeRead.Cookie,
		APIURL:  cfg.WeRead.APIURL,
		WebURL:  cfg.WeRead.WebURL,
		Timeout: 30 * time.Second,
	})

	ctx, stop := signalContext()
	defer stop()

	books, err := client.ListBooks(ctx, cfg.ResolveUserVID())
	if err != nil {
		return err
	}
	if len(books) == 0 {
		fmt.Fprintln(cmd.Out, "No books found on bookshelf.")
		return nil
	}

	for _, b := range books {
		if b.Author != "" {
			fmt.Fprintf(cmd.Out, "%s  %s — %s\n", b.ID, b.Title, b.Author)
		} else {
			fmt.Fprintf(cmd.Out, "%s  %s\n", b.ID, b.Title)
		}
	}
	fmt.Fprintf(cmd.Out, "\n%d books\n", len(books))
	return nil
}
