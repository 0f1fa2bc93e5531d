package cli

import (
	"bytes"
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/weread-readwise/internal/config"
)

func staticConfig(cfg *config.Config) ConfigLoader {
	return func() (*config.Config, error) { return cfg, nil }
}

func shelfServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shelf/friendCommon" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSyncCommand_ParseFlags(t *testing.T) {
	t.Run("defaults leave the environment alone", func(t *testing.T) {
		cmd := NewSyncCommand()
		require.NoError(t, cmd.ParseFlags(nil))
		assert.False(t, cmd.isSet("dry-run"))
		assert.False(t, cmd.isSet("recent-days"))
	})

	t.Run("explicit flags", func(t *testing.T) {
		cmd := NewSyncCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-dry-run", "-recent-days", "7", "-chunk-size", "50"}))
		assert.True(t, cmd.DryRun)
		assert.Equal(t, 7, cmd.RecentDays)
		assert.Equal(t, 50, cmd.ChunkSize)
		assert.True(t, cmd.isSet("recent-days"))
	})

	t.Run("negative recency", func(t *testing.T) {
		assert.Error(t, NewSyncCommand().ParseFlags([]string{"-recent-days", "-1"}))
	})

	t.Run("zero chunk size", func(t *testing.T) {
		assert.Error(t, NewSyncCommand().ParseFlags([]string{"-chunk-size", "0"}))
	})

	t.Run("help", func(t *testing.T) {
		assert.ErrorIs(t, NewSyncCommand().ParseFlags([]string{"-h"}), flag.ErrHelp)
	})
}

func TestSyncCommand_RunFailsFastOnMissingConfig(t *testing.T) {
	cmd := NewSyncCommand()
	cmd.LoadConfig = staticConfig(&config.Config{})
	require.NoError(t, cmd.ParseFlags(nil))

	err := cmd.Run()

	assert.ErrorIs(t, err, config.ErrMissingCookie)
	assert.ErrorIs(t, err, config.ErrMissingToken)
}

func TestSyncCommand_DryRunFlag(t *testing.T) {
	var posts int
	readwiseServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts++
		w.WriteHeader(http.StatusOK)
	}))
	defer readwiseServer.Close()

	wereadServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/shelf/friendCommon":
			_, _ = io.WriteString(w, `{"allBooks":[{"bookId":"1","title":"Walden"}]}`)
		case "/book/bookmarklist":
			_, _ = io.WriteString(w, `{"updated":[{"bookmarkId":"b1","markText":"Simplify, simplify."}]}`)
		default:
			_, _ = io.WriteString(w, `{}`)
		}
	}))
	defer wereadServer.Close()

	out := &bytes.Buffer{}
	cmd := NewSyncCommand()
	cmd.Out = out
	cmd.LoadConfig = staticConfig(&config.Config{
		WeRead:   config.WeRead{Cookie: "wr_vid=9", APIURL: wereadServer.URL},
		Readwise: config.Readwise{Token: "tok", APIURL: readwiseServer.URL},
		Log:      config.Log{Level: "error"},
	})
	require.NoError(t, cmd.ParseFlags([]string{"-dry-run"}))

	require.NoError(t, cmd.Run())

	assert.Zero(t, posts)
	assert.Contains(t, out.String(), "[1/1] Walden -> highlights=1 notes=0")
	assert.Contains(t, out.String(), "Total to sync: 1")
	assert.Contains(t, out.String(), "DRY_RUN=1, skipping Readwise post.")
}

func TestBooksCommand_Run(t *testing.T) {
	srv := shelfServer(t, `{
		"finishReadBooks":[{"bookId":"10","title":"Dune","author":"Frank Herbert"}],
		"recentBooks":[{"bookId":"MP_1","title":"Some Account"},{"bookId":"11","title":"Untitled"}]
	}`)

	out := &bytes.Buffer{}
	cmd := NewBooksCommand()
	cmd.Out = out
	cmd.LoadConfig = staticConfig(&config.Config{WeRead: config.WeRead{Cookie: "wr_vid=1", APIURL: srv.URL}})
	require.NoError(t, cmd.ParseFlags(nil))

	require.NoError(t, cmd.Run())

	assert.Equal(t, "10  Dune — Frank Herbert\n11  Untitled\n\n2 books\n", out.String())
}

func TestBooksCommand_EmptyShelf(t *testing.T) {
	srv := shelfServer(t, `{}`)

	out := &bytes.Buffer{}
	cmd := NewBooksCommand()
	cmd.Out = out
	cmd.LoadConfig = staticConfig(&config.Config{WeRead: config.WeRead{Cookie: "wr_vid=1", APIURL: srv.URL}})

	require.NoError(t, cmd.Run())
	assert.Equal(t, "No books found on bookshelf.\n", out.String())
}

func TestBooksCommand_RequiresCookie(t *testing.T) {
	cmd := NewBooksCommand()
	cmd.LoadConfig = staticConfig(&config.Config{})

	assert.ErrorIs(t, cmd.Run(), config.ErrMissingCookie)
}

func TestServeCommand_RunRequiresAPIToken(t *testing.T) {
	cmd := NewServeCommand("test")
	cmd.LoadConfig = staticConfig(&config.Config{
		WeRead:   config.WeRead{Cookie: "wr_vid=1"},
		Readwise: config.Readwise{Token: "tok"},
		Log:      config.Log{Level: "error"},
	})

	assert.ErrorIs(t, cmd.Run(), config.ErrMissingAPIToken)
}

func TestCheckCommand_Run(t *testing.T) {
	shelf := shelfServer(t, `{"allBooks":[{"bookId":"1","title":"A"},{"bookId":"2","title":"B"}]}`)

	t.Run("both ok", func(t *testing.T) {
		auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer auth.Close()

		out := &bytes.Buffer{}
		cmd := NewCheckCommand()
		cmd.Out = out
		cmd.LoadConfig = staticConfig(&config.Config{
			WeRead:   config.WeRead{Cookie: "wr_vid=5", APIURL: shelf.URL},
			Readwise: config.Readwise{Token: "tok", APIURL: auth.URL},
		})

		require.NoError(t, cmd.Run())
		assert.Contains(t, out.String(), "WeRead:   ok (user 5, 2 books)")
		assert.Contains(t, out.String(), "Readwise: ok")
	})

	t.Run("bad token still checks WeRead", func(t *testing.T) {
		auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer auth.Close()

		out := &bytes.Buffer{}
		cmd := NewCheckCommand()
		cmd.Out = out
		cmd.LoadConfig = staticConfig(&config.Config{
			WeRead:   config.WeRead{Cookie: "wr_vid=5", APIURL: shelf.URL},
			Readwise: config.Readwise{Token: "tok", APIURL: auth.URL},
		})

		assert.ErrorIs(t, cmd.Run(), ErrCheckFailed)
		assert.Contains(t, out.String(), "WeRead:   ok")
		assert.Contains(t, out.String(), "Readwise: FAILED")
	})

	t.Run("missing config is reported per side", func(t *testing.T) {
		out := &bytes.Buffer{}
		cmd := NewCheckCommand()
		cmd.Out = out
		cmd.LoadConfig = staticConfig(&config.Config{})

		assert.ErrorIs(t, cmd.Run(), ErrCheckFailed)
		assert.Contains(t, out.String(), "WeRead:   FAILED: WEREAD_COOKIE is required")
		assert.Contains(t, out.String(), "Readwise: FAILED: READWISE_TOKEN is required")
	})
}

func TestServeCommand_ParseFlags(t *testing.T) {
	cmd := NewServeCommand("test")
	require.NoError(t, cmd.ParseFlags([]string{"-port", "9000", "-host", "127.0.0.1"}))
	assert.Equal(t, 9000, cmd.Port)
	assert.Equal(t, "127.0.0.1", cmd.Host)

	assert.Error(t, NewServeCommand("test").ParseFlags([]string{"-port", "70000"}))
}

func TestServeCommand_RunRejectsMissingConfig(t *testing.T) {
	cmd := NewServeCommand("test")
	cmd.LoadConfig = staticConfig(&config.Config{Log: config.Log{Level: "error"}})

	assert.ErrorIs(t, cmd.Run(), config.ErrMissingCookie)
}
