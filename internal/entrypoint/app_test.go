package entrypoint

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/weread-readwise/internal/config"
	"github.com/mrlokans/weread-readwise/internal/entities"
	"github.com/mrlokans/weread-readwise/internal/logger"
	"github.com/mrlokans/weread-readwise/internal/services"
)

func newWeReadServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/shelf/friendCommon":
			_, _ = io.WriteString(w, `{"allBooks":[{"bookId":"42","title":"Solaris","author":"Stanisław Lem"}]}`)
		case "/book/bookmarklist":
			_, _ = io.WriteString(w, `{"updated":[{"bookmarkId":"42_1","markText":"Ocean","createTime":1700000000}]}`)
		case "/review/list":
			_, _ = io.WriteString(w, `{"reviews":[]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		WeRead:   config.WeRead{Cookie: "wr_vid=7; wr_skey=abc", APIURL: apiURL},
		Readwise: config.Readwise{Token: "token", APIURL: "http://127.0.0.1:1"},
		Sync:     config.Sync{ChunkSize: 200},
		Audit: config.Audit{
			Dir:          filepath.Join(dir, "snapshots"),
			DatabasePath: filepath.Join(dir, "audit.db"),
		},
	}
}

func TestNewApp_OptionalAudit(t *testing.T) {
	cfg := &config.Config{WeRead: config.WeRead{Cookie: "wr_vid=7"}}

	app, err := NewApp(cfg, nil)
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Journal)
	assert.Nil(t, app.Snapshots)
	assert.Nil(t, app.Database())
	assert.NotNil(t, app.Metrics)
	assert.Equal(t, "https://weread.qq.com", app.WeRead.WebURL())
}

func TestNewApp_DryRunWritesSnapshotAndJournal(t *testing.T) {
	cfg := testConfig(t, newWeReadServer(t).URL)

	app, err := NewApp(cfg, logger.NewNop())
	require.NoError(t, err)
	defer app.Close()

	require.NotNil(t, app.Journal)
	require.NotNil(t, app.Snapshots)

	out := &bytes.Buffer{}
	result, err := app.SyncService(out).Run(context.Background(), services.RunOptions{
		DryRun:  true,
		Trigger: entities.TriggerCLI,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Total)
	assert.NotEmpty(t, result.Snapshot)
	assert.Contains(t, out.String(), "DRY_RUN=1, skipping Readwise post.")

	entries, err := os.ReadDir(cfg.Audit.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	events, total, err := app.Journal.GetEvents(10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, entities.AuditEventPreview, events[0].EventType)
	assert.Equal(t, result.RunID, events[0].RunID)

	status := app.Tracker.Status()
	require.NotNil(t, status.Last)
	assert.Equal(t, result.RunID, status.Last.RunID)
}

func TestNewApp_UsesUserVIDFromCookie(t *testing.T) {
	var gotVid string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotVid = r.URL.Query().Get("userVid")
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	cfg := &config.Config{WeRead: config.WeRead{Cookie: "wr_vid=12345", APIURL: srv.URL}}
	app, err := NewApp(cfg, nil)
	require.NoError(t, err)
	defer app.Close()

	out := &bytes.Buffer{}
	_, err = app.SyncService(out).Run(context.Background(), services.RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, "12345", gotVid)
	assert.Contains(t, out.String(), "No books found on bookshelf.")
}

func TestNewLogger(t *testing.T) {
	cfg := &config.Config{Log: config.Log{Level: "warn"}}

	log, err := NewLogger(cfg, true)
	require.NoError(t, err)
	assert.NotNil(t, log)
}
