package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/weread-readwise/internal/entities"
	"github.com/mrlokans/weread-readwise/internal/services"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := DefaultConfig()
	client, err := NewClient(filepath.Join(t.TempDir(), "queue", "tasks.db"), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNewClient(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "nested", "tasks.db")

	client, err := NewClient(dbPath, Config{}, nil)
	require.NoError(t, err)
	require.NotNil(t, client)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "tasks database should be created")
	assert.Equal(t, 30*time.Minute, client.TaskTimeout(), "zero config falls back to defaults")
	assert.NoError(t, client.Ping(context.Background()))

	assert.NoError(t, client.Close())
}

func TestClientStartStop(t *testing.T) {
	client := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

func TestClientStopWithoutStart(t *testing.T) {
	client := newTestClient(t)
	assert.True(t, client.Stop(context.Background()))
}

type fakeRunner struct {
	mu   sync.Mutex
	runs []services.RunOptions
	err  error
	done chan struct{}
}

func (f *fakeRunner) Run(ctx context.Context, opts services.RunOptions) (*entities.SyncResult, error) {
	f.mu.Lock()
	f.runs = append(f.runs, opts)
	f.mu.Unlock()
	if f.done != nil {
		defer close(f.done)
	}
	if f.err != nil {
		return &entities.SyncResult{}, f.err
	}
	_, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return nil, errors.New("expected a deadline")
	}
	return &entities.SyncResult{RunID: "run-1", Posted: 3}, nil
}

func TestSyncTaskConfig(t *testing.T) {
	cfg := SyncTask{}.Config()

	assert.Equal(t, "weread_sync", cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, 30*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestSyncProcessor(t *testing.T) {
	runner := &fakeRunner{}
	process := SyncProcessor(runner, time.Minute, nil)

	err := process(context.Background(), SyncTask{Trigger: entities.TriggerSchedule, DryRun: true, RecentDays: 3})
	require.NoError(t, err)

	require.Len(t, runner.runs, 1)
	assert.Equal(t, services.RunOptions{Trigger: entities.TriggerSchedule, DryRun: true, RecentDays: 3}, runner.runs[0])
}

func TestSyncProcessor_Errors(t *testing.T) {
	runner := &fakeRunner{err: services.ErrSyncInProgress}
	err := SyncProcessor(runner, time.Minute, nil)(context.Background(), SyncTask{})
	assert.ErrorIs(t, err, services.ErrSyncInProgress)

	err = SyncProcessor(nil, time.Minute, nil)(context.Background(), SyncTask{})
	assert.Error(t, err)
}

func TestSyncTaskEnqueueAndRun(t *testing.T) {
	client := newTestClient(t)

	runner := &fakeRunner{done: make(chan struct{})}
	client.Register(NewSyncQueue(runner, time.Minute, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	id, err := client.Enqueue(SyncTask{Trigger: entities.TriggerAPI})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case <-runner.done:
	case <-time.After(5 * time.Second):
		t.Fatal("sync task was not executed within timeout")
	}

	require.Eventually(t, func() bool {
		status, err := client.Status(context.Background(), id)
		return err == nil && status == backlite.TaskStatusSuccess
	}, 5*time.Second, 50*time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	client.Stop(stopCtx)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "pending", StatusString(backlite.TaskStatusPending))
	assert.Equal(t, "running", StatusString(backlite.TaskStatusRunning))
	assert.Equal(t, "success", StatusString(backlite.TaskStatusSuccess))
	assert.Equal(t, "failure", StatusString(backlite.TaskStatusFailure))
	assert.Equal(t, "not_found", StatusString(backlite.TaskStatusNotFound))
}

type fakeCleaner struct {
	retention time.Duration
	deleted   int64
	err       error
}

func (f *fakeCleaner) DeleteOldEvents(retention time.Duration) (int64, error) {
	f.retention = retention
	return f.deleted, f.err
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	cleaner := &fakeCleaner{deleted: 4}

	require.NoError(t, CleanupAuditEventsProcessor(cleaner, nil)(context.Background(), CleanupAuditEventsTask{RetentionDays: 7}))
	assert.Equal(t, 7*24*time.Hour, cleaner.retention)

	require.NoError(t, CleanupAuditEventsProcessor(cleaner, nil)(context.Background(), CleanupAuditEventsTask{}))
	assert.Equal(t, 30*24*time.Hour, cleaner.retention, "non-positive retention uses the default")

	cleaner.err = errors.New("locked")
	assert.Error(t, CleanupAuditEventsProcessor(cleaner, nil)(context.Background(), CleanupAuditEventsTask{}))
	assert.Error(t, CleanupAuditEventsProcessor(nil, nil)(context.Background(), CleanupAuditEventsTask{}))
}

func TestCleanupAuditEventsTaskConfig(t *testing.T) {
	cfg := CleanupAuditEventsTask{}.Config()
	assert.Equal(t, "cleanup_audit_events", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
}
