package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/weread-readwise/internal/entities"
	"github.com/mrlokans/weread-readwise/internal/metrics"
	"github.com/mrlokans/weread-readwise/internal/tasks"
)

type fakeQueue struct {
	mu    sync.Mutex
	tasks []backlite.Task
	err   error
}

func (f *fakeQueue) Enqueue(task backlite.Task) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.tasks = append(f.tasks, task)
	return fmt.Sprintf("task-%d", len(f.tasks)), nil
}

func (f *fakeQueue) snapshot() []backlite.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]backlite.Task(nil), f.tasks...)
}

func TestSyncScheduler_StartStop(t *testing.T) {
	s := NewSyncScheduler(&fakeQueue{}, Options{Schedule: "0 */6 * * *"}, nil, nil)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	require.NotNil(t, s.NextRun())
	assert.True(t, s.NextRun().After(time.Now()))

	require.NoError(t, s.Start(context.Background()), "starting twice is a no-op")

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextRun())
}

func TestSyncScheduler_InvalidSchedule(t *testing.T) {
	s := NewSyncScheduler(&fakeQueue{}, Options{Schedule: "every day"}, nil, nil)
	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron schedule")
	assert.False(t, s.IsRunning())
}

func TestSyncScheduler_ContextCancelStops(t *testing.T) {
	s := NewSyncScheduler(&fakeQueue{}, Options{Schedule: "0 * * * *"}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
}

func TestSyncScheduler_Enqueue(t *testing.T) {
	queue := &fakeQueue{}
	m := metrics.New(prometheus.NewRegistry())
	s := NewSyncScheduler(queue, Options{Schedule: "0 * * * *", RecentDays: 5}, m, nil)

	id, err := s.Enqueue(entities.TriggerAPI, true)
	require.NoError(t, err)
	assert.Equal(t, "task-1", id)

	require.Len(t, queue.snapshot(), 1)
	assert.Equal(t, tasks.SyncTask{Trigger: entities.TriggerAPI, DryRun: true, RecentDays: 5}, queue.snapshot()[0])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TasksEnqueuedTotal.WithLabelValues("api")))
}

func TestSyncScheduler_EnqueueError(t *testing.T) {
	s := NewSyncScheduler(&fakeQueue{err: errors.New("db locked")}, Options{}, nil, nil)
	_, err := s.Enqueue(entities.TriggerAPI, false)
	assert.Error(t, err)
}

func TestSyncScheduler_Tick(t *testing.T) {
	queue := &fakeQueue{}
	s := NewSyncScheduler(queue, Options{Schedule: "0 * * * *", DryRun: true, AuditRetentionDays: 14}, nil, nil)

	s.tick()

	queued := queue.snapshot()
	require.Len(t, queued, 2)
	assert.Equal(t, tasks.SyncTask{Trigger: entities.TriggerSchedule, DryRun: true}, queued[0])
	assert.Equal(t, tasks.CleanupAuditEventsTask{RetentionDays: 14}, queued[1])
}

func TestSyncScheduler_TickWithoutRetention(t *testing.T) {
	queue := &fakeQueue{}
	s := NewSyncScheduler(queue, Options{Schedule: "0 * * * *"}, nil, nil)

	s.tick()
	assert.Len(t, queue.snapshot(), 1)
}

func TestSyncScheduler_NextRunEveryMinute(t *testing.T) {
	queue := &fakeQueue{}
	s := NewSyncScheduler(queue, Options{Schedule: "* * * * *"}, nil, nil)
	defer s.Stop()

	require.NoError(t, s.Start(context.Background()))
	next := s.NextRun()
	require.NotNil(t, next)
	assert.WithinDuration(t, time.Now(), *next, time.Minute)
}
