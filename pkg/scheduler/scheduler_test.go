package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRunsTasksOnInterval(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int64

	s.AddTask("counter", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start(context.Background())
	defer s.Stop()

	require.Eventually(t, func() bool {
		return runs.Load() >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestSchedulerStopCancelsTasks(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int64

	s.AddTask("counter", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start(context.Background())
	require.Eventually(t, func() bool {
		return runs.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	stopped := runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, runs.Load(), stopped+1, "tasks should stop running after Stop")
}

func TestSchedulerSurvivesTaskErrors(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int64

	s.AddTask("flaky", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("transient failure")
	})

	s.Start(context.Background())
	defer s.Stop()

	require.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestSchedulerDoubleStartIsNoop(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int64

	s.AddTask("counter", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	ctx := context.Background()
	s.Start(ctx)
	s.Start(ctx)
	defer s.Stop()

	time.Sleep(55 * time.Millisecond)
	// A doubled start would roughly double the rate
	assert.LessOrEqual(t, runs.Load(), int64(8))
}

func TestSchedulerHonorsParentContext(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int64

	s.AddTask("counter", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	time.Sleep(50 * time.Millisecond)
	stopped := runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}
