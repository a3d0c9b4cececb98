package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TapQuest_Go/internal/worker"
)

// MockJob is a simple job for testing
type MockJob struct {
	RunCount int32
	Done     chan struct{}
}

func (m *MockJob) Process(ctx context.Context) error {
	atomic.AddInt32(&m.RunCount, 1)
	select {
	case m.Done <- struct{}{}:
	default:
	}
	return nil
}

func TestScheduler(t *testing.T) {
	pool := worker.NewPool(context.Background(), 1, 10)
	pool.Start()
	defer pool.Stop()

	sched := New(pool, nil)
	defer sched.Stop()

	job := &MockJob{Done: make(chan struct{}, 10)}
	sched.Schedule(10*time.Millisecond, job)

	timeout := time.After(time.Second)
	runCount := 0
	for runCount < 2 {
		select {
		case <-job.Done:
			runCount++
		case <-timeout:
			t.Fatal("Timeout waiting for job execution")
		}
	}

	assert.GreaterOrEqual(t, runCount, 2)
}

func TestScheduler_FakeClock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	pool := worker.NewPool(context.Background(), 1, 10)
	pool.Start()
	defer pool.Stop()

	sched := New(pool, clock)
	job := &MockJob{Done: make(chan struct{}, 10)}
	sched.Schedule(time.Second, job)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	clock.Advance(999 * time.Millisecond)
	assert.Never(t, func() bool { return atomic.LoadInt32(&job.RunCount) > 0 }, 30*time.Millisecond, time.Millisecond)

	clock.Advance(time.Millisecond)
	select {
	case <-job.Done:
	case <-time.After(time.Second):
		t.Fatal("job did not run after one interval")
	}

	sched.Stop()
	sched.Stop()
}
