package earnings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TapQuest_Go/internal/domain"
	"github.com/osse101/TapQuest_Go/internal/testing/leaktest"
)

const (
	testIdentity = "tg-42"
	waitFor      = time.Second
	tick         = 5 * time.Millisecond
)

var errTransport = errors.New("connection refused")

// MockPersister is a testify mock for simple call expectations
type MockPersister struct {
	mock.Mock
}

func (m *MockPersister) UpdateUser(ctx context.Context, identity string, balance, totalEarned int64) error {
	args := m.Called(ctx, identity, balance, totalEarned)
	return args.Error(0)
}

type sentValues struct {
	balance     int64
	totalEarned int64
}

// fakePersister records sends and can hold them open until released
type fakePersister struct {
	mu         sync.Mutex
	calls      []sentValues
	err        error
	gate       chan struct{}
	active     int
	maxActive  int
	started    chan struct{}
	waitOnCtx  bool
	lastCtxErr error
}

func newFakePersister() *fakePersister {
	return &fakePersister{started: make(chan struct{}, 16)}
}

func (f *fakePersister) UpdateUser(ctx context.Context, identity string, balance, totalEarned int64) error {
	f.mu.Lock()
	f.active++
	if f.active > f.maxActive {
		f.maxActive = f.active
	}
	gate := f.gate
	waitOnCtx := f.waitOnCtx
	f.mu.Unlock()

	f.started <- struct{}{}

	if gate != nil {
		<-gate
	}
	if waitOnCtx {
		<-ctx.Done()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.active--
	f.calls = append(f.calls, sentValues{balance: balance, totalEarned: totalEarned})
	if waitOnCtx {
		f.lastCtxErr = ctx.Err()
		return ctx.Err()
	}
	return f.err
}

func (f *fakePersister) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakePersister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakePersister) lastCall() sentValues {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func newTestAccumulator(p Persister, clock clockwork.Clock) *Accumulator {
	user := domain.NewUserProgress(testIdentity, "Tester", false)
	return New(user, p, clock, Config{Debounce: DefaultDebounce, FlushTimeout: time.Second})
}

func TestCredit_DebouncedIntoSingleFlush(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := newFakePersister()
	acc := newTestAccumulator(p, clock)

	// earnPerTap=1 and no upgrades yields 10 points per tap
	for i := 0; i < 5; i++ {
		require.NoError(t, acc.Credit(10))
		clock.Advance(100 * time.Millisecond)
	}
	assert.Equal(t, 0, p.callCount())

	clock.Advance(DefaultDebounce)

	require.Eventually(t, func() bool {
		return p.callCount() == 1 && acc.Status().Pending == 0
	}, waitFor, tick)
	assert.Equal(t, sentValues{balance: 50, totalEarned: 50}, p.lastCall())

	status := acc.Status()
	assert.Equal(t, int64(50), status.Balance)
	assert.Equal(t, int64(50), status.TotalEarned)
	assert.False(t, status.PendingSave)
}

func TestCredit_EachCallResetsTimer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := newFakePersister()
	acc := newTestAccumulator(p, clock)

	require.NoError(t, acc.Credit(10))
	clock.Advance(400 * time.Millisecond)
	require.NoError(t, acc.Credit(10))
	clock.Advance(400 * time.Millisecond)

	assert.Never(t, func() bool { return p.callCount() > 0 }, 50*time.Millisecond, tick)

	clock.Advance(100 * time.Millisecond)
	require.Eventually(t, func() bool { return p.callCount() == 1 }, waitFor, tick)
	assert.Equal(t, sentValues{balance: 20, totalEarned: 20}, p.lastCall())
}

func TestCredit_IgnoresNonPositive(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := newFakePersister()
	acc := newTestAccumulator(p, clock)

	require.NoError(t, acc.Credit(0))
	require.NoError(t, acc.Credit(-5))

	status := acc.Status()
	assert.Zero(t, status.Balance)
	assert.Zero(t, status.Pending)
	assert.False(t, status.PendingSave)
}

func TestFlush_FailureKeepsPendingAndRetriesNextCycle(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := newFakePersister()
	p.setErr(errTransport)
	acc := newTestAccumulator(p, clock)

	require.NoError(t, acc.Credit(10))
	clock.Advance(DefaultDebounce)

	require.Eventually(t, func() bool { return acc.Status().LastError != "" }, waitFor, tick)
	status := acc.Status()
	assert.Equal(t, int64(10), status.Pending)
	assert.True(t, status.PendingSave)
	assert.Equal(t, int64(10), status.Balance)

	p.setErr(nil)
	require.NoError(t, acc.Credit(5))
	clock.Advance(DefaultDebounce)

	require.Eventually(t, func() bool { return acc.Status().Pending == 0 }, waitFor, tick)
	assert.Equal(t, 2, p.callCount())
	assert.Equal(t, sentValues{balance: 15, totalEarned: 15}, p.lastCall())

	status = acc.Status()
	assert.False(t, status.PendingSave)
	assert.Empty(t, status.LastError)
}

func TestFlush_AtMostOneInFlight(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := newFakePersister()
	p.gate = make(chan struct{})
	acc := newTestAccumulator(p, clock)

	require.NoError(t, acc.Credit(10))
	clock.Advance(DefaultDebounce)
	<-p.started
	assert.True(t, acc.Status().InFlight)

	// A second debounce cycle completes while the first send is outstanding
	require.NoError(t, acc.Credit(20))
	clock.Advance(DefaultDebounce)
	assert.Never(t, func() bool {
		select {
		case <-p.started:
			return true
		default:
			return false
		}
	}, 50*time.Millisecond, tick)

	p.gate <- struct{}{}
	<-p.started
	p.gate <- struct{}{}

	require.Eventually(t, func() bool {
		s := acc.Status()
		return p.callCount() == 2 && s.Pending == 0 && !s.InFlight
	}, waitFor, tick)
	assert.Equal(t, sentValues{balance: 30, totalEarned: 30}, p.lastCall())

	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Equal(t, 1, p.maxActive)
}

func TestFlush_TapsDuringSendStayPending(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := newFakePersister()
	p.gate = make(chan struct{})
	acc := newTestAccumulator(p, clock)

	require.NoError(t, acc.Credit(10))
	clock.Advance(DefaultDebounce)
	<-p.started

	require.NoError(t, acc.Credit(7))
	p.gate <- struct{}{}

	require.Eventually(t, func() bool { return !acc.Status().InFlight }, waitFor, tick)
	status := acc.Status()
	assert.Equal(t, int64(7), status.Pending)
	assert.Equal(t, int64(17), status.Balance)

	// The timer armed by the second credit is still running
	p.mu.Lock()
	p.gate = nil
	p.mu.Unlock()
	clock.Advance(DefaultDebounce)
	require.Eventually(t, func() bool { return acc.Status().Pending == 0 }, waitFor, tick)
	assert.Equal(t, sentValues{balance: 17, totalEarned: 17}, p.lastCall())
}

func TestFlush_NothingPending(t *testing.T) {
	p := new(MockPersister)
	acc := newTestAccumulator(p, clockwork.NewFakeClock())

	require.NoError(t, acc.Flush(context.Background()))
	p.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFlush_SynchronousSendsAbsoluteTotals(t *testing.T) {
	p := new(MockPersister)
	p.On("UpdateUser", mock.Anything, testIdentity, int64(130), int64(230)).Return(nil).Once()

	user := domain.NewUserProgress(testIdentity, "Tester", false)
	user.Balance = 100
	user.TotalEarned = 200
	acc := New(user, p, clockwork.NewFakeClock(), Config{})

	require.NoError(t, acc.Credit(30))
	require.NoError(t, acc.Flush(context.Background()))

	p.AssertExpectations(t)
	assert.Zero(t, acc.Status().Pending)
}

func TestFlush_ErrorWrapsSentinel(t *testing.T) {
	p := new(MockPersister)
	p.On("UpdateUser", mock.Anything, testIdentity, int64(10), int64(10)).Return(errTransport).Once()
	acc := newTestAccumulator(p, clockwork.NewFakeClock())

	require.NoError(t, acc.Credit(10))
	err := acc.Flush(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFlushFailed)
	assert.ErrorIs(t, err, errTransport)
	assert.Equal(t, int64(10), acc.Status().Pending)
	p.AssertExpectations(t)
}

func TestFlush_BoundedByTimeout(t *testing.T) {
	p := newFakePersister()
	p.waitOnCtx = true
	user := domain.NewUserProgress(testIdentity, "Tester", false)
	acc := New(user, p, clockwork.NewFakeClock(), Config{FlushTimeout: 20 * time.Millisecond})

	require.NoError(t, acc.Credit(10))
	err := acc.Flush(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int64(10), acc.Status().Pending)
	assert.True(t, acc.Status().PendingSave)
}

func TestClose_FinalFlush(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)
	defer checker.Check(0)

	clock := clockwork.NewFakeClock()
	p := newFakePersister()
	acc := newTestAccumulator(p, clock)

	require.NoError(t, acc.Credit(40))
	require.NoError(t, acc.Close(context.Background()))

	assert.Equal(t, 1, p.callCount())
	assert.Equal(t, sentValues{balance: 40, totalEarned: 40}, p.lastCall())

	assert.ErrorIs(t, acc.Credit(10), ErrClosed)
	clock.Advance(DefaultDebounce)
	assert.Never(t, func() bool { return p.callCount() > 1 }, 50*time.Millisecond, tick)
}

func TestClose_WaitsForInFlightThenFlushesRemainder(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := newFakePersister()
	p.gate = make(chan struct{})
	acc := newTestAccumulator(p, clock)

	require.NoError(t, acc.Credit(10))
	clock.Advance(DefaultDebounce)
	<-p.started
	require.NoError(t, acc.Credit(5))

	closed := make(chan error, 1)
	go func() { closed <- acc.Close(context.Background()) }()

	p.gate <- struct{}{}
	<-p.started
	p.gate <- struct{}{}

	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("Close did not return")
	}

	assert.Equal(t, 2, p.callCount())
	assert.Equal(t, sentValues{balance: 15, totalEarned: 15}, p.lastCall())
	assert.Zero(t, acc.Status().Pending)
}

func TestClose_ContextCancelledWhileWaiting(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := newFakePersister()
	p.gate = make(chan struct{})
	acc := newTestAccumulator(p, clock)

	require.NoError(t, acc.Credit(10))
	clock.Advance(DefaultDebounce)
	<-p.started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, acc.Close(ctx), context.Canceled)

	p.gate <- struct{}{}
	require.Eventually(t, func() bool { return !acc.Status().InFlight }, waitFor, tick)
}

func TestAdopt_KeepsUnsentEarnings(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := newFakePersister()
	p.setErr(errTransport)
	acc := newTestAccumulator(p, clock)

	require.NoError(t, acc.Credit(25))

	server := domain.NewUserProgress(testIdentity, "Tester", false)
	server.Balance = 1000
	server.TotalEarned = 5000
	acc.Adopt(server)

	status := acc.Status()
	assert.Equal(t, int64(1025), status.Balance)
	assert.Equal(t, int64(5025), status.TotalEarned)
	assert.Equal(t, int64(25), status.Pending)
}

func TestHold_DefersTimerFlushUntilRelease(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := newFakePersister()
	acc := newTestAccumulator(p, clock)

	require.NoError(t, acc.Credit(10))
	require.NoError(t, acc.Hold(context.Background()))
	assert.Equal(t, 1, p.callCount(), "hold flushes pending first")
	assert.Equal(t, sentValues{balance: 10, totalEarned: 10}, p.lastCall())

	require.NoError(t, acc.Credit(5))
	clock.Advance(DefaultDebounce)
	assert.Never(t, func() bool { return p.callCount() > 1 }, 50*time.Millisecond, tick)
	assert.Equal(t, int64(5), acc.Status().Pending)

	server := domain.NewUserProgress(testIdentity, "Tester", false)
	server.Balance = 0
	server.TotalEarned = 10
	acc.Adopt(server)
	acc.Release()

	require.Eventually(t, func() bool { return acc.Status().Pending == 0 }, waitFor, tick)
	assert.Equal(t, sentValues{balance: 5, totalEarned: 15}, p.lastCall())
}

func TestHold_FlushWaitsForRelease(t *testing.T) {
	p := newFakePersister()
	acc := newTestAccumulator(p, clockwork.NewFakeClock())

	require.NoError(t, acc.Hold(context.Background()))
	require.NoError(t, acc.Credit(10))

	done := make(chan error, 1)
	go func() { done <- acc.Flush(context.Background()) }()
	assert.Never(t, func() bool { return len(done) > 0 }, 50*time.Millisecond, tick)

	acc.Release()
	require.NoError(t, <-done)
	assert.Equal(t, sentValues{balance: 10, totalEarned: 10}, p.lastCall())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, acc.Hold(ctx))
	cancel()
	assert.ErrorIs(t, acc.Hold(ctx), context.Canceled, "holds are exclusive")
	acc.Release()
}

func TestHold_FailedFlushTakesNoHold(t *testing.T) {
	p := newFakePersister()
	p.setErr(errTransport)
	acc := newTestAccumulator(p, clockwork.NewFakeClock())

	require.NoError(t, acc.Credit(10))
	err := acc.Hold(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFlushFailed)

	p.setErr(nil)
	require.NoError(t, acc.Flush(context.Background()))
	assert.Zero(t, acc.Status().Pending)
	acc.Release()
}
