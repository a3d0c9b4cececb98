// Package earnings credits tap rewards optimistically and persists them in debounced,
// serialized batches.
//
// The accumulator is a small state machine over three fields: pending (points not yet
// confirmed by the persistence API), inFlight (a send is outstanding) and timer (the debounce
// handle). Its transitions are Credit (a tap), timerFires and flushSettles. Every send carries
// absolute totals, and at most one send is outstanding at a time, so a slow response can never
// overwrite a newer one.
//
// Hold and Release bracket a server-side mutation such as a purchase: no send starts while a
// hold is active, and sends requested meanwhile run once the hold is released.
package earnings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/osse101/TapQuest_Go/internal/domain"
	"github.com/osse101/TapQuest_Go/internal/metrics"
)

var (
	ErrFlushFailed = errors.New(ErrMsgFlushFailed)
	ErrClosed      = errors.New(ErrMsgClosed)
)

// Persister writes absolute progress values for an identity
type Persister interface {
	UpdateUser(ctx context.Context, identity string, balance, totalEarned int64) error
}

// Config tunes debounce and send timeout
type Config struct {
	Debounce     time.Duration
	FlushTimeout time.Duration
}

// Status is a point-in-time view of the accumulator
type Status struct {
	Balance     int64  `json:"balance"`
	TotalEarned int64  `json:"total_earned"`
	Pending     int64  `json:"pending"`
	InFlight    bool   `json:"in_flight"`
	PendingSave bool   `json:"pending_save"`
	LastError   string `json:"last_error,omitempty"`
}

// Accumulator owns optimistic totals and unsent earnings for one identity
type Accumulator struct {
	mu        sync.Mutex
	identity  string
	persister Persister
	clock     clockwork.Clock
	cfg       Config
	log       *slog.Logger

	balance     int64
	totalEarned int64

	pending        int64
	inFlight       bool
	timer          clockwork.Timer
	settled        chan struct{}
	held           chan struct{}
	flushRequested bool
	failed         bool
	lastErr        error
	closed         bool
}

// New creates an accumulator seeded from the persisted user record
func New(user domain.UserProgress, persister Persister, clock clockwork.Clock, cfg Config) *Accumulator {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.FlushTimeout <= 0 {
		cfg.FlushTimeout = DefaultFlushTimeout
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Accumulator{
		identity:    user.Identity,
		persister:   persister,
		clock:       clock,
		cfg:         cfg,
		log:         slog.Default().With("identity", user.Identity),
		balance:     user.Balance,
		totalEarned: user.TotalEarned,
	}
}

// Credit adds earned points to the local totals and (re)arms the debounce timer.
// Credits after Close are dropped.
func (a *Accumulator) Credit(earned int64) error {
	if earned <= 0 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}

	a.balance += earned
	a.totalEarned += earned
	a.pending += earned
	a.resetTimerLocked()
	return nil
}

// Adopt replaces local totals with a server record, keeping unsent earnings on top.
// Used after server-side mutations such as purchases.
func (a *Accumulator) Adopt(user domain.UserProgress) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.balance = user.Balance + a.pending
	a.totalEarned = user.TotalEarned + a.pending
}

// Status returns the current totals and flush state
func (a *Accumulator) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Status{
		Balance:     a.balance,
		TotalEarned: a.totalEarned,
		Pending:     a.pending,
		InFlight:    a.inFlight,
		PendingSave: a.failed || a.pending > 0,
	}
	if a.lastErr != nil {
		s.LastError = a.lastErr.Error()
	}
	return s
}

// Flush sends pending earnings now and waits for the result.
// An outstanding send or hold is awaited first; nothing is sent when there is nothing pending.
func (a *Accumulator) Flush(ctx context.Context) error {
	return a.flush(ctx, false)
}

// Hold flushes pending earnings and then blocks further sends until Release.
// Holds are exclusive: a second Hold waits for the first to be released.
// On error no hold is taken.
func (a *Accumulator) Hold(ctx context.Context) error {
	return a.flush(ctx, true)
}

// Release ends a hold and starts any send requested while it was active
func (a *Accumulator) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.held == nil {
		return
	}
	close(a.held)
	a.held = nil

	if a.flushRequested && !a.closed {
		a.flushRequested = false
		a.startFlushLocked()
	}
}

func (a *Accumulator) flush(ctx context.Context, hold bool) error {
	for {
		a.mu.Lock()
		if wait := a.busyLocked(); wait != nil {
			a.mu.Unlock()
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if a.pending == 0 {
			if hold {
				a.held = make(chan struct{})
			}
			a.mu.Unlock()
			return nil
		}

		if a.timer != nil {
			a.timer.Stop()
		}
		balance, total, sent := a.beginFlushLocked()
		if hold {
			a.held = make(chan struct{})
		}
		a.mu.Unlock()

		err := a.send(ctx, balance, total, sent)
		if err != nil && hold {
			a.Release()
		}
		return err
	}
}

// busyLocked returns a channel closed when the outstanding send or hold ends, or nil when idle
func (a *Accumulator) busyLocked() <-chan struct{} {
	if a.inFlight {
		return a.settled
	}
	return a.held
}

// Close stops the debounce timer and makes a best-effort final flush
func (a *Accumulator) Close(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
	}
	hasPending := a.pending > 0
	a.mu.Unlock()

	if hasPending {
		a.log.Info(LogMsgFinalFlush)
	}
	return a.Flush(ctx)
}

func (a *Accumulator) resetTimerLocked() {
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = a.clock.AfterFunc(a.cfg.Debounce, a.timerFires)
}

func (a *Accumulator) timerFires() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.startFlushLocked()
}

// startFlushLocked launches an asynchronous send, or records that one is
// wanted once the outstanding send settles.
func (a *Accumulator) startFlushLocked() {
	if a.inFlight || a.held != nil {
		a.flushRequested = true
		return
	}
	if a.pending == 0 {
		return
	}

	balance, total, sent := a.beginFlushLocked()
	go func() {
		_ = a.send(context.Background(), balance, total, sent)
	}()
}

func (a *Accumulator) beginFlushLocked() (balance, total, sent int64) {
	a.inFlight = true
	a.settled = make(chan struct{})
	return a.balance, a.totalEarned, a.pending
}

func (a *Accumulator) send(ctx context.Context, balance, total, sent int64) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.FlushTimeout)
	defer cancel()

	a.log.Debug(LogMsgFlushStarted, "balance", balance, "total_earned", total, "amount", sent)
	err := a.persister.UpdateUser(ctx, a.identity, balance, total)
	a.flushSettles(sent, err)

	if err != nil {
		return fmt.Errorf("%w: %w", ErrFlushFailed, err)
	}
	return nil
}

func (a *Accumulator) flushSettles(sent int64, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.inFlight = false
	close(a.settled)
	a.settled = nil

	if err != nil {
		a.failed = true
		a.lastErr = err
		metrics.EarningsFlushes.WithLabelValues(ResultFailure).Inc()
		a.log.Warn(LogMsgFlushFailed, "error", err, "pending", a.pending)
	} else {
		// Taps credited while the send was outstanding remain pending.
		a.pending -= sent
		a.failed = false
		a.lastErr = nil
		metrics.EarningsFlushes.WithLabelValues(ResultSuccess).Inc()
		metrics.EarningsFlushedPoints.Add(float64(sent))
		a.log.Debug(LogMsgFlushSucceeded, "amount", sent, "pending", a.pending)
	}

	if a.flushRequested && a.held == nil {
		a.flushRequested = false
		if !a.closed {
			a.startFlushLocked()
		}
	}
}
