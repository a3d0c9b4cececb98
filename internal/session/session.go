// Package session runs one player's tap session: it loads persisted state, regenerates energy on a
// fixed tick, turns taps into optimistic earnings, and flushes them to the persistence API.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/osse101/TapQuest_Go/internal/client"
	"github.com/osse101/TapQuest_Go/internal/domain"
	"github.com/osse101/TapQuest_Go/internal/earnings"
	"github.com/osse101/TapQuest_Go/internal/energy"
	"github.com/osse101/TapQuest_Go/internal/localstore"
	"github.com/osse101/TapQuest_Go/internal/logger"
	"github.com/osse101/TapQuest_Go/internal/metrics"
	"github.com/osse101/TapQuest_Go/internal/scheduler"
	"github.com/osse101/TapQuest_Go/internal/worker"
)

var (
	ErrNoUserRecord = errors.New(ErrMsgNoUserRecord)
	ErrClosed       = errors.New(ErrMsgClosed)
	ErrSyncFailed   = errors.New(ErrMsgSyncFailed)
)

// API is the subset of the persistence API a session needs
type API interface {
	earnings.Persister
	GetUser(ctx context.Context, identity string) (domain.UserProgress, error)
	RegisterUser(ctx context.Context, identity, name string, isPremium bool) (domain.UserProgress, error)
	PurchaseItem(ctx context.Context, identity string, item domain.ItemType) (domain.PurchaseResult, error)
	ClaimTask(ctx context.Context, identity, taskID string) (domain.ClaimResult, error)
}

// Config tunes a session
type Config struct {
	Identity      string
	Name          string
	IsPremium     bool
	TickInterval  time.Duration
	FlushDebounce time.Duration
	FlushTimeout  time.Duration
	// DebitPerTouch charges one energy per touch point instead of one per tap event
	DebitPerTouch bool
}

// Deps are the collaborators a session is built from
type Deps struct {
	API    API
	Store  localstore.Store
	Clock  clockwork.Clock
	Config Config
}

// TapResult reports the outcome of one tap event
type TapResult struct {
	Accepted    bool    `json:"accepted"`
	Earned      int64   `json:"earned"`
	Energy      float64 `json:"energy"`
	Balance     int64   `json:"balance"`
	TotalEarned int64   `json:"total_earned"`
}

// Status is a snapshot of everything the player sees
type Status struct {
	SessionID   string            `json:"session_id"`
	Identity    string            `json:"identity"`
	Energy      energy.State      `json:"energy"`
	Balance     int64             `json:"balance"`
	TotalEarned int64             `json:"total_earned"`
	Pending     int64             `json:"pending"`
	PendingSave bool              `json:"pending_save"`
	EarnPerTap  int               `json:"earn_per_tap"`
	ItemLevels  domain.ItemLevels `json:"item_levels"`
	Level       domain.LevelInfo  `json:"level"`
	Offline     bool              `json:"offline"`
}

// Session is one open player session
type Session struct {
	id    string
	cfg   Config
	api   API
	store localstore.Store
	clock clockwork.Clock
	log   *slog.Logger

	mu      sync.Mutex
	user    domain.UserProgress
	closed  bool
	offline bool

	energy   *energy.Accumulator
	earnings *earnings.Accumulator
	pool     *worker.Pool
	sched    *scheduler.Scheduler
}

// Open loads the player record and local energy state, reconciles elapsed time and starts the regeneration tick.
// The user comes from the API, falling back to the cached snapshot; with neither, Open fails.
func Open(ctx context.Context, deps Deps) (*Session, error) {
	cfg := deps.Config
	if cfg.Identity == "" {
		return nil, fmt.Errorf("%w: identity is required", domain.ErrInvalidInput)
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	s := &Session{
		id:    uuid.NewString(),
		cfg:   cfg,
		api:   deps.API,
		store: deps.Store,
		clock: clock,
	}
	s.log = slog.Default().With("session_id", s.id, "identity", cfg.Identity)

	user, err := s.loadUser(ctx)
	if err != nil {
		return nil, err
	}
	s.user = user

	now := clock.Now()
	capacity := domain.EnergyCapacity(user.ItemLevels)
	rec, err := localstore.LoadEnergy(ctx, s.store, capacity, now)
	if err != nil {
		s.log.Warn(LogMsgLocalReadFailed, "error", err)
		rec = localstore.EnergyRecord{Energy: capacity, LastTick: now, Recovered: true}
	}
	if rec.Recovered {
		s.log.Info(LogMsgLocalStateReset, "energy", rec.Energy)
	}

	s.energy = energy.New(user.ItemLevels, rec.Energy, rec.LastTick)
	state := s.energy.Reconcile(now)
	s.persistEnergy(ctx, state)

	s.earnings = earnings.New(user, s.api, clock, earnings.Config{
		Debounce:     cfg.FlushDebounce,
		FlushTimeout: cfg.FlushTimeout,
	})

	s.pool = worker.NewPool(logger.WithIdentity(context.Background(), cfg.Identity), 1, 1)
	s.pool.Start()
	s.sched = scheduler.New(s.pool, clock)
	s.sched.Schedule(cfg.TickInterval, worker.JobFunc(s.tick))

	s.log.Info(LogMsgOpened, "energy", state.Current, "capacity", state.Capacity, "balance", user.Balance, "offline", s.offline)
	return s, nil
}

func (s *Session) loadUser(ctx context.Context) (domain.UserProgress, error) {
	user, err := s.api.GetUser(ctx, s.cfg.Identity)
	if errors.Is(err, client.ErrNotFound) {
		s.log.Info(LogMsgRegisteringUser)
		user, err = s.api.RegisterUser(ctx, s.cfg.Identity, s.cfg.Name, s.cfg.IsPremium)
	}
	if err == nil {
		if serr := localstore.SaveSnapshot(ctx, s.store, user); serr != nil {
			s.log.Warn(LogMsgPersistFailed, "error", serr)
		}
		return user, nil
	}

	s.log.Warn(LogMsgFetchUserFailed, "error", err)
	snapshot, ok, serr := localstore.LoadSnapshot(ctx, s.store)
	if serr != nil || !ok || snapshot.Identity != s.cfg.Identity {
		return domain.UserProgress{}, fmt.Errorf("%w: %w", ErrNoUserRecord, err)
	}

	s.log.Info(LogMsgUsingSnapshot, "balance", snapshot.Balance)
	s.offline = true
	return snapshot, nil
}

// tick reconciles energy against the clock and persists it.
// It holds s.mu so a tap's debit is never overwritten by an older reading.
func (s *Session) tick(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.energy.Reconcile(s.clock.Now())
	return localstore.SaveEnergy(ctx, s.store, state.Current, state.LastTick)
}

// Tap handles one tap event carrying touchCount touch points.
// Taps with a touch count outside 1..domain.MaxTouchesPerTap, without energy,
// or after Close are rejected without side effects.
func (s *Session) Tap(touchCount int) TapResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.energy.Reconcile(s.clock.Now())
	if s.closed || touchCount < 1 || touchCount > domain.MaxTouchesPerTap || !s.energy.CanTap() {
		metrics.TapsRejected.Inc()
		st := s.earnings.Status()
		return TapResult{Energy: state.Current, Balance: st.Balance, TotalEarned: st.TotalEarned}
	}

	earned := domain.TapYield(s.user.EarnPerTap, s.user.ItemLevels, touchCount)
	if earned <= 0 {
		metrics.TapsRejected.Inc()
		st := s.earnings.Status()
		return TapResult{Energy: state.Current, Balance: st.Balance, TotalEarned: st.TotalEarned}
	}
	if err := s.earnings.Credit(earned); err != nil {
		metrics.TapsRejected.Inc()
		st := s.earnings.Status()
		return TapResult{Energy: state.Current, Balance: st.Balance, TotalEarned: st.TotalEarned}
	}

	debit := 1.0
	if s.cfg.DebitPerTouch {
		debit = float64(touchCount)
	}
	s.energy.Debit(debit)
	metrics.Taps.Inc()

	state = s.energy.Snapshot()
	s.persistEnergy(context.Background(), state)

	st := s.earnings.Status()
	return TapResult{
		Accepted:    true,
		Earned:      earned,
		Energy:      state.Current,
		Balance:     st.Balance,
		TotalEarned: st.TotalEarned,
	}
}

// Purchase syncs pending earnings, buys the next level of item and adopts the server's record
func (s *Session) Purchase(ctx context.Context, item domain.ItemType) (domain.PurchaseResult, error) {
	if !item.Valid() {
		return domain.PurchaseResult{}, fmt.Errorf("%w: %s", domain.ErrInvalidItemType, item)
	}

	if err := s.holdEarnings(ctx); err != nil {
		return domain.PurchaseResult{}, err
	}
	defer s.earnings.Release()

	res, err := s.api.PurchaseItem(ctx, s.cfg.Identity, item)
	if err != nil {
		return domain.PurchaseResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.adoptLocked(ctx, res.User)

	s.log.Info(LogMsgPurchaseCompleted, "item", item, "cost", res.Cost, "level", res.User.ItemLevels.Level(item))
	return res, nil
}

// ClaimTask syncs pending earnings, claims a social task reward and adopts the credited record
func (s *Session) ClaimTask(ctx context.Context, taskID string) (domain.ClaimResult, error) {
	if err := s.holdEarnings(ctx); err != nil {
		return domain.ClaimResult{}, err
	}
	defer s.earnings.Release()

	res, err := s.api.ClaimTask(ctx, s.cfg.Identity, taskID)
	if err != nil {
		return domain.ClaimResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.adoptLocked(ctx, res.User)

	s.log.Info(LogMsgTaskClaimed, "task", taskID, "points", res.Points)
	return res, nil
}

// holdEarnings flushes pending earnings and pauses further syncs until the caller
// releases the hold after adopting the server's record. An absolute sync sent while a
// server-side write is outstanding would otherwise undo that write.
func (s *Session) holdEarnings(ctx context.Context) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}

	if err := s.earnings.Hold(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrSyncFailed, err)
	}
	return nil
}

// adoptLocked replaces the local record with one returned by the server.
// Caller must hold s.mu.
func (s *Session) adoptLocked(ctx context.Context, u domain.UserProgress) {
	s.user.Balance = u.Balance
	s.user.TotalEarned = u.TotalEarned
	s.user.EarnPerTap = u.EarnPerTap
	s.user.ItemLevels = u.ItemLevels
	s.user.UpdatedAt = u.UpdatedAt
	s.offline = false

	s.earnings.Adopt(u)
	s.energy.SetLevels(u.ItemLevels)
	state := s.energy.Reconcile(s.clock.Now())
	s.persistEnergy(ctx, state)
	s.persistSnapshotLocked(ctx)
}

// Status returns the current session view
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	es := s.earnings.Status()
	return Status{
		SessionID:   s.id,
		Identity:    s.cfg.Identity,
		Energy:      s.energy.Reconcile(s.clock.Now()),
		Balance:     es.Balance,
		TotalEarned: es.TotalEarned,
		Pending:     es.Pending,
		PendingSave: es.PendingSave,
		EarnPerTap:  s.user.EarnPerTap,
		ItemLevels:  s.user.ItemLevels,
		Level:       domain.ComputeLevel(es.TotalEarned),
		Offline:     s.offline,
	}
}

// Close stops the tick, persists local state and makes a best-effort final flush.
// The flush error is returned but the session is closed either way.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.sched.Stop()
	s.pool.Stop()

	state := s.energy.Reconcile(s.clock.Now())
	s.persistEnergy(ctx, state)

	err := s.earnings.Close(ctx)
	if err != nil {
		s.log.Warn(LogMsgFinalFlushFailed, "error", err, "pending", s.earnings.Status().Pending)
	}

	s.mu.Lock()
	s.persistSnapshotLocked(ctx)
	s.mu.Unlock()

	s.log.Info(LogMsgClosed, "energy", state.Current)
	return err
}

func (s *Session) persistEnergy(ctx context.Context, state energy.State) {
	if err := localstore.SaveEnergy(ctx, s.store, state.Current, state.LastTick); err != nil {
		s.log.Warn(LogMsgPersistFailed, "error", err)
	}
}

func (s *Session) persistSnapshotLocked(ctx context.Context) {
	snapshot := s.user
	es := s.earnings.Status()
	snapshot.Balance = es.Balance
	snapshot.TotalEarned = es.TotalEarned
	if err := localstore.SaveSnapshot(ctx, s.store, snapshot); err != nil {
		s.log.Warn(LogMsgPersistFailed, "error", err)
	}
}
