// Package energy tracks the stamina that gates taps and regenerates over wall-clock time.
package energy

import (
	"math"
	"sync"
	"time"

	"github.com/osse101/TapQuest_Go/internal/domain"
)

// Phase is the logical state of the accumulator
type Phase string

const (
	PhaseRegenerating Phase = "regenerating"
	PhaseFull         Phase = "full"
)

// State is a point-in-time copy of the accumulator
type State struct {
	Current   float64   `json:"current"`
	Capacity  float64   `json:"capacity"`
	RegenRate float64   `json:"regen_rate"`
	LastTick  time.Time `json:"last_tick"`
	Phase     Phase     `json:"phase"`
}

// Accumulator owns the current energy value. Safe for concurrent use.
type Accumulator struct {
	mu        sync.Mutex
	current   float64
	capacity  float64
	regenRate float64
	lastTick  time.Time

	// levels queued by SetLevels, applied on the next Reconcile
	pendingLevels *domain.ItemLevels
}

// New creates an accumulator for the given upgrade levels.
// current is clamped into [0, capacity].
func New(levels domain.ItemLevels, current float64, lastTick time.Time) *Accumulator {
	a := &Accumulator{
		capacity:  domain.EnergyCapacity(levels),
		regenRate: domain.RegenRate(levels),
		lastTick:  lastTick,
	}
	a.current = clamp(current, a.capacity)
	return a
}

// Reconcile credits regeneration for the time elapsed since the last tick.
// Elapsed time is clamped at zero, so a clock that moves backwards credits nothing.
func (a *Accumulator) Reconcile(now time.Time) State {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pendingLevels != nil {
		a.capacity = domain.EnergyCapacity(*a.pendingLevels)
		a.regenRate = domain.RegenRate(*a.pendingLevels)
		a.pendingLevels = nil
		a.current = clamp(a.current, a.capacity)
	}

	elapsed := now.Sub(a.lastTick).Seconds()
	if elapsed < 0 || a.lastTick.IsZero() {
		elapsed = 0
	}
	a.current = math.Min(a.capacity, a.current+elapsed*a.regenRate)
	if now.After(a.lastTick) {
		a.lastTick = now
	}

	return a.snapshotLocked()
}

// CanTap reports whether a tap may be accepted
func (a *Accumulator) CanTap() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current > 0
}

// Debit subtracts amount, floored at zero. It is a no-op when energy is
// already exhausted and reports whether anything was debited.
func (a *Accumulator) Debit(amount float64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current <= 0 || amount <= 0 {
		return false
	}
	a.current = math.Max(0, a.current-amount)
	return true
}

// SetLevels queues new upgrade levels; capacity and regen rate change on the next Reconcile
func (a *Accumulator) SetLevels(levels domain.ItemLevels) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pendingLevels = &levels
}

// Snapshot returns the current state without reconciling
func (a *Accumulator) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *Accumulator) snapshotLocked() State {
	phase := PhaseRegenerating
	if a.current >= a.capacity {
		phase = PhaseFull
	}
	return State{
		Current:   a.current,
		Capacity:  a.capacity,
		RegenRate: a.regenRate,
		LastTick:  a.lastTick,
		Phase:     phase,
	}
}

func clamp(v, capacity float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > capacity {
		return capacity
	}
	return v
}
