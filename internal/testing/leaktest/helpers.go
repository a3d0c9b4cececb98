// Package leaktest checks that background goroutines started by a test
// are gone by the time it finishes.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	settleDelay  = 10 * time.Millisecond
	pollInterval = 10 * time.Millisecond
	// DefaultWait bounds how long Check waits for goroutines to exit.
	DefaultWait = 2 * time.Second
)

// GoroutineChecker records the goroutine count when created and compares
// against it in Check.
type GoroutineChecker struct {
	t      testing.TB
	before int
	wait   time.Duration
}

func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	runtime.Gosched()
	time.Sleep(settleDelay)
	return &GoroutineChecker{t: t, before: runtime.NumGoroutine(), wait: DefaultWait}
}

// WithWait overrides how long Check polls before reporting a leak.
func (g *GoroutineChecker) WithWait(d time.Duration) *GoroutineChecker {
	g.wait = d
	return g
}

// Check polls until at most tolerance extra goroutines remain, failing the
// test if that does not happen within the wait window.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()
	after := waitForCount(g.before+tolerance, g.wait)
	if leaked := after - g.before; leaked > tolerance {
		g.t.Errorf("goroutine leak: before=%d after=%d leaked=%d tolerance=%d",
			g.before, after, leaked, tolerance)
	}
}

// CheckNoGoroutineLeak runs fn and requires the goroutine count to return
// to where it started.
func CheckNoGoroutineLeak(t testing.TB, fn func()) {
	t.Helper()
	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}

func waitForCount(target int, wait time.Duration) int {
	deadline := time.Now().Add(wait)
	for {
		runtime.Gosched()
		n := runtime.NumGoroutine()
		if n <= target || time.Now().After(deadline) {
			return n
		}
		time.Sleep(pollInterval)
	}
}
