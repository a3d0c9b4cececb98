package concurrency

import "sync"

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// LockManager hands out one mutex per key. Entries are dropped once no
// goroutine holds or waits on them, so the map only grows with active keys.
type LockManager struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[string]*keyedLock)}
}

// Lock blocks until the key is free and returns the matching unlock func.
func (lm *LockManager) Lock(key string) func() {
	lm.mu.Lock()
	l, ok := lm.locks[key]
	if !ok {
		l = &keyedLock{}
		lm.locks[key] = l
	}
	l.refs++
	lm.mu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()
			lm.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(lm.locks, key)
			}
			lm.mu.Unlock()
		})
	}
}

// Active reports how many keys are currently locked or awaited.
func (lm *LockManager) Active() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return len(lm.locks)
}
