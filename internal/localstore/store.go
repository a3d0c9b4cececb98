// Package localstore keeps session state on the device between runs.
//
// Values are plain strings under fixed keys. Readers never trust them: every value goes through a
// parse-with-default helper, so a missing or corrupt entry degrades to a safe default instead of an error.
package localstore

import (
	"context"
	"errors"
)

// Keys
const (
	KeyEnergy       = "energy"
	KeyLastTick     = "last_tick"
	KeyUserSnapshot = "user_snapshot"
)

const (
	ErrMsgEmptyKey = "key cannot be empty"
	ErrMsgClosed   = "store is closed"
)

var (
	ErrEmptyKey = errors.New(ErrMsgEmptyKey)
	ErrClosed   = errors.New(ErrMsgClosed)
)

// Store is a durable string key/value store
type Store interface {
	// Get returns the value and whether it was present
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// SetMany writes all entries atomically
	SetMany(ctx context.Context, entries map[string]string) error
	Close() error
}
