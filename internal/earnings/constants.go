package earnings

import "time"

// Defaults
const (
	DefaultDebounce     = 500 * time.Millisecond
	DefaultFlushTimeout = 5 * time.Second
)

// Error messages
const (
	ErrMsgFlushFailed = "flush failed"
	ErrMsgClosed      = "accumulator closed"
)

// Log messages
const (
	LogMsgFlushStarted   = "Flushing earnings"
	LogMsgFlushSucceeded = "Earnings flushed"
	LogMsgFlushFailed    = "Earnings flush failed, will retry"
	LogMsgFinalFlush     = "Final earnings flush on teardown"
)

// Metric result labels
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)
