package session

// Error messages
const (
	ErrMsgNoUserRecord = "no user record available"
	ErrMsgClosed       = "session closed"
	ErrMsgSyncFailed   = "could not sync earnings before server write"
)

// Log messages
const (
	LogMsgOpened            = "Session opened"
	LogMsgClosed            = "Session closed"
	LogMsgFetchUserFailed   = "Fetching user failed, trying cached snapshot"
	LogMsgUsingSnapshot     = "Using cached user snapshot"
	LogMsgRegisteringUser   = "User not found, registering"
	LogMsgLocalStateReset   = "Local energy state missing or corrupt, using defaults"
	LogMsgLocalReadFailed   = "Reading local state failed, using defaults"
	LogMsgPersistFailed     = "Persisting local state failed"
	LogMsgFinalFlushFailed  = "Final flush failed, earnings remain unsent"
	LogMsgPurchaseCompleted = "Upgrade purchased"
	LogMsgTaskClaimed       = "Task reward claimed"
)
