package postgres

// PostgreSQL error codes
const (
	PgErrorCodeUniqueViolation = "23505"
	PgErrorCodeCheckViolation  = "23514"
)

// Error message prefixes
const (
	ErrMsgFailedToGetUser          = "failed to get user"
	ErrMsgFailedToRegisterUser     = "failed to register user"
	ErrMsgFailedToUpdateBalances   = "failed to update balances"
	ErrMsgFailedToSaveUser         = "failed to save user"
	ErrMsgFailedToBeginTx          = "failed to begin transaction"
	ErrMsgFailedToInsertTask       = "failed to insert completed task"
	ErrMsgFailedToListTasks        = "failed to list completed tasks"
	ErrMsgFailedToQueryLeaderboard = "failed to query leaderboard"
)

const (
	LogMsgFailedToRollback = "Failed to rollback transaction"
)

// userColumns is the column list scanned by scanUser, in order
const userColumns = `identity, name, is_premium, balance, total_earned, earn_per_tap,
	tap_strength_level, recover_speed_level, energy_level_level, created_at, updated_at`
