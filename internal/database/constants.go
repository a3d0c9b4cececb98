package database

import "time"

const (
	// DefaultMinConnections is kept warm unless MaxConns is lower
	DefaultMinConnections int32 = 2
	// DefaultConnectRetryDelay is the pause between startup pings
	DefaultConnectRetryDelay = time.Second
)

// Error messages
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToCreateMigrator  = "failed to create migration provider"
	ErrMsgFailedToMigrate         = "failed to apply migrations"
)

// Log messages
const (
	LogMsgSuccessfullyConnectedToDatabase = "Successfully connected to the database"
	LogMsgDatabaseNotReady                = "Database not ready, retrying"
	LogMsgMigrationApplied                = "Applied migration"
	LogMsgSchemaUpToDate                  = "Database schema up to date"
)
