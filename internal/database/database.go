package database

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/TapQuest_Go/internal/logger"
)

// Pool is the slice of pgxpool the readiness probe and shutdown need
type Pool interface {
	Ping(ctx context.Context) error
	Close()
}

// PoolConfig tunes NewPool. Zero values fall back to pgx defaults, except
// ConnectAttempts which is treated as 1.
type PoolConfig struct {
	ConnString      string
	MaxConns        int
	MaxConnIdleTime time.Duration
	MaxConnLifetime time.Duration
	ConnectAttempts int
	RetryDelay      time.Duration
}

// NewPool opens a pgx pool and pings it, retrying while the database is
// still coming up.
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	pgCfg, err := pgxpool.ParseConfig(cfg.ConnString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToParseConnString, err)
	}
	applyLimits(pgCfg, cfg)

	pool, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreatePool, err)
	}

	if err := pingWithRetry(ctx, pool, cfg.ConnectAttempts, cfg.RetryDelay); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToPingDatabase, err)
	}

	logger.FromContext(ctx).Info(LogMsgSuccessfullyConnectedToDatabase,
		"max_conns", pgCfg.MaxConns, "min_conns", pgCfg.MinConns)
	return pool, nil
}

func applyLimits(pgCfg *pgxpool.Config, cfg PoolConfig) {
	maxConns := cfg.MaxConns
	if maxConns > math.MaxInt32 {
		maxConns = math.MaxInt32
	}
	if maxConns > 0 {
		pgCfg.MaxConns = int32(maxConns)
	}
	pgCfg.MinConns = min(pgCfg.MaxConns, DefaultMinConnections)
	if cfg.MaxConnIdleTime > 0 {
		pgCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.MaxConnLifetime > 0 {
		pgCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
}

func pingWithRetry(ctx context.Context, pool Pool, attempts int, delay time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}
	if delay <= 0 {
		delay = DefaultConnectRetryDelay
	}

	var err error
	for i := 1; i <= attempts; i++ {
		if err = pool.Ping(ctx); err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		logger.FromContext(ctx).Warn(LogMsgDatabaseNotReady, "attempt", i, "of", attempts, "error", err)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
