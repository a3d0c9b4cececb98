package database

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/osse101/TapQuest_Go/internal/testing/leaktest"
	"github.com/osse101/TapQuest_Go/migrations"
)

var testDBConnString string

func TestMain(m *testing.M) {
	flag.Parse()

	terminate := func() {}
	if !testing.Short() {
		testDBConnString, terminate = startPostgres(context.Background())
	}

	code := m.Run()
	terminate()
	os.Exit(code)
}

func startPostgres(ctx context.Context) (conn string, terminate func()) {
	terminate = func() {}
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("postgres container unavailable: %v\n", r)
		}
	}()

	c, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("tapquest_test"),
		postgres.WithUsername("tapquest"),
		postgres.WithPassword("tapquest"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: postgres container failed to start: %v\n", err)
		return "", terminate
	}

	conn, err = c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = c.Terminate(ctx)
		return "", terminate
	}
	return conn, func() { _ = c.Terminate(ctx) }
}

func requireDB(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testDBConnString == "" {
		t.Skip("Skipping integration test: database not available")
	}
}

type flakyPool struct {
	failures int
	pings    int
}

func (p *flakyPool) Ping(context.Context) error {
	p.pings++
	if p.pings <= p.failures {
		return errors.New("connection refused")
	}
	return nil
}

func (p *flakyPool) Close() {}

func TestPingWithRetry(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		attempts  int
		wantErr   bool
		wantPings int
	}{
		{"first ping succeeds", 0, 3, false, 1},
		{"recovers before attempts run out", 2, 3, false, 3},
		{"gives up after last attempt", 5, 3, true, 3},
		{"zero attempts pings once", 1, 0, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := &flakyPool{failures: tt.failures}
			err := pingWithRetry(context.Background(), pool, tt.attempts, time.Millisecond)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantPings, pool.pings)
		})
	}
}

func TestPingWithRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := &flakyPool{failures: 10}
	err := pingWithRetry(ctx, pool, 5, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, pool.pings)
}

func TestApplyLimits(t *testing.T) {
	pgCfg, err := pgxpool.ParseConfig("postgres://u:p@localhost:5432/db")
	require.NoError(t, err)

	applyLimits(pgCfg, PoolConfig{MaxConns: 1, MaxConnIdleTime: time.Minute})

	assert.Equal(t, int32(1), pgCfg.MaxConns)
	assert.Equal(t, int32(1), pgCfg.MinConns, "min conns never exceeds max")
	assert.Equal(t, time.Minute, pgCfg.MaxConnIdleTime)

	applyLimits(pgCfg, PoolConfig{MaxConns: 20})
	assert.Equal(t, DefaultMinConnections, pgCfg.MinConns)
}

func TestNewPool_InvalidConnString(t *testing.T) {
	_, err := NewPool(context.Background(), PoolConfig{ConnString: "://not-a-url"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgFailedToParseConnString)
}

func TestPool_ConcurrentAcquireReleasesConnections(t *testing.T) {
	requireDB(t)

	pool, err := NewPool(context.Background(), PoolConfig{ConnString: testDBConnString, MaxConns: 5})
	require.NoError(t, err)
	defer pool.Close()

	checker := leaktest.NewGoroutineChecker(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			var got int
			if err := pool.QueryRow(context.Background(), "SELECT $1::int", id).Scan(&got); err != nil {
				t.Errorf("query %d: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(0), pool.Stat().AcquiredConns())
	checker.Check(2)
}

func TestMigrate_AppliesSchemaIdempotently(t *testing.T) {
	requireDB(t)

	ctx := context.Background()
	pool, err := NewPool(ctx, PoolConfig{ConnString: testDBConnString, MaxConns: 4})
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, Migrate(ctx, pool, migrations.FS))
	require.NoError(t, Migrate(ctx, pool, migrations.FS), "second run should be a no-op")

	for _, table := range []string{"users", "completed_tasks"} {
		var exists bool
		err := pool.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)", table).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "table %s should exist", table)
	}

	_, err = pool.Exec(ctx,
		"INSERT INTO users (identity, name, balance, total_earned) VALUES ('tg-neg', 'n', -1, 0)")
	assert.Error(t, err, "negative balance should violate the check constraint")
}
