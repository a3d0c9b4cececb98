package postgres

import (
	"context"
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

	"github.com/osse101/TapQuest_Go/internal/database"
	"github.com/osse101/TapQuest_Go/internal/domain"
)

var (
	testDBConnString string
	testPool         *pgxpool.Pool
	migrationsOnce   sync.Once
	migrationsErr    error
)

func TestMain(m *testing.M) {
	flag.Parse()

	var terminate func()
	if !testing.Short() {
		testDBConnString, terminate = setupContainer(context.Background())
	}

	code := m.Run()

	if testPool != nil {
		testPool.Close()
	}
	if terminate != nil {
		terminate()
	}
	os.Exit(code)
}

func setupContainer(ctx context.Context) (string, func()) {
	// Handle potential panics from testcontainers
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic in setupContainer: %v\n", r)
		}
	}()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return "", func() {}
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Printf("WARNING: Failed to get connection string: %v\n", err)
		pgContainer.Terminate(ctx)
		return "", func() {}
	}

	return connStr, func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}
}

// setupDB returns a migrated, empty database or skips the test
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testDBConnString == "" {
		t.Skip("Skipping integration test: database not available")
	}

	ctx := context.Background()
	migrationsOnce.Do(func() {
		testPool, migrationsErr = database.NewPool(ctx, database.PoolConfig{ConnString: testDBConnString, MaxConns: 10})
		if migrationsErr != nil {
			return
		}
		migrationsErr = applyMigrations(ctx, t, testPool, "../../../migrations")
	})
	require.NoError(t, migrationsErr)

	resetTables(ctx, t, testPool)
	return testPool
}

func TestUserRepository_RegisterAndGet(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	repo := NewUserRepository(pool)

	_, err := repo.GetUser(ctx, "tg-1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	stored, created, err := repo.RegisterUser(ctx, domain.NewUserProgress("tg-1", "alice", false))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(0), stored.Balance)
	assert.Equal(t, 1, stored.EarnPerTap)
	assert.Equal(t, domain.ItemLevels{0, 0, 0}, stored.ItemLevels)

	again, created, err := repo.RegisterUser(ctx, domain.NewUserProgress("tg-1", "alice2", true))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "alice2", again.Name)
	assert.True(t, again.IsPremium)

	got, err := repo.GetUser(ctx, "tg-1")
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Name)
}

func TestUserRepository_UpdateBalances(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	repo := NewUserRepository(pool)

	_, _, err := repo.RegisterUser(ctx, domain.NewUserProgress("tg-1", "alice", false))
	require.NoError(t, err)

	u, err := repo.UpdateBalances(ctx, "tg-1", 120, 150)
	require.NoError(t, err)
	assert.Equal(t, int64(120), u.Balance)
	assert.Equal(t, int64(150), u.TotalEarned)

	// balance may go down, total earned may not
	u, err = repo.UpdateBalances(ctx, "tg-1", 100, 150)
	require.NoError(t, err)
	assert.Equal(t, int64(100), u.Balance)

	_, err = repo.UpdateBalances(ctx, "tg-1", 100, 149)
	assert.ErrorIs(t, err, domain.ErrTotalEarnedDecrease)

	_, err = repo.UpdateBalances(ctx, "missing", 1, 1)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = repo.UpdateBalances(ctx, "tg-1", -1, 200)
	assert.ErrorIs(t, err, domain.ErrNegativeBalance)
}

func TestTx_SaveUserRollbackAndCommit(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	repo := NewUserRepository(pool)

	_, _, err := repo.RegisterUser(ctx, domain.NewUserProgress("tg-1", "alice", false))
	require.NoError(t, err)

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	u, err := tx.GetUserForUpdate(ctx, "tg-1")
	require.NoError(t, err)
	u.Balance = 999
	require.NoError(t, tx.SaveUser(ctx, *u))
	require.NoError(t, tx.Rollback(ctx))

	got, err := repo.GetUser(ctx, "tg-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Balance, "rollback should discard the write")

	tx, err = repo.BeginTx(ctx)
	require.NoError(t, err)
	u, err = tx.GetUserForUpdate(ctx, "tg-1")
	require.NoError(t, err)
	u.Balance = 50
	u.EarnPerTap = 2
	u.ItemLevels = u.ItemLevels.With(domain.ItemTapStrength, 1)
	require.NoError(t, tx.SaveUser(ctx, *u))
	require.NoError(t, tx.Commit(ctx))

	got, err = repo.GetUser(ctx, "tg-1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.Balance)
	assert.Equal(t, 2, got.EarnPerTap)
	assert.Equal(t, 1, got.ItemLevels.Level(domain.ItemTapStrength))

	tx, err = repo.BeginTx(ctx)
	require.NoError(t, err)
	defer SafeRollback(ctx, tx.(*pgTx).tx)
	_, err = tx.GetUserForUpdate(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestQuestRepository_CompletedTasks(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	quests := NewQuestRepository(pool)

	_, _, err := users.RegisterUser(ctx, domain.NewUserProgress("tg-1", "alice", false))
	require.NoError(t, err)

	tx, err := quests.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.InsertCompletedTask(ctx, domain.CompletedTask{
		Identity: "tg-1", TaskID: "telegram1", Points: 1000, CompletedAt: time.Now(),
	}))
	require.NoError(t, tx.Commit(ctx))

	tx, err = quests.BeginTx(ctx)
	require.NoError(t, err)
	err = tx.InsertCompletedTask(ctx, domain.CompletedTask{
		Identity: "tg-1", TaskID: "telegram1", Points: 1000, CompletedAt: time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrTaskAlreadyClaimed)
	require.NoError(t, tx.Rollback(ctx))

	tasks, err := quests.ListCompletedTasks(ctx, "tg-1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "telegram1", tasks[0].TaskID)
	assert.NotEmpty(t, tasks[0].ID)

	tasks, err = quests.ListCompletedTasks(ctx, "tg-2")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestLeaderboardRepository_TopByTotalEarned(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	board := NewLeaderboardRepository(pool)

	totals := map[string]int64{"a": 300, "b": 500, "c": 300, "d": 10}
	for id, total := range totals {
		_, _, err := users.RegisterUser(ctx, domain.NewUserProgress(id, "n-"+id, false))
		require.NoError(t, err)
		_, err = users.UpdateBalances(ctx, id, total, total)
		require.NoError(t, err)
	}

	entries, err := board.TopByTotalEarned(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "b", entries[0].Identity)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "a", entries[1].Identity, "ties ordered by identity")
	assert.Equal(t, "c", entries[2].Identity)
	assert.Equal(t, 3, entries[2].Rank)
}
