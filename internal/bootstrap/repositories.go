package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/TapQuest_Go/internal/database/postgres"
	"github.com/osse101/TapQuest_Go/internal/repository"
)

// Repositories holds all repository implementations used by the application
type Repositories struct {
	User        repository.User
	Quest       repository.Quest
	Leaderboard repository.Leaderboard
}

// InitializeRepositories creates the Postgres-backed repositories
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:        postgres.NewUserRepository(dbPool),
		Quest:       postgres.NewQuestRepository(dbPool),
		Leaderboard: postgres.NewLeaderboardRepository(dbPool),
	}
}
