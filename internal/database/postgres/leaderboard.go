package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/TapQuest_Go/internal/domain"
	"github.com/osse101/TapQuest_Go/internal/repository"
)

// LeaderboardRepository implements repository.Leaderboard for PostgreSQL
type LeaderboardRepository struct {
	db *pgxpool.Pool
}

var _ repository.Leaderboard = (*LeaderboardRepository)(nil)

func NewLeaderboardRepository(db *pgxpool.Pool) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// TopByTotalEarned ranks users by total earned, ties broken by identity
func (r *LeaderboardRepository) TopByTotalEarned(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT identity, name, total_earned
		FROM users
		ORDER BY total_earned DESC, identity
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryLeaderboard, err)
	}
	defer rows.Close()

	entries := make([]domain.LeaderboardEntry, 0, limit)
	for rows.Next() {
		e := domain.LeaderboardEntry{Rank: len(entries) + 1}
		if err := rows.Scan(&e.Identity, &e.Name, &e.TotalEarned); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryLeaderboard, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryLeaderboard, err)
	}
	return entries, nil
}
