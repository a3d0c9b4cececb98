package repository

import (
	"context"

	"github.com/osse101/TapQuest_Go/internal/domain"
)

// Leaderboard reads ranked users
type Leaderboard interface {
	// TopByTotalEarned returns up to limit entries ordered by total earned, highest first.
	// Rank is 1-based; Level is left for the caller.
	TopByTotalEarned(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}
