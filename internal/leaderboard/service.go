// Package leaderboard ranks players by total points earned.
package leaderboard

import (
	"context"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/TapQuest_Go/internal/domain"
	"github.com/osse101/TapQuest_Go/internal/metrics"
	"github.com/osse101/TapQuest_Go/internal/repository"
)

// DefaultCacheTTL bounds how stale a served leaderboard can be
const DefaultCacheTTL = 10 * time.Second

// distinct limits cached at once
const cacheSize = 16

type Service interface {
	// Top returns up to limit entries; limit is clamped to [1, LeaderboardMaxLimit]
	// and non-positive values mean LeaderboardDefaultLimit.
	Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

type service struct {
	repo  repository.Leaderboard
	cache *expirable.LRU[string, []domain.LeaderboardEntry]
}

func NewService(repo repository.Leaderboard, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &service{
		repo:  repo,
		cache: expirable.NewLRU[string, []domain.LeaderboardEntry](cacheSize, nil, ttl),
	}
}

// NormalizeLimit applies the default and the upper bound
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return domain.LeaderboardDefaultLimit
	}
	if limit > domain.LeaderboardMaxLimit {
		return domain.LeaderboardMaxLimit
	}
	return limit
}

func (s *service) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	limit = NormalizeLimit(limit)
	key := strconv.Itoa(limit)

	if entries, ok := s.cache.Get(key); ok {
		metrics.LeaderboardReads.WithLabelValues(metrics.CacheHit).Inc()
		return cloneEntries(entries), nil
	}
	metrics.LeaderboardReads.WithLabelValues(metrics.CacheMiss).Inc()

	entries, err := s.repo.TopByTotalEarned(ctx, limit)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].Level = domain.ComputeLevel(entries[i].TotalEarned).Level
	}

	s.cache.Add(key, entries)
	return cloneEntries(entries), nil
}

func cloneEntries(in []domain.LeaderboardEntry) []domain.LeaderboardEntry {
	out := make([]domain.LeaderboardEntry, len(in))
	copy(out, in)
	return out
}
