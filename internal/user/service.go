package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/osse101/TapQuest_Go/internal/concurrency"
	"github.com/osse101/TapQuest_Go/internal/domain"
	"github.com/osse101/TapQuest_Go/internal/logger"
	"github.com/osse101/TapQuest_Go/internal/metrics"
	"github.com/osse101/TapQuest_Go/internal/repository"
)

// Service defines the interface for user operations
type Service interface {
	GetUser(ctx context.Context, identity string) (*domain.UserProgress, error)
	RegisterUser(ctx context.Context, identity, name string, isPremium bool) (*domain.UserProgress, error)
	// UpdateProgress stores absolute balance and total earned; last write wins for balance
	UpdateProgress(ctx context.Context, identity string, balance, totalEarned int64) (*domain.UserProgress, error)
	GetProfile(ctx context.Context, identity string) (*domain.Profile, error)

	// Invalidate drops the cached record after a write made elsewhere
	Invalidate(identity string)
	// Lock serializes writes for one identity across services
	Lock(identity string) func()
	GetCacheStats() CacheStats
}

type service struct {
	repo  repository.User
	locks *concurrency.LockManager
	cache *userCache
}

// NewService creates a user service
func NewService(repo repository.User, locks *concurrency.LockManager, cacheConfig CacheConfig) Service {
	if locks == nil {
		locks = concurrency.NewLockManager()
	}
	return &service{
		repo:  repo,
		locks: locks,
		cache: newUserCache(cacheConfig),
	}
}

// ValidateIdentity checks an identity is non-empty and bounded
func ValidateIdentity(identity string) error {
	if strings.TrimSpace(identity) == "" {
		return fmt.Errorf("%w: identity is required", domain.ErrInvalidInput)
	}
	if len(identity) > MaxIdentityLength {
		return fmt.Errorf("%w: identity exceeds %d characters", domain.ErrInvalidInput, MaxIdentityLength)
	}
	return nil
}

func (s *service) GetUser(ctx context.Context, identity string) (*domain.UserProgress, error) {
	if err := ValidateIdentity(identity); err != nil {
		return nil, err
	}
	if u, ok := s.cache.Get(identity); ok {
		return &u, nil
	}

	u, err := s.repo.GetUser(ctx, identity)
	if err != nil {
		return nil, err
	}
	s.cache.Set(*u)
	return u, nil
}

func (s *service) RegisterUser(ctx context.Context, identity, name string, isPremium bool) (*domain.UserProgress, error) {
	if err := ValidateIdentity(identity); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if r := []rune(name); len(r) > MaxNameLength {
		name = string(r[:MaxNameLength])
	}

	unlock := s.Lock(identity)
	defer unlock()

	stored, created, err := s.repo.RegisterUser(ctx, domain.NewUserProgress(identity, name, isPremium))
	if err != nil {
		return nil, err
	}
	s.cache.Set(*stored)

	if created {
		metrics.UsersRegistered.Inc()
		logger.FromContext(ctx).Info(LogMsgUserRegistered, "identity", identity)
	}
	return stored, nil
}

func (s *service) UpdateProgress(ctx context.Context, identity string, balance, totalEarned int64) (*domain.UserProgress, error) {
	if err := ValidateIdentity(identity); err != nil {
		return nil, err
	}
	if balance < 0 || totalEarned < 0 {
		return nil, fmt.Errorf("%w: balance and total earned must be non-negative", domain.ErrInvalidInput)
	}

	unlock := s.Lock(identity)
	defer unlock()

	prev, err := s.GetUser(ctx, identity)
	if err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)
	if totalEarned < prev.TotalEarned {
		log.Warn(LogMsgProgressRejected, "identity", identity,
			"stored_total", prev.TotalEarned, "sent_total", totalEarned)
		return nil, domain.ErrTotalEarnedDecrease
	}

	updated, err := s.repo.UpdateBalances(ctx, identity, balance, totalEarned)
	if err != nil {
		s.cache.Invalidate(identity)
		return nil, err
	}
	s.cache.Set(*updated)

	metrics.ProgressUpdates.Inc()
	metrics.PointsSynced.Add(float64(updated.TotalEarned - prev.TotalEarned))
	log.Debug(LogMsgProgressUpdated, "identity", identity,
		"balance", updated.Balance, "total_earned", updated.TotalEarned)
	return updated, nil
}

func (s *service) GetProfile(ctx context.Context, identity string) (*domain.Profile, error) {
	u, err := s.GetUser(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &domain.Profile{
		UserProgress: *u,
		LevelInfo:    domain.ComputeLevel(u.TotalEarned),
	}, nil
}

func (s *service) Invalidate(identity string) {
	s.cache.Invalidate(identity)
}

func (s *service) Lock(identity string) func() {
	return s.locks.Lock(identity)
}

func (s *service) GetCacheStats() CacheStats {
	return s.cache.GetStats()
}
