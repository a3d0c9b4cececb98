package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/TapQuest_Go/internal/domain"
	"github.com/osse101/TapQuest_Go/internal/user"
)

// MockUserService implements user.Service for testing
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUser(ctx context.Context, identity string) (*domain.UserProgress, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProgress), args.Error(1)
}

func (m *MockUserService) RegisterUser(ctx context.Context, identity, name string, isPremium bool) (*domain.UserProgress, error) {
	args := m.Called(ctx, identity, name, isPremium)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProgress), args.Error(1)
}

func (m *MockUserService) UpdateProgress(ctx context.Context, identity string, balance, totalEarned int64) (*domain.UserProgress, error) {
	args := m.Called(ctx, identity, balance, totalEarned)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProgress), args.Error(1)
}

func (m *MockUserService) GetProfile(ctx context.Context, identity string) (*domain.Profile, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockUserService) Invalidate(identity string) {
	m.Called(identity)
}

func (m *MockUserService) Lock(identity string) func() {
	m.Called(identity)
	return func() {}
}

func (m *MockUserService) GetCacheStats() user.CacheStats {
	return user.CacheStats{}
}

// MockShopService implements shop.Service for testing
type MockShopService struct {
	mock.Mock
}

func (m *MockShopService) Catalog(ctx context.Context, identity string) ([]domain.ShopOffer, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShopOffer), args.Error(1)
}

func (m *MockShopService) Purchase(ctx context.Context, identity string, itemType domain.ItemType) (*domain.PurchaseResult, error) {
	args := m.Called(ctx, identity, itemType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseResult), args.Error(1)
}

// MockQuestService implements quest.Service for testing
type MockQuestService struct {
	mock.Mock
}

func (m *MockQuestService) ListTasks(ctx context.Context, identity string) ([]domain.TaskStatus, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaskStatus), args.Error(1)
}

func (m *MockQuestService) ClaimTask(ctx context.Context, identity, taskID string) (*domain.ClaimResult, error) {
	args := m.Called(ctx, identity, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClaimResult), args.Error(1)
}

// MockLeaderboardService implements leaderboard.Service for testing
type MockLeaderboardService struct {
	mock.Mock
}

func (m *MockLeaderboardService) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}

// MockDBPool implements database.Pool for testing
type MockDBPool struct {
	mock.Mock
}

func (m *MockDBPool) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockDBPool) Close() {
	m.Called()
}
