package shop

import (
	"context"
	"fmt"

	"github.com/osse101/TapQuest_Go/internal/domain"
	"github.com/osse101/TapQuest_Go/internal/logger"
	"github.com/osse101/TapQuest_Go/internal/metrics"
	"github.com/osse101/TapQuest_Go/internal/repository"
	"github.com/osse101/TapQuest_Go/internal/user"
)

// Service defines the interface for upgrade shop operations
type Service interface {
	// Catalog prices every item for the user
	Catalog(ctx context.Context, identity string) ([]domain.ShopOffer, error)
	Purchase(ctx context.Context, identity string, itemType domain.ItemType) (*domain.PurchaseResult, error)
}

type service struct {
	catalog *Catalog
	repo    repository.User
	users   user.Service
}

// NewService creates a shop service
func NewService(catalog *Catalog, repo repository.User, users user.Service) Service {
	return &service{
		catalog: catalog,
		repo:    repo,
		users:   users,
	}
}

func (s *service) Catalog(ctx context.Context, identity string) ([]domain.ShopOffer, error) {
	u, err := s.users.GetUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	items := s.catalog.Items()
	offers := make([]domain.ShopOffer, len(items))
	for i, item := range items {
		offers[i] = Offer(item, *u)
	}
	return offers, nil
}

// Purchase buys the next level of an upgrade inside one transaction.
// tapStrength also raises earn per tap by one.
func (s *service) Purchase(ctx context.Context, identity string, itemType domain.ItemType) (*domain.PurchaseResult, error) {
	if err := user.ValidateIdentity(identity); err != nil {
		return nil, err
	}
	item, ok := s.catalog.Item(itemType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidItemType, itemType)
	}

	unlock := s.users.Lock(identity)
	defer unlock()
	// the row changes whatever the outcome of the commit
	defer s.users.Invalidate(identity)

	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer repository.SafeRollback(ctx, tx)

	u, err := tx.GetUserForUpdate(ctx, identity)
	if err != nil {
		return nil, err
	}

	level := u.ItemLevels.Level(itemType)
	if level >= item.MaxLevel {
		log.Info(LogMsgPurchaseBlocked, "identity", identity, "item", itemType, "reason", domain.ErrMsgMaxLevel)
		return nil, domain.ErrMaxLevel
	}
	cost := domain.UpgradeCost(item.BaseCost, level)
	if u.Balance < cost {
		log.Info(LogMsgPurchaseBlocked, "identity", identity, "item", itemType,
			"reason", domain.ErrMsgInsufficientFunds, "cost", cost, "balance", u.Balance)
		return nil, domain.ErrInsufficientFunds
	}

	u.Balance -= cost
	u.ItemLevels = u.ItemLevels.With(itemType, level+1)
	if itemType == domain.ItemTapStrength {
		u.EarnPerTap++
	}

	if err := tx.SaveUser(ctx, *u); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}

	metrics.UpgradesBought.WithLabelValues(string(itemType)).Inc()
	metrics.PointsSpent.Add(float64(cost))
	log.Info(LogMsgUpgradeBought, "identity", identity, "item", itemType, "level", level+1, "cost", cost)

	return &domain.PurchaseResult{Success: true, Cost: cost, User: *u}, nil
}
