package repository

import (
	"context"

	"github.com/osse101/TapQuest_Go/internal/domain"
)

// User defines the interface for user persistence
type User interface {
	// GetUser returns domain.ErrUserNotFound when the identity is unknown
	GetUser(ctx context.Context, identity string) (*domain.UserProgress, error)
	// RegisterUser inserts the user, or refreshes name and premium flag of an existing one.
	// created reports whether a new row was written.
	RegisterUser(ctx context.Context, user domain.UserProgress) (stored *domain.UserProgress, created bool, err error)
	// UpdateBalances writes absolute balance and total earned.
	// Returns domain.ErrTotalEarnedDecrease if totalEarned is below the stored value.
	UpdateBalances(ctx context.Context, identity string, balance, totalEarned int64) (*domain.UserProgress, error)

	BeginTx(ctx context.Context) (Tx, error)
}
