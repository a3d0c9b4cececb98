package repository

import (
	"context"

	"github.com/osse101/TapQuest_Go/internal/domain"
)

// Tx defines the interface for transactional operations
type Tx interface {
	// GetUserForUpdate locks the user row until the transaction ends
	GetUserForUpdate(ctx context.Context, identity string) (*domain.UserProgress, error)
	// SaveUser writes balance, total earned, earn per tap and item levels
	SaveUser(ctx context.Context, user domain.UserProgress) error
	// InsertCompletedTask returns domain.ErrTaskAlreadyClaimed on a duplicate claim
	InsertCompletedTask(ctx context.Context, task domain.CompletedTask) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
