package repository

import (
	"context"

	"github.com/osse101/TapQuest_Go/internal/domain"
)

// Quest defines the interface for completed task persistence
type Quest interface {
	ListCompletedTasks(ctx context.Context, identity string) ([]domain.CompletedTask, error)
	BeginTx(ctx context.Context) (Tx, error)
}
