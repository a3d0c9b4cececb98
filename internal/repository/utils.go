package repository

import (
	"context"
	"errors"

	"github.com/osse101/TapQuest_Go/internal/domain"
	"github.com/osse101/TapQuest_Go/internal/logger"
)

// SafeRollback rolls back a transaction and logs any error.
// Rolling back a committed transaction is not an error.
func SafeRollback(ctx context.Context, tx Tx) {
	if err := tx.Rollback(ctx); err != nil {
		// pgx.ErrTxClosed shares the message
		if !errors.Is(err, domain.ErrTxClosed) && err.Error() != domain.ErrMsgTxClosed {
			logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
		}
	}
}
