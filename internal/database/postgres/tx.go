package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/TapQuest_Go/internal/domain"
	"github.com/osse101/TapQuest_Go/internal/repository"
)

type pgTx struct {
	tx pgx.Tx
}

var _ repository.Tx = (*pgTx)(nil)

func beginTx(ctx context.Context, db *pgxpool.Pool) (*pgTx, error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTx, err)
	}
	return &pgTx{tx: tx}, nil
}

// GetUserForUpdate locks the user row until the transaction ends
func (t *pgTx) GetUserForUpdate(ctx context.Context, identity string) (*domain.UserProgress, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE identity = $1 FOR UPDATE`, identity)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetUser, err)
	}
	return u, nil
}

func (t *pgTx) SaveUser(ctx context.Context, user domain.UserProgress) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE users SET
			balance = $2,
			total_earned = $3,
			earn_per_tap = $4,
			tap_strength_level = $5,
			recover_speed_level = $6,
			energy_level_level = $7,
			updated_at = NOW()
		WHERE identity = $1`,
		user.Identity, user.Balance, user.TotalEarned, user.EarnPerTap,
		user.ItemLevels[0], user.ItemLevels[1], user.ItemLevels[2])
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%s: %w", ErrMsgFailedToSaveUser, domain.ErrInvalidInput)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveUser, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// InsertCompletedTask returns domain.ErrTaskAlreadyClaimed on a duplicate (identity, task)
func (t *pgTx) InsertCompletedTask(ctx context.Context, task domain.CompletedTask) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	_, err := t.tx.Exec(ctx, `
		INSERT INTO completed_tasks (id, identity, task_id, points, completed_at)
		VALUES ($1, $2, $3, $4, $5)`,
		task.ID, task.Identity, task.TaskID, task.Points, task.CompletedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTaskAlreadyClaimed
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertTask, err)
	}
	return nil
}

func (t *pgTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *pgTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}
