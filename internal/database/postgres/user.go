package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/TapQuest_Go/internal/domain"
	"github.com/osse101/TapQuest_Go/internal/repository"
)

// UserRepository implements repository.User for PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

var _ repository.User = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// GetUser returns the user or domain.ErrUserNotFound
func (r *UserRepository) GetUser(ctx context.Context, identity string) (*domain.UserProgress, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE identity = $1`, identity)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetUser, err)
	}
	return u, nil
}

// RegisterUser inserts the user, or refreshes name and premium flag when it already exists.
// created reports whether a new row was inserted.
func (r *UserRepository) RegisterUser(ctx context.Context, user domain.UserProgress) (*domain.UserProgress, bool, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (identity, name, is_premium, earn_per_tap)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (identity) DO UPDATE
			SET name = EXCLUDED.name, is_premium = EXCLUDED.is_premium, updated_at = NOW()
		RETURNING `+userColumns+`, (xmax = 0) AS created`,
		user.Identity, user.Name, user.IsPremium, user.EarnPerTap)

	var (
		u       domain.UserProgress
		created bool
	)
	err := row.Scan(
		&u.Identity, &u.Name, &u.IsPremium, &u.Balance, &u.TotalEarned, &u.EarnPerTap,
		&u.ItemLevels[0], &u.ItemLevels[1], &u.ItemLevels[2], &u.CreatedAt, &u.UpdatedAt,
		&created,
	)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", ErrMsgFailedToRegisterUser, err)
	}
	return &u, created, nil
}

// UpdateBalances overwrites balance and total earned.
// Returns domain.ErrTotalEarnedDecrease when totalEarned is below the stored value.
func (r *UserRepository) UpdateBalances(ctx context.Context, identity string, balance, totalEarned int64) (*domain.UserProgress, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE users SET balance = $2, total_earned = $3, updated_at = NOW()
		WHERE identity = $1 AND total_earned <= $3
		RETURNING `+userColumns,
		identity, balance, totalEarned)

	u, err := scanUser(row)
	switch {
	case err == nil:
		return u, nil
	case isCheckViolation(err):
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateBalances, domain.ErrNegativeBalance)
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateBalances, err)
	}

	// No row matched: distinguish a missing user from a decreasing total
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE identity = $1)`, identity).Scan(&exists); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateBalances, err)
	}
	if !exists {
		return nil, domain.ErrUserNotFound
	}
	return nil, domain.ErrTotalEarnedDecrease
}

// BeginTx starts a transaction for read-modify-write flows
func (r *UserRepository) BeginTx(ctx context.Context) (repository.Tx, error) {
	return beginTx(ctx, r.db)
}
