package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/TapQuest_Go/internal/domain"
	"github.com/osse101/TapQuest_Go/internal/repository"
)

// QuestRepository implements repository.Quest for PostgreSQL
type QuestRepository struct {
	db *pgxpool.Pool
}

var _ repository.Quest = (*QuestRepository)(nil)

func NewQuestRepository(db *pgxpool.Pool) *QuestRepository {
	return &QuestRepository{db: db}
}

func (r *QuestRepository) ListCompletedTasks(ctx context.Context, identity string) ([]domain.CompletedTask, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, identity, task_id, points, completed_at
		FROM completed_tasks
		WHERE identity = $1
		ORDER BY completed_at`, identity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListTasks, err)
	}
	defer rows.Close()

	var tasks []domain.CompletedTask
	for rows.Next() {
		var ct domain.CompletedTask
		if err := rows.Scan(&ct.ID, &ct.Identity, &ct.TaskID, &ct.Points, &ct.CompletedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListTasks, err)
		}
		tasks = append(tasks, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListTasks, err)
	}
	return tasks, nil
}

func (r *QuestRepository) BeginTx(ctx context.Context) (repository.Tx, error) {
	return beginTx(ctx, r.db)
}
