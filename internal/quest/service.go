package quest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/osse101/TapQuest_Go/internal/domain"
	"github.com/osse101/TapQuest_Go/internal/logger"
	"github.com/osse101/TapQuest_Go/internal/metrics"
	"github.com/osse101/TapQuest_Go/internal/repository"
	"github.com/osse101/TapQuest_Go/internal/user"
)

// Service defines the interface for social task operations
type Service interface {
	ListTasks(ctx context.Context, identity string) ([]domain.TaskStatus, error)
	// ClaimTask credits the task reward to balance and total earned exactly once per user
	ClaimTask(ctx context.Context, identity, taskID string) (*domain.ClaimResult, error)
}

type service struct {
	catalog *Catalog
	repo    repository.Quest
	users   user.Service
	clock   clockwork.Clock
}

func NewService(catalog *Catalog, repo repository.Quest, users user.Service, clock clockwork.Clock) Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &service{
		catalog: catalog,
		repo:    repo,
		users:   users,
		clock:   clock,
	}
}

func (s *service) ListTasks(ctx context.Context, identity string) ([]domain.TaskStatus, error) {
	if _, err := s.users.GetUser(ctx, identity); err != nil {
		return nil, err
	}

	completed, err := s.repo.ListCompletedTasks(ctx, identity)
	if err != nil {
		return nil, err
	}
	done := make(map[string]time.Time, len(completed))
	for _, ct := range completed {
		done[ct.TaskID] = ct.CompletedAt
	}

	tasks := s.catalog.Tasks()
	statuses := make([]domain.TaskStatus, len(tasks))
	for i, task := range tasks {
		statuses[i] = domain.TaskStatus{Task: task}
		if at, ok := done[task.ID]; ok {
			at := at
			statuses[i].Completed = true
			statuses[i].CompletedAt = &at
		}
	}
	return statuses, nil
}

func (s *service) ClaimTask(ctx context.Context, identity, taskID string) (*domain.ClaimResult, error) {
	if err := user.ValidateIdentity(identity); err != nil {
		return nil, err
	}
	task, ok := s.catalog.Task(taskID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrTaskNotFound, taskID)
	}

	unlock := s.users.Lock(identity)
	defer unlock()
	defer s.users.Invalidate(identity)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer repository.SafeRollback(ctx, tx)

	u, err := tx.GetUserForUpdate(ctx, identity)
	if err != nil {
		return nil, err
	}

	err = tx.InsertCompletedTask(ctx, domain.CompletedTask{
		ID:          uuid.NewString(),
		Identity:    identity,
		TaskID:      task.ID,
		Points:      task.Points,
		CompletedAt: s.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	u.Balance += task.Points
	u.TotalEarned += task.Points
	if err := tx.SaveUser(ctx, *u); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit task claim: %w", err)
	}

	metrics.TasksClaimed.WithLabelValues(task.ID).Inc()
	metrics.PointsFromTasks.Add(float64(task.Points))
	logger.FromContext(ctx).Info("Task claimed", "identity", identity, "task", task.ID, "points", task.Points)

	return &domain.ClaimResult{Success: true, Points: task.Points, User: *u}, nil
}
