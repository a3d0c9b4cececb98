// Package fake provides a stateful in-memory implementation of the repository interfaces for tests.
package fake

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/osse101/TapQuest_Go/internal/domain"
	"github.com/osse101/TapQuest_Go/internal/repository"
)

// Store keeps users and completed tasks in maps.
// Transactions are serialized and applied on Commit.
type Store struct {
	mu        sync.Mutex
	txMu      sync.Mutex
	users     map[string]domain.UserProgress
	completed map[string]map[string]domain.CompletedTask // identity -> task id

	// Err, when set, is returned by every operation
	Err error
	now func() time.Time
}

var (
	_ repository.User        = (*Store)(nil)
	_ repository.Quest       = (*Store)(nil)
	_ repository.Leaderboard = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		users:     make(map[string]domain.UserProgress),
		completed: make(map[string]map[string]domain.CompletedTask),
		now:       time.Now,
	}
}

// Seed stores users as-is
func (s *Store) Seed(users ...domain.UserProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		s.users[u.Identity] = u
	}
}

// User returns the stored record, bypassing Err
func (s *Store) User(identity string) (domain.UserProgress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[identity]
	return u, ok
}

func (s *Store) GetUser(ctx context.Context, identity string) (*domain.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[identity]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (s *Store) RegisterUser(ctx context.Context, user domain.UserProgress) (*domain.UserProgress, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, false, s.Err
	}

	now := s.now()
	if existing, ok := s.users[user.Identity]; ok {
		existing.Name = user.Name
		existing.IsPremium = user.IsPremium
		existing.UpdatedAt = now
		s.users[user.Identity] = existing
		return &existing, false, nil
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.Identity] = user
	return &user, true, nil
}

func (s *Store) UpdateBalances(ctx context.Context, identity string, balance, totalEarned int64) (*domain.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[identity]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if totalEarned < u.TotalEarned {
		return nil, domain.ErrTotalEarnedDecrease
	}
	u.Balance = balance
	u.TotalEarned = totalEarned
	u.UpdatedAt = s.now()
	s.users[identity] = u
	return &u, nil
}

func (s *Store) ListCompletedTasks(ctx context.Context, identity string) ([]domain.CompletedTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]domain.CompletedTask, 0, len(s.completed[identity]))
	for _, ct := range s.completed[identity] {
		out = append(out, ct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.Before(out[j].CompletedAt) })
	return out, nil
}

func (s *Store) TopByTotalEarned(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	users := make([]domain.UserProgress, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].TotalEarned != users[j].TotalEarned {
			return users[i].TotalEarned > users[j].TotalEarned
		}
		return users[i].Identity < users[j].Identity
	})
	if limit < len(users) {
		users = users[:limit]
	}
	entries := make([]domain.LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = domain.LeaderboardEntry{Rank: i + 1, Identity: u.Identity, Name: u.Name, TotalEarned: u.TotalEarned}
	}
	return entries, nil
}

func (s *Store) BeginTx(ctx context.Context) (repository.Tx, error) {
	s.mu.Lock()
	err := s.Err
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.txMu.Lock()
	return &tx{store: s, users: make(map[string]domain.UserProgress)}, nil
}

type tx struct {
	store *Store
	users map[string]domain.UserProgress
	tasks []domain.CompletedTask
	done  bool
}

func (t *tx) GetUserForUpdate(ctx context.Context, identity string) (*domain.UserProgress, error) {
	if u, ok := t.users[identity]; ok {
		return &u, nil
	}
	return t.store.GetUser(ctx, identity)
}

func (t *tx) SaveUser(ctx context.Context, user domain.UserProgress) error {
	user.UpdatedAt = t.store.now()
	t.users[user.Identity] = user
	return nil
}

func (t *tx) InsertCompletedTask(ctx context.Context, task domain.CompletedTask) error {
	t.store.mu.Lock()
	_, exists := t.store.completed[task.Identity][task.TaskID]
	t.store.mu.Unlock()
	if exists {
		return domain.ErrTaskAlreadyClaimed
	}
	for _, staged := range t.tasks {
		if staged.Identity == task.Identity && staged.TaskID == task.TaskID {
			return domain.ErrTaskAlreadyClaimed
		}
	}
	t.tasks = append(t.tasks, task)
	return nil
}

func (t *tx) Commit(ctx context.Context) error {
	if t.done {
		return domain.ErrTxClosed
	}
	t.done = true
	defer t.store.txMu.Unlock()

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for id, u := range t.users {
		t.store.users[id] = u
	}
	for _, task := range t.tasks {
		if t.store.completed[task.Identity] == nil {
			t.store.completed[task.Identity] = make(map[string]domain.CompletedTask)
		}
		t.store.completed[task.Identity][task.TaskID] = task
	}
	return nil
}

func (t *tx) Rollback(ctx context.Context) error {
	if t.done {
		return domain.ErrTxClosed
	}
	t.done = true
	t.store.txMu.Unlock()
	return nil
}
