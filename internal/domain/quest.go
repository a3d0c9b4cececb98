package domain

import "time"

// Task is a social-media quest from the task catalog
type Task struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Points int64  `json:"points"`
	Type   string `json:"type"`
	URL    string `json:"url"`
}

// TaskStatus is a catalog task annotated with the user's completion state
type TaskStatus struct {
	Task
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// CompletedTask records a claimed task
type CompletedTask struct {
	ID          string    `json:"id"`
	Identity    string    `json:"identity"`
	TaskID      string    `json:"task_id"`
	Points      int64     `json:"points"`
	CompletedAt time.Time `json:"completed_at"`
}

// TaskCatalog is the on-disk shape of the task catalog
type TaskCatalog struct {
	Version string `json:"version"`
	Tasks   []Task `json:"tasks"`
}

// ClaimResult is returned after a task reward is credited
type ClaimResult struct {
	Success bool         `json:"success"`
	Points  int64        `json:"points"`
	User    UserProgress `json:"user"`
}
