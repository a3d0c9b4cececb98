package quest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/osse101/TapQuest_Go/internal/domain"
	"github.com/osse101/TapQuest_Go/internal/validation"
)

// Catalog is the immutable list of social tasks, in file order
type Catalog struct {
	Version string
	tasks   []domain.Task
	byID    map[string]domain.Task
}

// LoadCatalog reads a JSON task catalog and validates it against schemaPath
func LoadCatalog(path, schemaPath string, v validation.SchemaValidator) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task catalog %s: %w", path, err)
	}
	if err := v.ValidateBytes(data, schemaPath); err != nil {
		return nil, fmt.Errorf("task catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a task catalog; task ids must be unique
func ParseCatalog(data []byte) (*Catalog, error) {
	var file domain.TaskCatalog
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse task catalog: %w", err)
	}

	c := &Catalog{
		Version: file.Version,
		tasks:   make([]domain.Task, 0, len(file.Tasks)),
		byID:    make(map[string]domain.Task, len(file.Tasks)),
	}
	for _, task := range file.Tasks {
		if task.ID == "" || task.Points <= 0 {
			return nil, fmt.Errorf("%w: invalid task %q", domain.ErrInvalidInput, task.ID)
		}
		if _, dup := c.byID[task.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate task %q", domain.ErrInvalidInput, task.ID)
		}
		c.tasks = append(c.tasks, task)
		c.byID[task.ID] = task
	}
	return c, nil
}

func (c *Catalog) Tasks() []domain.Task {
	out := make([]domain.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

func (c *Catalog) Task(id string) (domain.Task, bool) {
	t, ok := c.byID[id]
	return t, ok
}
