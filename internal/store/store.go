package store

import (
	"context"
	"time"
)

// Todo is a persisted todo item with its last computed priority score.
type Todo struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Completed       bool       `json:"completed"`
	Tags            []string   `json:"tags"`
	DurationMinutes int        `json:"duration_minutes"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	PriorityScore   float64    `json:"priority_score"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SaveTodoInput carries the fields accepted for create/update operations.
type SaveTodoInput struct {
	Title           string
	Completed       bool
	Tags            []string
	DurationMinutes int
	DueDate         *time.Time
	PriorityScore   float64
}

// TodoFilter narrows ListTodos results.
type TodoFilter struct {
	Completed *bool
	Limit     int
	Offset    int
}

// TodoStats summarizes the stored dataset; the daily pipeline feeds
// these figures to the tracking server.
type TodoStats struct {
	Total              int     `json:"total"`
	Completed          int     `json:"completed"`
	Pending            int     `json:"pending"`
	AvgDurationMinutes float64 `json:"avg_duration_minutes"`
	AvgPriority        float64 `json:"avg_priority"`
}

type Store interface {
	CreateTodo(ctx context.Context, input SaveTodoInput) (*Todo, error)
	GetTodo(ctx context.Context, id int64) (*Todo, error)
	ListTodos(ctx context.Context, filter TodoFilter) ([]*Todo, error)
	UpdateTodo(ctx context.Context, id int64, input SaveTodoInput) (*Todo, error)
	DeleteTodo(ctx context.Context, id int64) (bool, error)

	GetStats(ctx context.Context) (*TodoStats, error)

	Close() error
}
