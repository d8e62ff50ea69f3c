package repository

import (
	"context"

	"tasktracker/internal/model"
)

// TaskRepository provides access to tasks and their comments.
type TaskRepository interface {
	// Create inserts a new task and returns its store-assigned id.
	Create(ctx context.Context, t *model.Task) (int64, error)

	// GetByID loads a task with its comments.
	GetByID(ctx context.Context, id int64) (*model.Task, error)

	// List returns tasks matching the filter, ordered by id, paginated.
	// Nil filter fields add no constraint.
	List(ctx context.Context, f model.TaskFilter, page, size int) ([]model.Task, error)

	// Update persists mutable task fields (title, description, status,
	// priority, author, performer) of an existing task.
	Update(ctx context.Context, t *model.Task) error

	// Delete removes a task; its comments cascade.
	Delete(ctx context.Context, id int64) error

	// AddComment appends a single comment to a task. Each comment is its own
	// insert, so concurrent additions to one task never overwrite each other.
	AddComment(ctx context.Context, c *model.Comment) (int64, error)
}
