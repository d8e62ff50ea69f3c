package service

import (
	"context"
	"errors"
	"fmt"

	"tasktracker/internal/errs"
	"tasktracker/internal/model"
	"tasktracker/internal/repository"
)

// TaskService defines task management operations. Every method takes the
// caller's identity explicitly and runs its authorization guard before
// touching the store.
type TaskService interface {
	// Get returns a task with its comments. Requires role ADMIN.
	Get(ctx context.Context, ident *model.Identity, id int64) (*model.Task, error)
	// List returns tasks matching the filter, paginated. Requires role ADMIN.
	List(ctx context.Context, ident *model.Identity, f model.TaskFilter, page, size int) ([]model.Task, error)
	// Create adds a task authored by the caller. Requires role ADMIN.
	Create(ctx context.Context, ident *model.Identity, title, description string, priority model.TaskPriority) (int64, error)
	// Patch applies a sparse field mapping to a task. Requires role ADMIN.
	Patch(ctx context.Context, ident *model.Identity, id int64, fields map[string]any) (*model.Task, error)
	// Delete removes a task and its comments. Requires role ADMIN.
	Delete(ctx context.Context, ident *model.Identity, id int64) error
	// AddComment appends a comment authored by the caller. Requires the
	// caller to be the task's performer or an admin.
	AddComment(ctx context.Context, ident *model.Identity, taskID int64, text string) (int64, error)
}

type TaskServiceImpl struct {
	tasks  repository.TaskRepository
	users  repository.UserRepository
	policy *Policy
}

// NewTaskService constructs TaskService with required dependencies.
func NewTaskService(tasks repository.TaskRepository, users repository.UserRepository, policy *Policy) *TaskServiceImpl {
	return &TaskServiceImpl{tasks: tasks, users: users, policy: policy}
}

// Get loads a single task by id.
func (s *TaskServiceImpl) Get(ctx context.Context, ident *model.Identity, id int64) (*model.Task, error) {
	if err := s.policy.RequireRole(ident, model.RoleAdmin); err != nil {
		return nil, err
	}
	return s.tasks.GetByID(ctx, id)
}

// List applies the filter with pagination. Out-of-range page/size fall back
// to the defaults (page 0, size 5).
func (s *TaskServiceImpl) List(ctx context.Context, ident *model.Identity, f model.TaskFilter, page, size int) ([]model.Task, error) {
	if err := s.policy.RequireRole(ident, model.RoleAdmin); err != nil {
		return nil, err
	}
	if page < 0 {
		page = model.DefaultPage
	}
	if size <= 0 {
		size = model.DefaultPageSize
	}
	return s.tasks.List(ctx, f, page, size)
}

// Create persists a new task with author = caller, status PENDING and the
// given priority (LOW when empty).
func (s *TaskServiceImpl) Create(ctx context.Context, ident *model.Identity, title, description string, priority model.TaskPriority) (int64, error) {
	if err := s.policy.RequireRole(ident, model.RoleAdmin); err != nil {
		return 0, err
	}
	if priority == "" {
		priority = model.PriorityLow
	}
	t := &model.Task{
		Title:       title,
		Description: description,
		Status:      model.StatusPending,
		Priority:    priority,
		Author:      ident.Username,
	}
	return s.tasks.Create(ctx, t)
}

// Patch loads the task, applies the field mapping through the allow-list
// engine, resolves any re-assigned author/performer to existing users and
// persists once. A failed entry aborts the whole patch before any store write.
func (s *TaskServiceImpl) Patch(ctx context.Context, ident *model.Identity, id int64, fields map[string]any) (*model.Task, error) {
	if err := s.policy.RequireRole(ident, model.RoleAdmin); err != nil {
		return nil, err
	}
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prevAuthor, prevPerformer := t.Author, t.Performer
	if err := ApplyPatch(t, fields); err != nil {
		return nil, err
	}
	if t.Author != prevAuthor {
		if err := s.resolveUser(ctx, t.Author); err != nil {
			return nil, err
		}
	}
	if t.Performer != prevPerformer && t.Performer != "" {
		if err := s.resolveUser(ctx, t.Performer); err != nil {
			return nil, err
		}
	}

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskServiceImpl) resolveUser(ctx context.Context, username string) error {
	_, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, errs.ErrNotFound) {
		return fmt.Errorf("user %q: %w", username, errs.ErrNotFound)
	}
	return err
}

// Delete removes a task; its comments cascade in the store.
func (s *TaskServiceImpl) Delete(ctx context.Context, ident *model.Identity, id int64) error {
	if err := s.policy.RequireRole(ident, model.RoleAdmin); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, id)
}

// AddComment appends a comment as its own store insert.
func (s *TaskServiceImpl) AddComment(ctx context.Context, ident *model.Identity, taskID int64, text string) (int64, error) {
	if err := s.policy.RequirePerformerOrAdmin(ctx, ident, taskID); err != nil {
		return 0, err
	}
	c := &model.Comment{TaskID: taskID, Text: text, Author: ident.Username}
	return s.tasks.AddComment(ctx, c)
}
