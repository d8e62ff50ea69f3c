package service

import (
	"context"

	"tasktracker/internal/errs"
	"tasktracker/internal/model"
	"tasktracker/internal/repository"
)

// Policy evaluates authorization predicates against an explicit identity.
// The caller's identity is an argument, never ambient state, so each
// predicate is testable in isolation.
type Policy struct {
	tasks repository.TaskRepository
}

// NewPolicy constructs a Policy backed by the task store.
func NewPolicy(tasks repository.TaskRepository) *Policy {
	return &Policy{tasks: tasks}
}

// IsAuthor reports whether ident authored the task. It is false, not an
// error, for a nil identity or a missing task; not-found is surfaced by the
// operation itself, not by the predicate.
func (p *Policy) IsAuthor(ctx context.Context, ident *model.Identity, taskID int64) bool {
	if ident == nil {
		return false
	}
	t, err := p.tasks.GetByID(ctx, taskID)
	return err == nil && t.Author == ident.Username
}

// IsPerformer reports whether ident is assigned to the task. False for a nil
// identity, a missing task or an unassigned task.
func (p *Policy) IsPerformer(ctx context.Context, ident *model.Identity, taskID int64) bool {
	if ident == nil {
		return false
	}
	t, err := p.tasks.GetByID(ctx, taskID)
	return err == nil && t.Performer != "" && t.Performer == ident.Username
}

// IsPerformerOrAdmin is the comment-authorship gate.
func (p *Policy) IsPerformerOrAdmin(ctx context.Context, ident *model.Identity, taskID int64) bool {
	return p.IsPerformer(ctx, ident, taskID) || ident.HasRole(model.RoleAdmin)
}

// RequireRole guards an operation on role membership. A nil identity maps to
// ErrUnauthenticated, a missing role to ErrAccessDenied.
func (p *Policy) RequireRole(ident *model.Identity, role string) error {
	if ident == nil {
		return errs.ErrUnauthenticated
	}
	if !ident.HasRole(role) {
		return errs.ErrAccessDenied
	}
	return nil
}

// RequirePerformerOrAdmin guards commenting on a task.
func (p *Policy) RequirePerformerOrAdmin(ctx context.Context, ident *model.Identity, taskID int64) error {
	if ident == nil {
		return errs.ErrUnauthenticated
	}
	if !p.IsPerformerOrAdmin(ctx, ident, taskID) {
		return errs.ErrAccessDenied
	}
	return nil
}
