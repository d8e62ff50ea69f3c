package service

import (
	"context"
	"errors"
	"testing"

	"tasktracker/internal/errs"
	"tasktracker/internal/model"
)

func TestPolicy_RelationshipPredicates(t *testing.T) {
	t.Parallel()

	tasks := &fakeTasks{byID: map[int64]*model.Task{
		1: {ID: 1, Author: "john", Performer: "alex"},
		2: {ID: 2, Author: "john"}, // unassigned
	}}
	p := NewPolicy(tasks)
	ctx := context.Background()

	john := &model.Identity{Username: "john", Roles: []string{RoleUser}}
	alex := &model.Identity{Username: "alex", Roles: []string{RoleUser}}

	if !p.IsAuthor(ctx, john, 1) || p.IsAuthor(ctx, alex, 1) {
		t.Fatalf("IsAuthor wrong for existing task")
	}
	if !p.IsPerformer(ctx, alex, 1) || p.IsPerformer(ctx, john, 1) {
		t.Fatalf("IsPerformer wrong for existing task")
	}

	// An unassigned task has no performer, even for its author.
	if p.IsPerformer(ctx, john, 2) {
		t.Fatalf("IsPerformer true for unassigned task")
	}

	// Missing task: predicates are false, never errors.
	if p.IsAuthor(ctx, john, 99) || p.IsPerformer(ctx, alex, 99) {
		t.Fatalf("predicates true for missing task")
	}

	// Unauthenticated caller: false regardless of task id.
	if p.IsAuthor(ctx, nil, 1) || p.IsPerformer(ctx, nil, 1) || p.IsAuthor(ctx, nil, 99) {
		t.Fatalf("predicates true for nil identity")
	}
}

func TestPolicy_IsPerformerOrAdmin(t *testing.T) {
	t.Parallel()

	tasks := &fakeTasks{byID: map[int64]*model.Task{
		1: {ID: 1, Author: "john", Performer: "alex"},
	}}
	p := NewPolicy(tasks)
	ctx := context.Background()

	alex := &model.Identity{Username: "alex", Roles: []string{RoleUser}}
	if !p.IsPerformerOrAdmin(ctx, alex, 1) {
		t.Fatalf("performer rejected")
	}
	if !p.IsPerformerOrAdmin(ctx, admin, 1) {
		t.Fatalf("admin rejected")
	}
	mia := &model.Identity{Username: "mia", Roles: []string{RoleUser}}
	if p.IsPerformerOrAdmin(ctx, mia, 1) {
		t.Fatalf("unrelated user accepted")
	}
	if p.IsPerformerOrAdmin(ctx, nil, 1) {
		t.Fatalf("nil identity accepted")
	}
}

func TestPolicy_RequireRole(t *testing.T) {
	t.Parallel()

	p := NewPolicy(&fakeTasks{})

	if err := p.RequireRole(nil, model.RoleAdmin); !errors.Is(err, errs.ErrUnauthenticated) {
		t.Fatalf("want ErrUnauthenticated, got %v", err)
	}
	if err := p.RequireRole(plainUser, model.RoleAdmin); !errors.Is(err, errs.ErrAccessDenied) {
		t.Fatalf("want ErrAccessDenied, got %v", err)
	}
	if err := p.RequireRole(admin, model.RoleAdmin); err != nil {
		t.Fatalf("RequireRole(admin): %v", err)
	}
}
