// Package model defines domain entities used by services and repositories.
package model

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"tasktracker/internal/errs"
)

// RoleAdmin is the role required for task management operations.
const RoleAdmin = "ADMIN"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

// Task statuses. New tasks start as StatusPending.
const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
)

// ParseTaskStatus maps a textual name onto a TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case StatusPending, StatusInProgress, StatusCompleted:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("%w: status %q", errs.ErrInvalidEnumValue, s)
}

// TaskPriority is the urgency of a task.
type TaskPriority string

// Task priorities. New tasks default to PriorityLow.
const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

// ParseTaskPriority maps a textual name onto a TaskPriority.
func ParseTaskPriority(s string) (TaskPriority, error) {
	switch TaskPriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return TaskPriority(s), nil
	}
	return "", fmt.Errorf("%w: priority %q", errs.ErrInvalidEnumValue, s)
}

// User represents a registered account. PasswordHash is opaque and never
// leaves the auth layer.
type User struct {
	ID           uuid.UUID // PK
	Username     string    // unique
	Email        string    // unique
	PasswordHash string    // argon2id digest
	Roles        []string
	CreatedAt    time.Time
}

// Identity is the authenticated principal for the duration of a request.
// A nil *Identity means the caller is unauthenticated.
type Identity struct {
	Username string
	Roles    []string
}

// HasRole reports whether the identity carries the given role.
func (i *Identity) HasRole(role string) bool {
	if i == nil {
		return false
	}
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Task is a unit of work. Author is always set; Performer is empty until
// someone is assigned.
type Task struct {
	ID          int64 // assigned by store
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	Author      string // username, immutable ownership reference
	Performer   string // username, empty if unassigned
	Comments    []Comment
}

// Comment is feedback attached to a task. It belongs to exactly one task and
// is removed only as a cascade of task deletion.
type Comment struct {
	ID     int64
	TaskID int64
	Text   string
	Author string // username
}

// TaskFilter holds optional listing criteria. Nil fields add no constraint;
// set fields are AND-ed together.
type TaskFilter struct {
	Author    *string
	Performer *string
	Status    *TaskStatus
	Priority  *TaskPriority
}

// Default listing page geometry.
const (
	DefaultPage     = 0
	DefaultPageSize = 5
)

// SignUpResult reports registration outcome as data. Persistence races on the
// store's uniqueness constraints surface here rather than as errors.
type SignUpResult struct {
	Success bool
	Message string
}
