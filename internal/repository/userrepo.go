// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"tasktracker/internal/model"
)

// UserRepository provides account lookup and registration.
type UserRepository interface {
	// Create inserts a new user. Returns errs.ErrAlreadyExists on a
	// username/email uniqueness violation.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByUsername loads a user by username.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// GetByEmail loads a user by email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// ExistsByUsername reports whether the username is registered.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// ExistsByEmail reports whether the email is registered.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
