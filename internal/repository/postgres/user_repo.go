package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"

	"tasktracker/internal/errs"
	"tasktracker/internal/model"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user row. The unique indexes on username and email are
// the authority of record; a violation comes back as errs.ErrAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (id, username, email, pwd_hash, roles)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Pool.Exec(ctx, q, u.ID, u.Username, u.Email, u.PasswordHash, u.Roles)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

const selectUser = `
SELECT id, username, email, pwd_hash, roles, created_at
FROM users WHERE `

func (r *UserRepo) scanUser(ctx context.Context, q string, arg any) (*model.User, error) {
	row := r.db.Pool.QueryRow(ctx, q, arg)
	var u model.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Roles, &u.CreatedAt); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errs.ErrNotFound
	}
	return &u, nil
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.scanUser(ctx, selectUser+`id=$1`, id)
}

// GetByUsername selects a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.scanUser(ctx, selectUser+`username=$1`, username)
}

// GetByEmail selects a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.scanUser(ctx, selectUser+`email=$1`, email)
}

// ExistsByUsername reports whether a user with the username exists.
func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE username=$1)`
	var ok bool
	err := r.db.Pool.QueryRow(ctx, q, username).Scan(&ok)
	return ok, err
}

// ExistsByEmail reports whether a user with the email exists.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE email=$1)`
	var ok bool
	err := r.db.Pool.QueryRow(ctx, q, email).Scan(&ok)
	return ok, err
}
