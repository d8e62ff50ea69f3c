// Package service contains application services for authentication,
// authorization and task management.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"

	pkgcrypto "tasktracker/internal/crypto"
	"tasktracker/internal/errs"
	"tasktracker/internal/model"
	"tasktracker/internal/repository"
	"tasktracker/internal/token"
)

// RoleUser is the baseline role every signed-up account receives.
const RoleUser = "USER"

// AuthService defines sign-up and sign-in operations.
type AuthService interface {
	// SignUp registers a new account. Taken username/email are returned as
	// errors; a uniqueness race on save is reported in the result instead.
	SignUp(ctx context.Context, username, email, password string) (model.SignUpResult, error)
	// SignIn verifies credentials and issues an access token.
	SignIn(ctx context.Context, email, password string) (string, error)
}

type AuthServiceImpl struct {
	users  repository.UserRepository
	tokens *token.Service
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, tokens *token.Service) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, tokens: tokens}
}

// SignUp checks uniqueness, hashes the password and persists the account.
// The existence checks are advisory fast paths: the store's own unique
// constraints remain the authority, and a save that loses the race is
// converted to a failure result rather than an error.
func (s *AuthServiceImpl) SignUp(ctx context.Context, username, email, password string) (model.SignUpResult, error) {
	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return model.SignUpResult{}, err
	}
	if taken {
		return model.SignUpResult{}, errs.ErrUsernameTaken
	}

	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.SignUpResult{}, err
	}
	if taken {
		return model.SignUpResult{}, errs.ErrEmailTaken
	}

	hash, err := pkgcrypto.HashPassword(password)
	if err != nil {
		return model.SignUpResult{}, err
	}
	uid, err := uuid.NewV4()
	if err != nil {
		return model.SignUpResult{}, err
	}

	u := &model.User{
		ID:           uid,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Roles:        []string{RoleUser},
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return model.SignUpResult{Success: false, Message: "registration failed"}, nil
		}
		return model.SignUpResult{}, err
	}
	return model.SignUpResult{Success: true, Message: "user registered successfully"}, nil
}

// SignIn resolves the account by email and verifies the password. Both an
// unknown email and a wrong password come back as ErrInvalidCredentials so
// callers cannot enumerate accounts.
func (s *AuthServiceImpl) SignIn(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil || !pkgcrypto.VerifyPassword(password, u.PasswordHash) {
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			return "", err
		}
		return "", errs.ErrInvalidCredentials
	}
	signed, _, err := s.tokens.Issue(u)
	if err != nil {
		return "", err
	}
	return signed, nil
}
