package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"

	"tasktracker/internal/errs"
	"tasktracker/internal/model"
	"tasktracker/internal/repository"
	"tasktracker/internal/token"
)

type fakeUsers struct {
	byName map[string]*model.User

	createErr      error
	createConflict bool
	getErr         error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.createConflict {
		return errs.ErrAlreadyExists
	}
	if f.byName == nil {
		f.byName = map[string]*model.User{}
	}
	for _, ex := range f.byName {
		if ex.Username == u.Username || ex.Email == u.Email {
			return errs.ErrAlreadyExists
		}
	}
	cpy := *u
	f.byName[u.Username] = &cpy
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.byName {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[username]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byName {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := f.byName[username]
	return ok, nil
}

func (f *fakeUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range f.byName {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func newAuth(users *fakeUsers) (*AuthServiceImpl, *token.Service) {
	tokens := token.NewService([]byte("test-key"), time.Minute)
	return NewAuthService(users, tokens), tokens
}

func TestAuth_SignUpThenSignIn(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{byName: map[string]*model.User{}}
	s, tokens := newAuth(users)

	res, err := s.SignUp(context.Background(), "alice", "alice@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if !res.Success {
		t.Fatalf("SignUp result: %+v", res)
	}
	u := users.byName["alice"]
	if u == nil {
		t.Fatalf("user not persisted")
	}
	if u.PasswordHash == "s3cret-pass" || u.PasswordHash == "" {
		t.Fatalf("password stored badly: %q", u.PasswordHash)
	}
	if !(&model.Identity{Roles: u.Roles}).HasRole(RoleUser) {
		t.Fatalf("baseline role missing: %+v", u.Roles)
	}

	signed, err := s.SignIn(context.Background(), "alice@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	ident, err := tokens.Validate(signed)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if ident.Username != "alice" {
		t.Fatalf("subject=%q, want alice", ident.Username)
	}
}

func TestAuth_SignUp_TakenUsernameAndEmail(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{byName: map[string]*model.User{}}
	s, _ := newAuth(users)

	if _, err := s.SignUp(context.Background(), "bob", "bob@example.com", "pw"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	if _, err := s.SignUp(context.Background(), "bob", "other@example.com", "pw"); !errors.Is(err, errs.ErrUsernameTaken) {
		t.Fatalf("want ErrUsernameTaken, got %v", err)
	}
	if _, err := s.SignUp(context.Background(), "robert", "bob@example.com", "pw"); !errors.Is(err, errs.ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
	if len(users.byName) != 1 {
		t.Fatalf("rejected sign-ups persisted users: %d", len(users.byName))
	}
}

func TestAuth_SignUp_SaveRaceBecomesResult(t *testing.T) {
	t.Parallel()

	// The pre-checks pass, but the store's uniqueness constraint fires on
	// save. That must come back as a failure result, not an error.
	users := &fakeUsers{byName: map[string]*model.User{}, createConflict: true}
	s, _ := newAuth(users)

	res, err := s.SignUp(context.Background(), "carol", "carol@example.com", "pw")
	if err != nil {
		t.Fatalf("race must not propagate as error, got %v", err)
	}
	if res.Success {
		t.Fatalf("want failure result, got %+v", res)
	}

	users.createConflict = false
	users.createErr = errors.New("boom")
	if _, err := s.SignUp(context.Background(), "dave", "dave@example.com", "pw"); err == nil {
		t.Fatalf("want propagated repo error")
	}
}

func TestAuth_SignIn_InvalidCredentials(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{byName: map[string]*model.User{}}
	s, _ := newAuth(users)
	if _, err := s.SignUp(context.Background(), "eve", "eve@example.com", "right-pw"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	tok, err := s.SignIn(context.Background(), "eve@example.com", "wrong-pw")
	if !errors.Is(err, errs.ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials on wrong password, got %v", err)
	}
	if tok != "" {
		t.Fatalf("token issued despite failure")
	}

	// Unknown email yields the same failure as a wrong password.
	_, errUnknown := s.SignIn(context.Background(), "nobody@example.com", "right-pw")
	if !errors.Is(errUnknown, errs.ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials on unknown email, got %v", errUnknown)
	}
	if errUnknown.Error() != err.Error() {
		t.Fatalf("failure messages differ: %q vs %q", errUnknown, err)
	}
}
