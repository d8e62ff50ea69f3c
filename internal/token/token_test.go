package token

import (
	"errors"
	"testing"
	"time"

	"tasktracker/internal/errs"
	"tasktracker/internal/model"
)

func testUser() *model.User {
	return &model.User{Username: "alice", Roles: []string{"USER", "ADMIN"}}
}

func TestService_RoundTrip(t *testing.T) {
	t.Parallel()

	s := NewService([]byte("secret"), time.Minute)
	signed, exp, err := s.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if signed == "" {
		t.Fatalf("empty token")
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("token already expired: %v", exp)
	}

	ident, err := s.Validate(signed)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if ident.Username != "alice" {
		t.Fatalf("subject=%q, want alice", ident.Username)
	}
	if !ident.HasRole("ADMIN") || !ident.HasRole("USER") {
		t.Fatalf("roles not carried: %+v", ident.Roles)
	}
}

func TestService_Expired(t *testing.T) {
	t.Parallel()

	s := NewService([]byte("secret"), -time.Minute)
	signed, _, err := s.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = s.Validate(signed)
	if !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for expired token, got %v", err)
	}
}

func TestService_BadSignature(t *testing.T) {
	t.Parallel()

	issuer := NewService([]byte("key-one"), time.Minute)
	verifier := NewService([]byte("key-two"), time.Minute)

	signed, _, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Validate(signed); !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for foreign signature, got %v", err)
	}
}

func TestService_Malformed(t *testing.T) {
	t.Parallel()

	s := NewService([]byte("secret"), time.Minute)
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, err := s.Validate(raw); !errors.Is(err, errs.ErrInvalidToken) {
			t.Fatalf("want ErrInvalidToken for %q, got %v", raw, err)
		}
	}
}
