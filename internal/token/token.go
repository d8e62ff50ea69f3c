// Package token issues and validates signed, stateless identity tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tasktracker/internal/errs"
	"tasktracker/internal/model"
)

// Claims carried by an access token on top of the registered set.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Service signs and verifies HS256 access tokens. Tokens are self-contained:
// no server-side session state, no revocation list. A stolen token stays
// valid until its natural expiry.
type Service struct {
	signKey []byte
	ttl     time.Duration
}

// NewService constructs a token service with the given signing key and
// token lifetime.
func NewService(signKey []byte, ttl time.Duration) *Service {
	return &Service{signKey: signKey, ttl: ttl}
}

// Issue creates a signed token for the user. Subject is the username; the
// role set rides along so authorization needs no extra lookup.
func (s *Service) Issue(u *model.User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.ttl)
	claims := Claims{
		Roles: u.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	return signed, exp, err
}

// Validate verifies the signature and expiry of raw and returns the identity
// it encodes. Failures wrap errs.ErrInvalidToken with a distinct reason:
// malformed encoding, signature mismatch, or expiry.
func (s *Service) Validate(raw string) (*model.Identity, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.signKey, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("%w: expired", errs.ErrInvalidToken)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, fmt.Errorf("%w: bad signature", errs.ErrInvalidToken)
	case err != nil || !parsed.Valid:
		return nil, fmt.Errorf("%w: malformed", errs.ErrInvalidToken)
	}
	if claims.Subject == "" || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing claims", errs.ErrInvalidToken)
	}
	return &model.Identity{Username: claims.Subject, Roles: claims.Roles}, nil
}
