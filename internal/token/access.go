// Package token owns credential issuance: stateless signed access tokens
// and server-tracked opaque refresh sessions.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is the single failure mode for token verification.
// Signature mismatch, expiry, and malformed payloads all collapse into it
// so callers cannot distinguish which check failed.
var ErrInvalidToken = errors.New("token: invalid token")

// Payload is the identity snapshot bound to issued credentials.
type Payload struct {
	Sub      string  `json:"sub"`
	Email    string  `json:"email"`
	Username string  `json:"username"`
	Roles    []int64 `json:"roles"`
	UID      string  `json:"uid,omitempty"`
	UserID   *int64  `json:"user_id,omitempty"`
}

// accessClaims is the JWT claim set of a self-issued access token.
type accessClaims struct {
	Email    string  `json:"email"`
	Username string  `json:"username"`
	Roles    []int64 `json:"roles"`
	UID      string  `json:"uid,omitempty"`
	UserID   *int64  `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// Access signs and verifies short-lived HS256 access tokens. Stateless: no
// registry, verification is a pure signature and expiry check.
type Access struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// AccessOption configures Access.
type AccessOption func(*Access)

// WithAccessTTL overrides the access token lifetime.
func WithAccessTTL(ttl time.Duration) AccessOption {
	return func(a *Access) {
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

// WithAccessClock overrides the time source (tests).
func WithAccessClock(now func() time.Time) AccessOption {
	return func(a *Access) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAccess constructs an Access signer/verifier.
func NewAccess(secret, issuer string, opts ...AccessOption) (*Access, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token: signing secret is required")
	}
	a := &Access{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    15 * time.Minute,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Sign mints an access token for payload and returns it with its expiry.
func (a *Access) Sign(payload Payload) (string, time.Time, error) {
	if strings.TrimSpace(payload.Sub) == "" {
		return "", time.Time{}, errors.New("token: subject is required")
	}
	now := a.now().UTC()
	exp := now.Add(a.ttl)
	claims := accessClaims{
		Email:    payload.Email,
		Username: payload.Username,
		Roles:    payload.Roles,
		UID:      payload.UID,
		UserID:   payload.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   payload.Sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks signature and expiry and returns the embedded payload.
func (a *Access) Verify(raw string) (Payload, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Payload{}, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(raw, &accessClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		return Payload{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid {
		return Payload{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" || claims.ExpiresAt == nil {
		return Payload{}, ErrInvalidToken
	}
	if a.issuer != "" && claims.Issuer != a.issuer {
		return Payload{}, ErrInvalidToken
	}
	return Payload{
		Sub:      claims.Subject,
		Email:    claims.Email,
		Username: claims.Username,
		Roles:    claims.Roles,
		UID:      claims.UID,
		UserID:   claims.UserID,
	}, nil
}
