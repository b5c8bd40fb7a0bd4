package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Session binds an opaque refresh token to its issuance payload and an
// absolute expiry. The token string is a pure capability: nothing about the
// session can be derived from it without the registry.
type Session struct {
	Token     string    `json:"token"`
	Payload   Payload   `json:"payload"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Registry is the keyed store behind refresh sessions. Delete reports
// whether the caller actually removed the entry, which makes it the
// compare-and-swap primitive for single-use rotation: of two concurrent
// rotations, exactly one observes true.
type Registry interface {
	Put(ctx context.Context, s Session) error
	Get(ctx context.Context, tok string) (Session, bool, error)
	Delete(ctx context.Context, tok string) (bool, error)
}

// Purger is implemented by registries that support sweeping expired
// entries. Optional: lazy expiry in Verify is sufficient for correctness.
type Purger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

// Refresh manages the refresh-session lifecycle: issue, verify, rotate,
// revoke. It is the single source of truth for refresh-token validity.
type Refresh struct {
	reg Registry
	ttl time.Duration
	now func() time.Time
}

// RefreshOption configures Refresh.
type RefreshOption func(*Refresh)

// WithRefreshTTL overrides the session lifetime.
func WithRefreshTTL(ttl time.Duration) RefreshOption {
	return func(r *Refresh) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithRefreshClock overrides the time source (tests).
func WithRefreshClock(now func() time.Time) RefreshOption {
	return func(r *Refresh) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRefresh constructs a Refresh manager over the given registry.
func NewRefresh(reg Registry, opts ...RefreshOption) *Refresh {
	r := &Refresh{
		reg: reg,
		ttl: 7 * 24 * time.Hour,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Issue creates a session for payload and returns it. The token is 48
// bytes of cryptographically random data, hex encoded.
func (r *Refresh) Issue(ctx context.Context, payload Payload) (Session, error) {
	tok, err := randomHex(48)
	if err != nil {
		return Session{}, err
	}
	s := Session{
		Token:     tok,
		Payload:   payload,
		ExpiresAt: r.now().UTC().Add(r.ttl),
	}
	if err := r.reg.Put(ctx, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Verify looks the token up. Unknown tokens return ok=false. Expired
// sessions are deleted on sight and also return ok=false, so a second
// Verify of the same token stays false.
func (r *Refresh) Verify(ctx context.Context, tok string) (Session, bool, error) {
	if tok == "" {
		return Session{}, false, nil
	}
	s, ok, err := r.reg.Get(ctx, tok)
	if err != nil || !ok {
		return Session{}, false, err
	}
	if s.ExpiresAt.Before(r.now()) {
		_, _ = r.reg.Delete(ctx, tok)
		return Session{}, false, nil
	}
	return s, true, nil
}

// Rotate invalidates tok and issues a replacement carrying the same
// payload forward with a fresh expiry. The old token is unusable the moment
// Rotate succeeds; a concurrent Rotate of the same token loses the registry
// delete and reports ok=false.
func (r *Refresh) Rotate(ctx context.Context, tok string) (Session, bool, error) {
	s, ok, err := r.Verify(ctx, tok)
	if err != nil || !ok {
		return Session{}, false, err
	}
	removed, err := r.reg.Delete(ctx, tok)
	if err != nil {
		return Session{}, false, err
	}
	if !removed {
		// Lost the race: someone else rotated or revoked first.
		return Session{}, false, nil
	}
	next, err := r.Issue(ctx, s.Payload)
	if err != nil {
		return Session{}, false, err
	}
	return next, true, nil
}

// Revoke removes the session unconditionally.
func (r *Refresh) Revoke(ctx context.Context, tok string) error {
	_, err := r.reg.Delete(ctx, tok)
	return err
}

// PurgeExpired sweeps expired sessions when the registry supports it.
func (r *Refresh) PurgeExpired(ctx context.Context) (int, error) {
	p, ok := r.reg.(Purger)
	if !ok {
		return 0, nil
	}
	return p.PurgeExpired(ctx, r.now())
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
