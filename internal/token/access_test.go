package token

import (
	"errors"
	"testing"
	"time"
)

func TestAccessSignVerifyRoundtrip(t *testing.T) {
	a, err := NewAccess("test-secret", "admin-console")
	if err != nil {
		t.Fatalf("new access: %v", err)
	}
	userID := int64(42)
	payload := Payload{
		Sub:      "emp-1",
		Email:    "root@console.local",
		Username: "root",
		Roles:    []int64{1},
		UID:      "emp-1",
		UserID:   &userID,
	}

	raw, exp, err := a.Sign(payload)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatalf("expiry must be in the future")
	}

	got, err := a.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.Sub != payload.Sub || got.Email != payload.Email || got.Username != payload.Username {
		t.Fatalf("payload mismatch: %+v", got)
	}
	if len(got.Roles) != 1 || got.Roles[0] != 1 {
		t.Fatalf("roles mismatch: %v", got.Roles)
	}
	if got.UserID == nil || *got.UserID != 42 {
		t.Fatalf("user id mismatch: %v", got.UserID)
	}
}

func TestAccessSignRequiresSubject(t *testing.T) {
	a, _ := NewAccess("test-secret", "admin-console")
	if _, _, err := a.Sign(Payload{Sub: "  "}); err == nil {
		t.Fatalf("expected error for empty subject")
	}
}

func TestAccessVerifyFailuresCollapse(t *testing.T) {
	a, _ := NewAccess("test-secret", "admin-console")
	other, _ := NewAccess("other-secret", "admin-console")
	wrongIssuer, _ := NewAccess("test-secret", "someone-else")

	valid, _, err := a.Sign(Payload{Sub: "emp-1"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	foreign, _, err := other.Sign(Payload{Sub: "emp-1"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	cases := []struct {
		name string
		av   *Access
		raw  string
	}{
		{"empty", a, ""},
		{"garbage", a, "not.a.jwt"},
		{"wrong secret", a, foreign},
		{"wrong issuer", wrongIssuer, valid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.av.Verify(tc.raw); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestAccessVerifyExpired(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	a, _ := NewAccess("test-secret", "admin-console",
		WithAccessTTL(time.Minute), WithAccessClock(clock))

	raw, _, err := a.Sign(Payload{Sub: "emp-1"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := a.Verify(raw); err != nil {
		t.Fatalf("fresh token must verify: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := a.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token must fail with ErrInvalidToken, got %v", err)
	}
}
