package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"adminconsole/internal/auth"
)

func loginBodyReader(email, password string) *strings.Reader {
	raw, _ := json.Marshal(loginRequest{Email: email, Password: password})
	return strings.NewReader(string(raw))
}

func TestLoginSuccess(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodPost, "/v1/auth/login", "",
		loginBodyReader("super@console.local", testPassword))
	wantOutcome(t, rec, env, http.StatusOK, codeOK)

	var body loginBody
	if err := json.Unmarshal(env.Body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.AccessToken == "" || body.RefreshToken == "" {
		t.Fatalf("tokens missing: %+v", body)
	}
	if body.Admin.ID != "emp-super" || body.Admin.Email != "super@console.local" {
		t.Fatalf("unexpected admin: %+v", body.Admin)
	}
	if len(body.Admin.Roles) != 1 || body.Admin.Roles[0].Code != "SUPER_ADMIN" {
		t.Fatalf("unexpected roles: %+v", body.Admin.Roles)
	}
	if !auth.HasPermission(body.Admin.Permissions, "ORDER_ALL", "LIST") {
		t.Fatalf("permissions not aggregated: %+v", body.Admin.Permissions)
	}

	// The issued access token must authenticate follow-up requests.
	rec, env = f.do(t, http.MethodGet, "/v1/auth/me", body.AccessToken, nil)
	wantOutcome(t, rec, env, http.StatusOK, codeOK)
}

func TestLoginEmailCaseInsensitive(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodPost, "/v1/auth/login", "",
		loginBodyReader("  Super@Console.Local ", testPassword))
	wantOutcome(t, rec, env, http.StatusOK, codeOK)
}

func TestLoginOutcomes(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		email    string
		password string
		code     string
	}{
		{"unknown email", "ghost@console.local", testPassword, codeInvalidCredentials},
		{"wrong password", "super@console.local", "nope", codeInvalidCredentials},
		{"inactive account", "inactive@console.local", testPassword, codeUserInactive},
		{"no role assigned", "norole@console.local", testPassword, codeNoRole},
		{"missing email", "", testPassword, codeValidationFailed},
		{"missing password", "super@console.local", "", codeValidationFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := f.do(t, http.MethodPost, "/v1/auth/login", "",
				loginBodyReader(tc.email, tc.password))
			// Business rejections ride a 200; clients branch on the code.
			wantOutcome(t, rec, env, http.StatusOK, tc.code)
		})
	}
}

func TestLoginInactiveBeforePasswordCheck(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodPost, "/v1/auth/login", "",
		loginBodyReader("inactive@console.local", "wrong-password"))
	wantOutcome(t, rec, env, http.StatusOK, codeUserInactive)
}

func TestLoginEmptyBody(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodPost, "/v1/auth/login", "", strings.NewReader(""))
	wantOutcome(t, rec, env, http.StatusOK, codeValidationFailed)
	if env.Message != "request body is required" {
		t.Fatalf("message = %q", env.Message)
	}
}

func TestLoginStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.findByEmail = func(context.Context, string) (*auth.Employee, error) {
		return nil, errors.New("boom")
	}

	rec, env := f.do(t, http.MethodPost, "/v1/auth/login", "",
		loginBodyReader("super@console.local", testPassword))
	wantOutcome(t, rec, env, http.StatusInternalServerError, codeInternalError)
}

func TestLoginMethodNotAllowed(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodGet, "/v1/auth/login", "", nil)
	wantOutcome(t, rec, env, http.StatusMethodNotAllowed, codeMethodNotAllowed)
	if allow := rec.Header().Get("Allow"); allow != http.MethodPost {
		t.Fatalf("Allow = %q", allow)
	}
}

func refreshBodyReader(tok string) *strings.Reader {
	raw, _ := json.Marshal(refreshRequest{RefreshToken: tok})
	return strings.NewReader(string(raw))
}

func TestRefreshRotation(t *testing.T) {
	f := newFixture(t)

	_, env := f.do(t, http.MethodPost, "/v1/auth/login", "",
		loginBodyReader("super@console.local", testPassword))
	var login loginBody
	if err := json.Unmarshal(env.Body, &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	rec, env := f.do(t, http.MethodPost, "/v1/auth/refresh-token", "",
		refreshBodyReader(login.RefreshToken))
	wantOutcome(t, rec, env, http.StatusOK, codeOK)

	var rotated refreshBody
	if err := json.Unmarshal(env.Body, &rotated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rotated.RefreshToken == "" || rotated.RefreshToken == login.RefreshToken {
		t.Fatalf("refresh token not rotated")
	}

	// The consumed token is dead; only the replacement rotates again.
	rec, env = f.do(t, http.MethodPost, "/v1/auth/refresh-token", "",
		refreshBodyReader(login.RefreshToken))
	wantOutcome(t, rec, env, http.StatusUnauthorized, codeUnauthorized)

	rec, env = f.do(t, http.MethodPost, "/v1/auth/refresh-token", "",
		refreshBodyReader(rotated.RefreshToken))
	wantOutcome(t, rec, env, http.StatusOK, codeOK)
}

func TestRefreshUnknownToken(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodPost, "/v1/auth/refresh-token", "",
		refreshBodyReader("deadbeef"))
	wantOutcome(t, rec, env, http.StatusUnauthorized, codeUnauthorized)
	if env.Message != "Invalid refresh token" {
		t.Fatalf("message = %q", env.Message)
	}
}

func TestRefreshMissingToken(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodPost, "/v1/auth/refresh-token", "",
		refreshBodyReader("  "))
	wantOutcome(t, rec, env, http.StatusOK, codeValidationFailed)
}

func TestMe(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodGet, "/v1/auth/me", f.bearerFor(t, "emp-branch"), nil)
	wantOutcome(t, rec, env, http.StatusOK, codeOK)

	var body meBody
	if err := json.Unmarshal(env.Body, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID != "emp-branch" || !body.IsActive {
		t.Fatalf("unexpected body: %+v", body)
	}
	if len(body.Roles) != 1 || body.Roles[0].Code != "BRANCH_OPERATOR" {
		t.Fatalf("unexpected roles: %+v", body.Roles)
	}
	if auth.HasPermission(body.Permissions, "USERS_ALL", "LIST") {
		t.Fatalf("branch operator must not hold USERS_ALL")
	}
}

func TestMeWithoutCredential(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodGet, "/v1/auth/me", "", nil)
	wantOutcome(t, rec, env, http.StatusUnauthorized, codeUnauthorized)
}

func TestMeGarbageToken(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodGet, "/v1/auth/me", "not-a-jwt", nil)
	wantOutcome(t, rec, env, http.StatusUnauthorized, codeUnauthorized)
}

func TestMeNoRole(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodGet, "/v1/auth/me", f.bearerFor(t, "emp-norole"), nil)
	wantOutcome(t, rec, env, http.StatusOK, codeNoRole)
}
