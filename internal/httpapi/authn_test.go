package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"adminconsole/internal/auth"
)

func TestCredentialsFrom(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    auth.Credentials
	}{
		{
			name:    "bearer",
			headers: map[string]string{"Authorization": "Bearer abc.def.ghi"},
			want:    auth.Credentials{Bearer: "abc.def.ghi"},
		},
		{
			name:    "bearer prefix is case insensitive",
			headers: map[string]string{"Authorization": "bearer abc"},
			want:    auth.Credentials{Bearer: "abc"},
		},
		{
			name:    "non-bearer scheme ignored",
			headers: map[string]string{"Authorization": "Basic dXNlcjpwYXNz"},
			want:    auth.Credentials{},
		},
		{
			name:    "id token header",
			headers: map[string]string{"X-Id-Token": " idtok "},
			want:    auth.Credentials{IDToken: "idtok"},
		},
		{
			name: "both channels",
			headers: map[string]string{
				"Authorization": "Bearer acc",
				"X-Id-Token":    "idtok",
			},
			want: auth.Credentials{Bearer: "acc", IDToken: "idtok"},
		},
		{
			name:    "none",
			headers: map[string]string{},
			want:    auth.Credentials{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			if got := credentialsFrom(req); got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestCredentialsFromBodyIDToken(t *testing.T) {
	body := `{"open_hours":{"mon":"09:00-18:00"},"idToken":"body-token"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	creds := credentialsFrom(req)
	if creds.IDToken != "body-token" {
		t.Fatalf("IDToken = %q, want body-token", creds.IDToken)
	}

	// Sniffing must not consume the body.
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("re-read body: %v", err)
	}
	if string(raw) != body {
		t.Fatalf("body altered after sniff: %q", raw)
	}
}

func TestCredentialsFromHeaderBeatsBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"idToken":"body-token"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Id-Token", "header-token")

	if creds := credentialsFrom(req); creds.IDToken != "header-token" {
		t.Fatalf("IDToken = %q, want header-token", creds.IDToken)
	}
}

func TestCredentialsFromBodyIgnoredWithoutJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"idToken":"tok"}`))
	req.Header.Set("Content-Type", "text/plain")

	if creds := credentialsFrom(req); creds.IDToken != "" {
		t.Fatalf("non-JSON body sniffed: %q", creds.IDToken)
	}

	get := httptest.NewRequest(http.MethodGet, "/", nil)
	if creds := credentialsFrom(get); creds.IDToken != "" {
		t.Fatalf("GET body sniffed: %q", creds.IDToken)
	}
}

// A request authenticated only by a body idToken must clear the pipeline
// and still hand the handler a decodable body.
func TestBodyIDTokenAuthenticatesRequest(t *testing.T) {
	f := newFixture(t)
	idp := auth.NewEmulatorIdentityProvider("emulator-secret")
	f.api.pipeline = auth.NewPipeline(
		auth.NewResolver(AccessVerifierFor(f.access), idp, nil),
		auth.NewRoleResolver(f.store),
		auth.NewAggregator(f.store),
		nil,
	)

	idToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "emp-super",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("emulator-secret"))
	if err != nil {
		t.Fatalf("sign emulator token: %v", err)
	}

	body := `{"open_hours":{"mon-sun":"10:00-20:00"},"idToken":"` + idToken + `"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/branches/11/open-hours", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.api.Handler().ServeHTTP(rec, req)

	var env respEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope from %q: %v", rec.Body.String(), err)
	}
	wantOutcome(t, rec, env, http.StatusOK, codeOK)
}

// The authorize helper maps each pipeline failure onto its transport
// outcome. /v1/orders is a representative protected endpoint.
func TestAuthorizeOutcomes(t *testing.T) {
	t.Run("no credential", func(t *testing.T) {
		f := newFixture(t)
		rec, env := f.do(t, http.MethodGet, "/v1/orders", "", nil)
		wantOutcome(t, rec, env, http.StatusUnauthorized, codeUnauthorized)
		if env.Message != "Authentication required" {
			t.Fatalf("message = %q", env.Message)
		}
	})

	t.Run("no role", func(t *testing.T) {
		f := newFixture(t)
		rec, env := f.do(t, http.MethodGet, "/v1/orders", f.bearerFor(t, "emp-norole"), nil)
		wantOutcome(t, rec, env, http.StatusOK, codeNoRole)
		if env.Message != "No role assigned for this website" {
			t.Fatalf("message = %q", env.Message)
		}
	})

	t.Run("forbidden", func(t *testing.T) {
		f := newFixture(t)
		// Branch operators hold no USERS grant at any scope.
		rec, env := f.do(t, http.MethodGet, "/v1/users", f.bearerFor(t, "emp-branch"), nil)
		wantOutcome(t, rec, env, http.StatusForbidden, codeForbidden)
		if env.Message != "Insufficient permission" {
			t.Fatalf("message = %q", env.Message)
		}
	})

	t.Run("store failure fails closed", func(t *testing.T) {
		f := newFixture(t)
		f.store.grants = func(context.Context, []int64) ([]auth.GrantRow, error) {
			return nil, errors.New("grants unavailable")
		}
		rec, env := f.do(t, http.MethodGet, "/v1/orders", f.bearerFor(t, "emp-super"), nil)
		wantOutcome(t, rec, env, http.StatusInternalServerError, codeInternalError)
	})

	t.Run("history failure fails closed", func(t *testing.T) {
		f := newFixture(t)
		f.store.history = func(context.Context, string) ([]any, error) {
			return nil, errors.New("history unavailable")
		}
		rec, env := f.do(t, http.MethodGet, "/v1/orders", f.bearerFor(t, "emp-super"), nil)
		wantOutcome(t, rec, env, http.StatusInternalServerError, codeInternalError)
	})
}
