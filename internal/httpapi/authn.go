package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"adminconsole/internal/auth"
	"adminconsole/internal/obs"
	"adminconsole/internal/token"
)

const (
	authHeader    = "Authorization"
	bearer        = "Bearer "
	idTokenHeader = "X-Id-Token"
)

// accessVerifier adapts the token signer/verifier to the credential
// resolver's contract.
type accessVerifier struct {
	access *token.Access
}

// AccessVerifierFor wraps an Access signer for use as the pipeline's
// bearer-channel verifier.
func AccessVerifierFor(a *token.Access) auth.AccessVerifier {
	return accessVerifier{access: a}
}

func (v accessVerifier) VerifyAccess(raw string) (auth.AccessClaims, error) {
	p, err := v.access.Verify(raw)
	if err != nil {
		return auth.AccessClaims{}, err
	}
	return auth.AccessClaims{
		Sub:      p.Sub,
		Email:    p.Email,
		Username: p.Username,
		UID:      p.UID,
		UserID:   p.UserID,
		Roles:    p.Roles,
	}, nil
}

// credentialsFrom pulls the raw token values off the request: the bearer
// value of the authorization header, and the alternate identity token from
// its dedicated header or, failing that, an idToken field in a JSON body.
// Either credential may be absent.
func credentialsFrom(r *http.Request) auth.Credentials {
	var creds auth.Credentials
	header := strings.TrimSpace(r.Header.Get(authHeader))
	if strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		creds.Bearer = strings.TrimSpace(header[len(bearer):])
	}
	creds.IDToken = strings.TrimSpace(r.Header.Get(idTokenHeader))
	if creds.IDToken == "" {
		creds.IDToken = bodyIDToken(r)
	}
	return creds
}

// bodyIDToken sniffs a JSON request body for the idToken field without
// consuming it: the bytes are re-wrapped so the handler still decodes the
// body afterwards. The outer body-size middleware bounds the read.
func bodyIDToken(r *http.Request) string {
	if r.Body == nil || r.Method == http.MethodGet || r.Method == http.MethodHead {
		return ""
	}
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		return ""
	}
	raw, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	var probe struct {
		IDToken string `json:"idToken"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	return strings.TrimSpace(probe.IDToken)
}

// authorize runs the full authorization pipeline for the request and
// writes the failure envelope itself. Handlers receive the principal and
// a flag telling them whether to proceed.
func (a *API) authorize(w http.ResponseWriter, r *http.Request, reqs ...auth.Requirement) (auth.Principal, bool) {
	principal, err := a.pipeline.Authorize(r.Context(), credentialsFrom(r), reqs...)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNoCredential):
			obs.ObserveAuthzDecision("unauthorized")
			respond(w, codeUnauthorized, "Authentication required", nil)
		case errors.Is(err, auth.ErrNoRole):
			obs.ObserveAuthzDecision("no_role")
			respond(w, codeNoRole, "No role assigned for this website", nil)
		case errors.Is(err, auth.ErrForbidden):
			obs.ObserveAuthzDecision("forbidden")
			respond(w, codeForbidden, "Insufficient permission", nil)
		default:
			obs.ObserveAuthzDecision("error")
			respond(w, codeInternalError, "Unexpected error", nil)
		}
		return auth.Principal{}, false
	}
	obs.ObserveAuthzDecision("allowed")
	// The principal rides the request context so audit entries carry the
	// acting subject.
	*r = *r.WithContext(auth.ContextWithPrincipal(r.Context(), principal))
	return principal, true
}

// forbid writes the standard denial envelope for handler-side scope checks.
func forbid(w http.ResponseWriter, message string) {
	obs.ObserveAuthzDecision("forbidden")
	respond(w, codeForbidden, message, nil)
}
