package auth

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Credentials are the raw token values extracted from a request: the bearer
// value of the authorization header and the alternate identity token from
// its dedicated header or body field. Either may be empty.
type Credentials struct {
	Bearer  string
	IDToken string
}

// AccessClaims is the payload the access-token verifier hands back for a
// valid self-issued token.
type AccessClaims struct {
	Sub      string
	Email    string
	Username string
	UID      string
	UserID   *int64
	Roles    []int64
}

// AccessVerifier verifies a self-issued access token. Implementations
// collapse every failure mode into a single error.
type AccessVerifier interface {
	VerifyAccess(raw string) (AccessClaims, error)
}

// IdentityProvider verifies an external identity token and returns its
// claims.
type IdentityProvider interface {
	VerifyIDToken(ctx context.Context, raw string) (map[string]any, error)
}

// Resolver is the credential verifier: it turns raw request credentials
// into a Subject, or fails with ErrNoCredential. The bearer channel is
// tried first; the external identity token is the fallback.
type Resolver struct {
	access AccessVerifier
	idp    IdentityProvider
	log    *zap.Logger
}

// NewResolver constructs a Resolver. idp may be nil when the external
// channel is not configured.
func NewResolver(access AccessVerifier, idp IdentityProvider, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{access: access, idp: idp, log: log}
}

// Resolve verifies creds and returns the caller's Subject. No partial
// identity is ever returned: both channels failing yields ErrNoCredential.
// Whitespace-only token values are treated as absent.
func (r *Resolver) Resolve(ctx context.Context, creds Credentials) (Subject, error) {
	if bearer := strings.TrimSpace(creds.Bearer); bearer != "" && r.access != nil {
		claims, err := r.access.VerifyAccess(bearer)
		if err == nil && claims.Sub != "" {
			uid := claims.UID
			if uid == "" {
				uid = claims.Sub
			}
			return Subject{
				UID:       uid,
				Sub:       claims.Sub,
				UserID:    claims.UserID,
				TokenType: TokenAccess,
			}, nil
		}
		if err != nil {
			r.log.Warn("access token verification failed", zap.Error(err))
		}
	}

	idToken := strings.TrimSpace(creds.IDToken)
	if idToken == "" || r.idp == nil {
		return Subject{}, ErrNoCredential
	}
	claims, err := r.idp.VerifyIDToken(ctx, idToken)
	if err != nil {
		r.log.Warn("identity provider token verification failed", zap.Error(err))
		return Subject{}, ErrNoCredential
	}
	uid := uidFromClaims(claims)
	if uid == "" {
		return Subject{}, ErrNoCredential
	}
	return Subject{
		UID:       uid,
		TokenType: TokenExternalID,
		Claims:    claims,
	}, nil
}

// uidFromClaims picks the unique identifier out of identity-provider claims,
// checking user_id, uid, and sub in that order.
func uidFromClaims(claims map[string]any) string {
	for _, key := range []string{"user_id", "uid", "sub"} {
		if v, ok := claims[key]; ok {
			if s := strings.TrimSpace(stringify(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}
