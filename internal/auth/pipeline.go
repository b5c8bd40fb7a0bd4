package auth

import (
	"context"

	"go.uber.org/zap"
)

// Pipeline composes credential verification, role resolution, permission
// aggregation, and the gate around a protected operation. It is stateless
// and re-run in full on every request; nothing is cached across requests.
//
// The stage order is fixed: a request that presents no credential never
// touches the role or grant stores.
type Pipeline struct {
	resolver *Resolver
	roles    *RoleResolver
	perms    *Aggregator
	log      *zap.Logger
}

// NewPipeline wires the pipeline stages together.
func NewPipeline(resolver *Resolver, roles *RoleResolver, perms *Aggregator, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{resolver: resolver, roles: roles, perms: perms, log: log}
}

// Identify runs only the credential stage.
func (p *Pipeline) Identify(ctx context.Context, creds Credentials) (Subject, error) {
	return p.resolver.Resolve(ctx, creds)
}

// Authorize runs the full pipeline and returns the principal on success.
// Terminal failures, in stage order:
//
//	ErrNoCredential — no verification path produced a subject
//	ErrNoRole       — subject valid, role history empty or uncoercible
//	ErrLookup       — a collaborator store failed (fail closed)
//	ErrForbidden    — permissions loaded, gate denied every requirement
//
// With no requirements the gate stage is skipped: the caller receives the
// principal and applies its own checks (the pattern behind endpoints that
// branch on scope inside the handler).
func (p *Pipeline) Authorize(ctx context.Context, creds Credentials, reqs ...Requirement) (Principal, error) {
	subject, err := p.resolver.Resolve(ctx, creds)
	if err != nil {
		return Principal{}, err
	}

	subjectID := subject.Sub
	if subjectID == "" {
		subjectID = subject.UID
	}
	roleID, ok, err := p.roles.LatestRole(ctx, subjectID)
	if err != nil {
		p.log.Error("role resolution failed", zap.String("subject", subjectID), zap.Error(err))
		return Principal{}, err
	}
	if !ok {
		return Principal{}, ErrNoRole
	}

	perms, err := p.perms.Aggregate(ctx, []int64{roleID})
	if err != nil {
		p.log.Error("permission aggregation failed",
			zap.String("subject", subjectID),
			zap.Int64("role_id", roleID),
			zap.Error(err))
		return Principal{}, err
	}

	principal := Principal{Subject: subject, RoleID: roleID, Permissions: perms}
	if len(reqs) > 0 && !Any(perms, reqs...) {
		return Principal{}, ErrForbidden
	}
	return principal, nil
}
