package auth

import "context"

type principalContextKey struct{}

// ContextWithPrincipal attaches the authorized principal to the context so
// protected operations can apply their own scope narrowing. The value is
// copied in and out; nothing downstream can mutate the pipeline's result.
func ContextWithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, &principal)
}

// PrincipalFromContext extracts the authorized principal from the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	v, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok || v == nil {
		return Principal{}, false
	}
	return *v, true
}
