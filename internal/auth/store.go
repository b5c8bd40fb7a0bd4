package auth

import "context"

// IdentityStore looks up employee accounts.
type IdentityStore interface {
	FindEmployeeByEmail(ctx context.Context, email string) (*Employee, error)
	FindEmployeeByID(ctx context.Context, id string) (*Employee, error)
}

// RoleHistoryStore reads a subject's ordered role assignment history.
type RoleHistoryStore interface {
	RoleHistory(ctx context.Context, employeeID string) ([]any, error)
}

// RoleStore resolves role records by id.
type RoleStore interface {
	RolesByIDs(ctx context.Context, ids []int64) ([]Role, error)
}

// GrantStore fetches raw permission grant rows for a set of roles. No
// ordering is guaranteed on the returned rows.
type GrantStore interface {
	GrantsForRoles(ctx context.Context, roleIDs []int64) ([]GrantRow, error)
}
