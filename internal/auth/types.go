package auth

// TokenType tags which credential channel produced a Subject.
type TokenType string

const (
	TokenAccess     TokenType = "access"
	TokenExternalID TokenType = "externalIdToken"
)

// Subject is the authenticated caller for a single request. It is never
// persisted; the pipeline builds a fresh one per request.
type Subject struct {
	// UID is the stable public identifier of the caller.
	UID string
	// Sub is the access-token subject when the bearer channel resolved the
	// caller; empty for external identity tokens.
	Sub string
	// UserID is the internal numeric identifier, when the credential
	// carried one.
	UserID *int64
	// TokenType records which channel verified the credential.
	TokenType TokenType
	// Claims holds the raw verified claims of an external identity token.
	Claims map[string]any
}

// Employee is an identity-store record. RoleHistory is the externally-owned
// ordered role assignment history; only the last entry is authoritative.
type Employee struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	Active       bool
	RoleHistory  []any
}

// Role is a role-store record.
type Role struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// PermissionRef is the object/action pair a grant row points at.
type PermissionRef struct {
	ObjectCode string
	ActionCode string
}

// GrantRow is a raw (role, permission) row as stored externally. Permission
// is nil when the row has a dangling permission reference; the aggregator
// skips such rows.
type GrantRow struct {
	RoleID     int64
	Permission *PermissionRef
}

// PermissionItem maps one object code to its permitted actions, sorted
// ascending and deduplicated.
type PermissionItem struct {
	ObjectCode string   `json:"object_code"`
	ActionCode []string `json:"action_code"`
}

// PermissionSet is the aggregated per-request permission mapping. Entries
// are sorted by object code; an object with no actions never appears.
type PermissionSet []PermissionItem

// Requirement names the object/action pair a protected operation needs.
type Requirement struct {
	Object string
	Action string
}

// Principal is the outcome of a fully authorized pipeline run: the resolved
// subject, its active role, and the aggregated permission set, available to
// the protected operation for scope-narrowing.
type Principal struct {
	Subject     Subject
	RoleID      int64
	Permissions PermissionSet
}
