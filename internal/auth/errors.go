package auth

import "errors"

var (
	// ErrNoCredential means no usable token was presented or every
	// verification path failed. Surfaced as 401 UNAUTHORIZED.
	ErrNoCredential = errors.New("auth: no usable credential")
	// ErrNoRole means the subject is valid but holds no active role. A
	// business outcome, not a failure.
	ErrNoRole = errors.New("auth: no role assigned")
	// ErrForbidden means permissions loaded and the gate denied.
	ErrForbidden = errors.New("auth: permission denied")
	// ErrLookup wraps external store failures. Fail closed: surfaced as
	// INTERNAL_ERROR, never as an empty permission set.
	ErrLookup = errors.New("auth: lookup failed")
	// ErrNotFound is returned by stores for missing records.
	ErrNotFound = errors.New("auth: not found")
)
