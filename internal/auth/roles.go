package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RoleResolver turns a subject into its single active role: the last entry
// of the role assignment history. A multi-role model would aggregate the
// whole history here; the console deliberately keeps last-role-wins.
type RoleResolver struct {
	store RoleHistoryStore
}

// NewRoleResolver constructs a RoleResolver over the history store.
func NewRoleResolver(store RoleHistoryStore) *RoleResolver {
	return &RoleResolver{store: store}
}

// LatestRole returns the subject's active role id. ok is false when the
// history is empty or its last entry does not coerce to a role id — a valid
// "no role assigned" outcome, distinct from the error case of an unreachable
// store (which wraps ErrLookup).
func (r *RoleResolver) LatestRole(ctx context.Context, subjectID string) (roleID int64, ok bool, err error) {
	history, err := r.store.RoleHistory(ctx, subjectID)
	if err != nil {
		return 0, false, fmt.Errorf("%w: role history: %v", ErrLookup, err)
	}
	roleID, ok = LastRoleID(history)
	return roleID, ok, nil
}

// LastRoleID coerces the last element of a role history to a role id.
// History values arrive as decoded JSON, so numbers may be float64,
// json.Number, or stray strings; anything non-finite or non-numeric means
// no role.
func LastRoleID(history []any) (int64, bool) {
	if len(history) == 0 {
		return 0, false
	}
	return coerceRoleID(history[len(history)-1])
}

func coerceRoleID(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int64(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		f, err := t.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int64(f), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int64(f), true
	default:
		return 0, false
	}
}
