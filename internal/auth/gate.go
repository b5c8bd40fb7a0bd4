package auth

// HasPermission reports whether perms allows action on the exact object
// code. Pure and total: a nil or empty set denies everything, and no
// wildcard or hierarchy semantics exist — broader scopes must be checked by
// the caller with Any.
func HasPermission(perms PermissionSet, objectCode, action string) bool {
	for _, item := range perms {
		if item.ObjectCode != objectCode {
			continue
		}
		for _, a := range item.ActionCode {
			if a == action {
				return true
			}
		}
		return false
	}
	return false
}

// Any reports whether perms satisfies at least one requirement. This is the
// scope-OR pattern used throughout the console: an operation allowed at ALL,
// COMPANY, or BRANCH scope checks all three object codes.
func Any(perms PermissionSet, reqs ...Requirement) bool {
	for _, req := range reqs {
		if HasPermission(perms, req.Object, req.Action) {
			return true
		}
	}
	return false
}

// ScopeRequirements builds the conventional ALL/COMPANY/BRANCH requirement
// triple for a domain prefix, e.g. ScopeRequirements("ORDER", "LIST").
func ScopeRequirements(prefix, action string) []Requirement {
	return []Requirement{
		{Object: prefix + "_ALL", Action: action},
		{Object: prefix + "_COMPANY", Action: action},
		{Object: prefix + "_BRANCH", Action: action},
	}
}
