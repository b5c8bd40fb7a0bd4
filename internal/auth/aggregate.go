package auth

import (
	"context"
	"fmt"
	"sort"
)

// AggregateRows collapses raw grant rows into a PermissionSet. Rows with a
// nil permission reference are skipped: dangling references in the external
// store are a data gap, not an error. The result is deterministic for any
// ordering of the same row multiset — object codes and action codes are
// both sorted ascending — so equal inputs always serialize identically.
func AggregateRows(rows []GrantRow) PermissionSet {
	byObject := make(map[string]map[string]struct{})
	for _, row := range rows {
		if row.Permission == nil {
			continue
		}
		actions, ok := byObject[row.Permission.ObjectCode]
		if !ok {
			actions = make(map[string]struct{})
			byObject[row.Permission.ObjectCode] = actions
		}
		actions[row.Permission.ActionCode] = struct{}{}
	}

	set := make(PermissionSet, 0, len(byObject))
	for object, actions := range byObject {
		if len(actions) == 0 {
			continue
		}
		list := make([]string, 0, len(actions))
		for a := range actions {
			list = append(list, a)
		}
		sort.Strings(list)
		set = append(set, PermissionItem{ObjectCode: object, ActionCode: list})
	}
	sort.Slice(set, func(i, j int) bool { return set[i].ObjectCode < set[j].ObjectCode })
	return set
}

// Aggregator loads grant rows for a role set and aggregates them.
type Aggregator struct {
	store GrantStore
}

// NewAggregator constructs an Aggregator over the grant store.
func NewAggregator(store GrantStore) *Aggregator {
	return &Aggregator{store: store}
}

// Aggregate fetches every grant row for roleIDs and returns the aggregated
// permission set. Store failures wrap ErrLookup (fail closed).
func (a *Aggregator) Aggregate(ctx context.Context, roleIDs []int64) (PermissionSet, error) {
	if len(roleIDs) == 0 {
		return PermissionSet{}, nil
	}
	rows, err := a.store.GrantsForRoles(ctx, roleIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: grants for roles: %v", ErrLookup, err)
	}
	return AggregateRows(rows), nil
}
