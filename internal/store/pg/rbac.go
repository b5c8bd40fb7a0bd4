package pg

import (
	"context"
	"database/sql"

	"adminconsole/internal/auth"
)

// RolesByIDs loads role records for ids, in id order.
func (s *Store) RolesByIDs(ctx context.Context, ids []int64) ([]auth.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		select id, code, name
		from tbl_role
		where id = any($1)
		order by id
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []auth.Role
	for rows.Next() {
		var r auth.Role
		if err := rows.Scan(&r.ID, &r.Code, &r.Name); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// GrantsForRoles fetches the raw grant rows for roleIDs. The permission
// side of the join is left-joined so dangling permission references come
// back with a nil Permission instead of disappearing silently; the
// aggregator decides how to treat them.
func (s *Store) GrantsForRoles(ctx context.Context, roleIDs []int64) ([]auth.GrantRow, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		select rp.role_id, p.object_code, p.action_code
		from role_permission rp
		left join tbl_permission p on p.id = rp.permission_id
		where rp.role_id = any($1)
	`, roleIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []auth.GrantRow
	for rows.Next() {
		var (
			row        auth.GrantRow
			objectCode sql.NullString
			actionCode sql.NullString
		)
		if err := rows.Scan(&row.RoleID, &objectCode, &actionCode); err != nil {
			return nil, err
		}
		if objectCode.Valid && actionCode.Valid {
			row.Permission = &auth.PermissionRef{
				ObjectCode: objectCode.String,
				ActionCode: actionCode.String,
			}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
