package pg

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"adminconsole/internal/auth"
)

var (
	_ auth.IdentityStore    = (*Store)(nil)
	_ auth.RoleHistoryStore = (*Store)(nil)
	_ auth.RoleStore        = (*Store)(nil)
	_ auth.GrantStore       = (*Store)(nil)
)

const employeeColumns = `id, email, username, password_hash, is_active, role_history`

// FindEmployeeByEmail returns the account for email (matched lowercased,
// via the lower(email) index) or auth.ErrNotFound.
func (s *Store) FindEmployeeByEmail(ctx context.Context, email string) (*auth.Employee, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+employeeColumns+` from tbl_employee where lower(email) = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	return scanEmployee(row)
}

// FindEmployeeByID returns the account for id or auth.ErrNotFound.
func (s *Store) FindEmployeeByID(ctx context.Context, id string) (*auth.Employee, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+employeeColumns+` from tbl_employee where id = $1`, id)
	return scanEmployee(row)
}

// ListEmployees returns every account, ordered by id.
func (s *Store) ListEmployees(ctx context.Context) ([]auth.Employee, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+employeeColumns+` from tbl_employee order by id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []auth.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *e)
	}
	return employees, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*auth.Employee, error) {
	var (
		e       auth.Employee
		history []byte
	)
	if err := row.Scan(&e.ID, &e.Email, &e.Username, &e.PasswordHash, &e.Active, &history); err != nil {
		if err == sql.ErrNoRows {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	var err error
	e.RoleHistory, err = decodeHistory(history)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// RoleHistory reads the employee's ordered role assignment history from the
// role_history JSONB column. A missing employee yields an empty history,
// which resolves downstream to "no role assigned".
func (s *Store) RoleHistory(ctx context.Context, employeeID string) ([]any, error) {
	var history []byte
	err := s.db.QueryRowContext(ctx,
		`select role_history from tbl_employee where id = $1`, employeeID,
	).Scan(&history)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeHistory(history)
}

// decodeHistory parses the JSONB array, preserving numeric precision via
// json.Number so role ids survive coercion untouched.
func decodeHistory(raw []byte) ([]any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var history []any
	if err := dec.Decode(&history); err != nil {
		return nil, fmt.Errorf("decode role history: %w", err)
	}
	return history, nil
}
