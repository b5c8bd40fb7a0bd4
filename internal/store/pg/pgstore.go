// Package pg implements the identity, role-history, role, and grant stores
// on PostgreSQL.
package pg

import (
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Store carries the shared connection pool. It satisfies the collaborator
// interfaces consumed by the authorization core.
type Store struct {
	db *sql.DB
}

// Open connects to the DSN with tuned pool defaults.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// New wraps an existing pool (tests use this with sqlmock).
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close releases the pool.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the raw pool for readiness probes and migrations.
func (s *Store) DB() *sql.DB { return s.db }
