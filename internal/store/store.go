// Package store implements the persistent roster and acknowledgment ledger.
//
// It runs on either PostgreSQL (production, github.com/lib/pq) or SQLite
// (embedded deployments and tests, modernc.org/sqlite) behind one Store
// type. Queries are written with ? placeholders and rebound to $n for
// Postgres. The embedded backend manages its own schema; the Postgres
// schema is provisioned externally.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Employee lifecycle statuses.
const (
	// StatusActive marks a pre-provisioned roster member.
	StatusActive = "active"
	// StatusPending marks an employee auto-provisioned on first contact,
	// awaiting roster confirmation.
	StatusPending = "pending"
)

// ErrDuplicateAck is returned by RecordAcknowledgment when the storage
// uniqueness constraint on (employee_id, handbook_version) fires. Callers
// treat it as "already acknowledged", not as a failure.
var ErrDuplicateAck = errors.New("acknowledgment already recorded for this employee and version")

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// Store provides roster and ledger persistence over a SQL database.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Open connects to the storage target. URLs starting with postgres:// or
// postgresql:// open a Postgres connection; any other value is treated as
// a SQLite database path, created and migrated on first open.
func Open(url string) (*Store, error) {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		db, err := sql.Open("postgres", url)
		if err != nil {
			return nil, fmt.Errorf("store: open postgres: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: ping postgres: %w", err)
		}
		return &Store{db: db, dialect: dialectPostgres}, nil
	}

	db, err := sql.Open("sqlite", url)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, dialect: dialectSQLite}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the embedded schema. Non-destructive: IF NOT EXISTS
// throughout, so reopening an existing database is a no-op.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS employees (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			full_name        TEXT NOT NULL DEFAULT '',
			channel_user_id  TEXT,
			channel_username TEXT,
			status           TEXT NOT NULL DEFAULT 'active',
			created_at       TEXT NOT NULL,
			updated_at       TEXT NOT NULL
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_employees_channel_user
			ON employees(channel_user_id) WHERE channel_user_id IS NOT NULL;

		CREATE TABLE IF NOT EXISTS acknowledgments (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			employee_id          INTEGER NOT NULL REFERENCES employees(id),
			handbook_version     TEXT NOT NULL,
			ack_text             TEXT NOT NULL,
			acknowledged_at      TEXT NOT NULL,
			channel_id           INTEGER NOT NULL,
			channel_message_id   INTEGER NOT NULL,
			channel_message_date TEXT NOT NULL,
			raw_event_json       TEXT NOT NULL,
			UNIQUE (employee_id, handbook_version)
		);

		CREATE INDEX IF NOT EXISTS idx_acks_version  ON acknowledgments(handbook_version);
		CREATE INDEX IF NOT EXISTS idx_acks_employee ON acknowledgments(employee_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// rebind rewrites ? placeholders to $1..$n for Postgres. SQLite queries
// pass through untouched.
func (s *Store) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isUniqueViolation reports whether err is a uniqueness-constraint failure
// from either backend (Postgres 23505, SQLite SQLITE_CONSTRAINT_*).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		code := sqErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// nowUTC returns the current instant formatted the way all timestamps are
// stored: RFC3339 in UTC.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// nullable maps an empty string to NULL so partial unique indexes on
// optional columns stay meaningful.
func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
