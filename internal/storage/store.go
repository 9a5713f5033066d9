// Package storage provides the data persistence layer for the ledger: a
// single embedded SQLite database behind an explicitly owned connection
// manager with interior synchronization.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/pocketledger/pocketledger/internal/common"
)

// connState tracks the lifecycle of the single connection.
type connState int

const (
	stateUninitialized connState = iota
	stateConnecting
	stateReady
	stateFailed
	stateClosing
	stateClosed
)

// Store owns the one process-wide database handle. All operations that touch
// the handle queue behind an interior mutex; SQLite does not safely support
// concurrent statements on a single connection. Operations attempted after a
// failed open or after Close re-attempt the open transparently.
type Store struct {
	db    *sql.DB
	path  string
	state connState
	mu    sync.Mutex
}

// Statement is one parameterized SQL statement of an atomic run.
type Statement struct {
	SQL  string
	Args []any
}

// ExecResult reports the outcome of a single write statement.
type ExecResult struct {
	RowsAffected int64
	LastInsertID int64
}

// New creates a store for the database at path. No I/O happens until the
// first operation or an explicit Open.
func New(path string) (*Store, error) {
	if err := validateString(path, "path"); err != nil {
		return nil, err
	}
	return &Store{path: path}, nil
}

// Open establishes the connection if it is not already live. It is
// idempotent: repeated calls return successfully against the same handle.
func (s *Store) Open(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.ensureOpenLocked(ctx)
	return err
}

// Close releases the handle. Closing an already-closed or never-opened store
// is a no-op; it is safe to call during process shutdown.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateReady {
		s.state = stateClosed
		return nil
	}

	s.state = stateClosing
	err := s.db.Close()
	s.db = nil
	s.state = stateClosed
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// ensureOpenLocked lazily opens the connection. Callers must hold s.mu.
func (s *Store) ensureOpenLocked(ctx context.Context) (*sql.DB, error) {
	switch s.state {
	case stateReady:
		return s.db, nil
	case stateClosing:
		return nil, &ConnectionError{Path: s.path, Err: ErrStoreClosing}
	default:
	}

	s.state = stateConnecting

	if !s.isMemoryPath() {
		dir := filepath.Dir(s.path)
		if err := os.MkdirAll(dir, 0750); err != nil {
			s.state = stateFailed
			return nil, &ConnectionError{Path: s.path, Err: fmt.Errorf("failed to create database directory: %w", err)}
		}
	}

	db, err := sql.Open("sqlite3", s.path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		s.state = stateFailed
		return nil, &ConnectionError{Path: s.path, Err: err}
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		s.state = stateFailed
		return nil, &ConnectionError{Path: s.path, Err: err}
	}

	s.db = db
	s.state = stateReady
	slog.Debug("opened ledger database", "path", s.path)
	return db, nil
}

func (s *Store) isMemoryPath() bool {
	return s.path == ":memory:" || strings.HasPrefix(s.path, "file:")
}

// withDB runs fn with the live handle while holding the store mutex. The
// whole discrete operation, including row scanning, happens inside the
// mutual-exclusion boundary.
func (s *Store) withDB(ctx context.Context, fn func(db *sql.DB) error) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.ensureOpenLocked(ctx)
	if err != nil {
		return err
	}
	return fn(db)
}

// Query executes a read-only statement and returns one map per row. Typed
// reads live in the per-entity files; this generic surface serves ad-hoc
// callers and diagnostics.
func (s *Store) Query(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	if err := validateString(query, "query"); err != nil {
		return nil, err
	}

	var results []map[string]any
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return &QueryError{Query: query, Args: args, Err: err}
		}
		defer func() { _ = rows.Close() }()

		cols, err := rows.Columns()
		if err != nil {
			return &QueryError{Query: query, Args: args, Err: err}
		}

		for rows.Next() {
			values := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range values {
				ptrs[i] = &values[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return &QueryError{Query: query, Args: args, Err: err}
			}
			row := make(map[string]any, len(cols))
			for i, col := range cols {
				row[col] = values[i]
			}
			results = append(results, row)
		}
		if err := rows.Err(); err != nil {
			return &QueryError{Query: query, Args: args, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Execute runs a single write statement.
func (s *Store) Execute(ctx context.Context, query string, args ...any) (ExecResult, error) {
	if err := validateString(query, "query"); err != nil {
		return ExecResult{}, err
	}

	var result ExecResult
	err := s.withDB(ctx, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, query, args...)
		if err != nil {
			return &CommandError{Query: query, Args: args, Err: err}
		}
		result.RowsAffected, _ = res.RowsAffected()
		result.LastInsertID, _ = res.LastInsertId()
		return nil
	})
	if err != nil {
		return ExecResult{}, err
	}
	return result, nil
}

// RunTransaction executes the statements in order inside one explicit
// transaction. On success it returns one result per statement, same order.
// On any statement failure it rolls back and returns a TransactionError; no
// partial result is ever returned. A rollback failure is attached to the
// error as supplementary context but never masks the original cause.
func (s *Store) RunTransaction(ctx context.Context, stmts []Statement) ([]ExecResult, error) {
	if len(stmts) == 0 {
		return nil, ErrEmptyStatements
	}
	for i, st := range stmts {
		if strings.TrimSpace(st.SQL) == "" {
			return nil, fmt.Errorf("%w: statement %d", ErrEmptyString, i)
		}
	}

	var results []ExecResult
	err := s.withDB(ctx, func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		results = make([]ExecResult, 0, len(stmts))
		for i, st := range stmts {
			// A dispatched statement runs to completion; cancellation is
			// only honored between statements.
			if ctxErr := ctx.Err(); ctxErr != nil {
				rbErr := tx.Rollback()
				results = nil
				return &TransactionError{Index: i, Statement: st.SQL, Err: ctxErr, RollbackErr: rbErr}
			}

			res, execErr := tx.ExecContext(ctx, st.SQL, st.Args...)
			if execErr != nil {
				rbErr := tx.Rollback()
				if rbErr != nil {
					common.LogError(rbErr, "rollback failed after statement error", common.Fields{
						"statement_index": i,
						"statement_error": execErr.Error(),
					})
				}
				results = nil
				return &TransactionError{Index: i, Statement: st.SQL, Err: execErr, RollbackErr: rbErr}
			}

			var r ExecResult
			r.RowsAffected, _ = res.RowsAffected()
			r.LastInsertID, _ = res.LastInsertId()
			results = append(results, r)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			results = nil
			return &TransactionError{Index: len(stmts) - 1, Statement: stmts[len(stmts)-1].SQL, Err: commitErr}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// HealthCheck executes a trivial read and reports liveness. It never
// returns an error, making it safe for polling callers.
func (s *Store) HealthCheck(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	var one int
	err := s.withDB(ctx, func(db *sql.DB) error {
		return db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
	})
	return err == nil && one == 1
}

// SchemaVersion reads the persisted schema version marker. It returns 0 if
// the marker is absent or unreadable, never an error.
func (s *Store) SchemaVersion(ctx context.Context) int {
	if ctx == nil {
		return 0
	}
	var version int
	err := s.withDB(ctx, func(db *sql.DB) error {
		return db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	})
	if err != nil {
		return 0
	}
	return version
}

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}
