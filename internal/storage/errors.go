package storage

import (
	"errors"
	"fmt"
)

// Validation errors for storage call arguments.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrEmptyStatements  = errors.New("statement list cannot be empty")
	ErrStoreClosing     = errors.New("store is closing")
	ErrInvalidSortField = errors.New("sort field is not in the allow-list")
	ErrInvalidSortDir   = errors.New("sort direction must be ASC or DESC")
	ErrNotFound         = errors.New("not found")
)

// ConnectionError indicates the underlying database could not be opened.
type ConnectionError struct {
	Err  error
	Path string
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to open database %s: %v", e.Path, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// QueryError wraps a driver error from a read-only statement, echoing the
// statement and parameters for diagnostics. Parameters are treated as
// loggable metadata, not secrets.
type QueryError struct {
	Err   error
	Query string
	Args  []any
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v (stmt=%q args=%v)", e.Err, e.Query, e.Args)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// CommandError wraps a driver error from a single write statement.
type CommandError struct {
	Err   error
	Query string
	Args  []any
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("execute failed: %v (stmt=%q args=%v)", e.Err, e.Query, e.Args)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// TransactionError carries the error of the statement that failed inside an
// atomic multi-statement run. If the rollback itself also failed, that error
// is attached as supplementary context; it never replaces the original
// statement error.
type TransactionError struct {
	Err         error
	RollbackErr error
	Statement   string
	Index       int
}

func (e *TransactionError) Error() string {
	msg := fmt.Sprintf("transaction statement %d failed: %v (stmt=%q)", e.Index, e.Err, e.Statement)
	if e.RollbackErr != nil {
		msg += fmt.Sprintf("; rollback also failed: %v", e.RollbackErr)
	}
	return msg
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}
