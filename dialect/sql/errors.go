package sql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrPanic is recorded for an operation whose callback panicked.
var ErrPanic = errors.New("dialect/sql: operation panicked")

// StatementError is returned when a statement fails. It carries the SQL so
// that callers and logs can identify the failing statement.
type StatementError struct {
	Op  string
	SQL string
	Err error
}

// Error implements the error interface.
func (e *StatementError) Error() string {
	if e.SQL == "" {
		return fmt.Sprintf("dialect/sql: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("dialect/sql: %s %q: %v", e.Op, e.SQL, e.Err)
}

// Unwrap returns the underlying error.
func (e *StatementError) Unwrap() error {
	return e.Err
}

// NewStatementError returns a new StatementError.
func NewStatementError(op, query string, err error) *StatementError {
	return &StatementError{Op: op, SQL: query, Err: err}
}

// IsStatementError returns true if the error is a StatementError.
func IsStatementError(err error) bool {
	var e *StatementError
	return errors.As(err, &e)
}

// wrapStatement wraps err unless it already carries a statement.
func wrapStatement(op, query string, err error) error {
	var e *StatementError
	if errors.As(err, &e) {
		return err
	}
	return NewStatementError(op, query, err)
}

// ConnError is returned when a connection cannot be opened, acquired or
// closed. It never carries a statement.
type ConnError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *ConnError) Error() string {
	return fmt.Sprintf("dialect/sql: %s connection: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConnError) Unwrap() error {
	return e.Err
}

// NewConnError returns a new ConnError.
func NewConnError(op string, err error) *ConnError {
	return &ConnError{Op: op, Err: err}
}

// IsConnError returns true if the error is a ConnError.
func IsConnError(err error) bool {
	var e *ConnError
	return errors.As(err, &e)
}

// MySQL error numbers for constraint violations.
const (
	mysqlDuplicateEntry   = 1062
	mysqlForeignKeyParent = 1451 // Cannot delete or update a parent row
	mysqlForeignKeyChild  = 1452 // Cannot add or update a child row
)

// IsConstraintError returns true if the error resulted from a database constraint violation.
func IsConstraintError(err error) bool {
	return IsUniqueConstraintError(err) || IsForeignKeyConstraintError(err)
}

// IsUniqueConstraintError reports if the error resulted from a DB uniqueness constraint violation.
// e.g. duplicate value in unique index.
func IsUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return true
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	// Fallback to string matching for wrapped or driver-agnostic errors.
	return containsAny(err.Error(),
		"Error 1062",               // MySQL
		"UNIQUE constraint failed", // SQLite
	)
}

// IsForeignKeyConstraintError reports if the error resulted from a database foreign-key constraint violation.
// e.g. parent row does not exist.
func IsForeignKeyConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && (me.Number == mysqlForeignKeyParent || me.Number == mysqlForeignKeyChild) {
		return true
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return containsAny(err.Error(),
		"Error 1451",                    // MySQL (Cannot delete or update a parent row)
		"Error 1452",                    // MySQL (Cannot add or update a child row)
		"FOREIGN KEY constraint failed", // SQLite
	)
}

// isNothingToCommit reports whether a commit failed only because no
// transaction was active.
func isNothingToCommit(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return containsAny(msg, "no transaction is active", "nothing to commit")
}

// containsAny returns true if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
