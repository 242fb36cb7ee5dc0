package sql

import (
	"context"
	"fmt"
	"time"

	"github.com/syssam/plandb/dialect"
)

// Statement is a parameterized SQL statement with positional arguments.
type Statement struct {
	SQL  string
	Args []any
}

// Stmt returns a statement binding args to query.
func Stmt(query string, args ...any) Statement {
	return Statement{SQL: query, Args: args}
}

// Batch is one parameterized statement executed once per added row.
type Batch struct {
	SQL  string
	rows [][]any
}

// NewBatch returns an empty batch for query.
func NewBatch(query string) *Batch {
	return &Batch{SQL: query}
}

// Add appends a row of arguments.
func (b *Batch) Add(args ...any) *Batch {
	b.rows = append(b.rows, args)
	return b
}

// Len returns the number of rows in the batch.
func (b *Batch) Len() int {
	return len(b.rows)
}

// Executor runs operations on a database handle. It is implemented by
// *Driver, which acquires a handle per operation, and by *Tx, which reuses
// the handle of an enclosing Transaction.
type Executor interface {
	Dialect() dialect.Dialect
	do(ctx context.Context, op, query string, args []any, fn func(*handle) error) error
}

var (
	_ Executor = (*Driver)(nil)
	_ Executor = (*Tx)(nil)
)

// Execute runs a single statement and reports whether it affected any row.
func (d *Driver) Execute(ctx context.Context, stmt Statement) (bool, error) {
	return execute(ctx, d, stmt)
}

// ExecuteBatch runs the batch within one operation. Under SQLite the batch
// is all-or-nothing. Under MySQL rows executed before a failing row stay
// applied. An empty batch does nothing.
func (d *Driver) ExecuteBatch(ctx context.Context, b *Batch) error {
	return executeBatch(ctx, d, b)
}

// Exec runs a statement given as plain SQL and arguments.
func (d *Driver) Exec(ctx context.Context, query string, args ...any) error {
	_, err := execute(ctx, d, Stmt(query, args...))
	return err
}

// Transaction runs fn with every statement it issues sharing one handle.
// Under SQLite the statements commit together or not at all.
func (d *Driver) Transaction(ctx context.Context, fn func(*Tx) error) error {
	return d.run(ctx, "transaction", "", nil, func(h *handle) error {
		return fn(&Tx{h: h, drv: d})
	})
}

// Tx is the handle passed to a Transaction callback. It must not be used
// after the callback returns.
type Tx struct {
	h   *handle
	drv *Driver
}

// Dialect returns the dialect of the driver owning the transaction.
func (tx *Tx) Dialect() dialect.Dialect { return tx.drv.dialect }

// Execute runs a single statement and reports whether it affected any row.
func (tx *Tx) Execute(ctx context.Context, stmt Statement) (bool, error) {
	return execute(ctx, tx, stmt)
}

// ExecuteBatch runs the batch on the transaction handle.
func (tx *Tx) ExecuteBatch(ctx context.Context, b *Batch) error {
	return executeBatch(ctx, tx, b)
}

// Exec runs a statement given as plain SQL and arguments.
func (tx *Tx) Exec(ctx context.Context, query string, args ...any) error {
	_, err := execute(ctx, tx, Stmt(query, args...))
	return err
}

func (tx *Tx) do(ctx context.Context, op, query string, args []any, fn func(*handle) error) (err error) {
	start := time.Now()
	defer tx.drv.observe(ctx, op, query, args, start, &err)
	if err := fn(tx.h); err != nil {
		return wrapStatement(op, query, err)
	}
	return nil
}

func execute(ctx context.Context, ex Executor, stmt Statement) (affected bool, err error) {
	err = ex.do(ctx, "exec", stmt.SQL, stmt.Args, func(h *handle) error {
		res, err := h.ExecContext(ctx, stmt.SQL, stmt.Args...)
		if err != nil {
			return err
		}
		// Drivers that cannot report affected rows count as not affected.
		if n, err := res.RowsAffected(); err == nil {
			affected = n > 0
		}
		return nil
	})
	return affected, err
}

func executeBatch(ctx context.Context, ex Executor, b *Batch) error {
	if b == nil || b.Len() == 0 {
		return nil
	}
	return ex.do(ctx, "batch", b.SQL, nil, func(h *handle) error {
		stmt, err := h.PrepareContext(ctx, b.SQL)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, args := range b.rows {
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("row %d of %d: %w", i+1, len(b.rows), err)
			}
		}
		return nil
	})
}

// Query runs a query and hands the open result set to mapper. The result
// set is closed when mapper returns.
func Query[T any](ctx context.Context, ex Executor, stmt Statement, mapper func(ColumnScanner) (T, error)) (T, error) {
	var v T
	err := ex.do(ctx, "query", stmt.SQL, stmt.Args, func(h *handle) error {
		rows, err := h.QueryContext(ctx, stmt.SQL, stmt.Args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		if v, err = mapper(rows); err != nil {
			return err
		}
		if err := rows.Err(); err != nil {
			return err
		}
		return rows.Close()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// QueryAll maps every row of the result set in order.
func QueryAll[T any](ctx context.Context, ex Executor, stmt Statement, mapRow func(Scanner) (T, error)) ([]T, error) {
	return Query(ctx, ex, stmt, func(rows ColumnScanner) ([]T, error) {
		var out []T
		for rows.Next() {
			v, err := mapRow(rows)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	})
}

// QueryOne maps the first row of the result set. It returns an error
// matching ErrNoRows when the result set is empty.
func QueryOne[T any](ctx context.Context, ex Executor, stmt Statement, mapRow func(Scanner) (T, error)) (T, error) {
	return Query(ctx, ex, stmt, func(rows ColumnScanner) (T, error) {
		if !rows.Next() {
			var zero T
			if err := rows.Err(); err != nil {
				return zero, err
			}
			return zero, ErrNoRows
		}
		return mapRow(rows)
	})
}

// QueryMap maps every row to a key and value. Later rows overwrite earlier
// rows with the same key.
func QueryMap[K comparable, V any](ctx context.Context, ex Executor, stmt Statement, mapRow func(Scanner) (K, V, error)) (map[K]V, error) {
	return Query(ctx, ex, stmt, func(rows ColumnScanner) (map[K]V, error) {
		out := make(map[K]V)
		for rows.Next() {
			k, v, err := mapRow(rows)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	})
}

// ScanInt64 maps a row holding a single integer.
func ScanInt64(s Scanner) (int64, error) {
	var v int64
	err := s.Scan(&v)
	return v, err
}

// ScanString maps a row holding a single string.
func ScanString(s Scanner) (string, error) {
	var v string
	err := s.Scan(&v)
	return v, err
}
