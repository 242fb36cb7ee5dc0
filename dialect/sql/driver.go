package sql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/syssam/plandb/dialect"

	// Register the database/sql drivers of both dialects.
	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Driver executes statements against a database of one dialect.
//
// Every operation runs on a handle acquired from the pool and released when
// the operation returns, including on error and panic. Under SQLite the
// handle is a transaction over the single pooled connection and is committed
// on success. Under MySQL the handle is a leased connection in autocommit
// mode, so every statement is durable as soon as it executes.
type Driver struct {
	db      *sql.DB
	dialect dialect.Dialect
	log     *slog.Logger
	stats   *QueryStats
	slow    time.Duration
	onSlow  SlowQueryHook
	debug   bool
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger used for commit failures and debug output.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.log = l
		}
	}
}

// WithDebug logs every statement at debug level.
func WithDebug() Option {
	return func(d *Driver) {
		d.debug = true
	}
}

// Open opens a database of the given dialect.
func Open(d dialect.Dialect, source string, opts ...Option) (*Driver, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("dialect/sql: invalid dialect %v", d)
	}
	db, err := sql.Open(d.DriverName(), source)
	if err != nil {
		return nil, NewConnError("open", err)
	}
	return OpenDB(d, db, opts...), nil
}

// OpenDB wraps the given database/sql.DB with a Driver.
func OpenDB(d dialect.Dialect, db *sql.DB, opts ...Option) *Driver {
	drv := &Driver{
		db:      db,
		dialect: d,
		log:     slog.Default(),
		slow:    100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(drv)
	}
	if d == dialect.SQLite {
		// SQLite allows a single writer; serialize all access on one connection.
		db.SetMaxOpenConns(1)
	}
	return drv
}

// DB returns the underlying *sql.DB instance.
func (d *Driver) DB() *sql.DB { return d.db }

// Dialect returns the dialect of the driver.
func (d *Driver) Dialect() dialect.Dialect { return d.dialect }

// Ping verifies that the database is reachable.
func (d *Driver) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return NewConnError("ping", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (d *Driver) Close() error {
	if err := d.db.Close(); err != nil {
		return NewConnError("close", err)
	}
	return nil
}

// ExecQuerier wraps the standard Exec and Query methods.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// execQuerier is implemented by *sql.Tx and *sql.Conn.
type execQuerier interface {
	ExecQuerier
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// handle is a pooled connection acquired for the duration of one operation.
type handle struct {
	execQuerier
	tx   *sql.Tx
	conn *sql.Conn
}

func (d *Driver) acquire(ctx context.Context) (*handle, error) {
	if d.dialect == dialect.SQLite {
		tx, err := d.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, NewConnError("acquire", err)
		}
		return &handle{execQuerier: tx, tx: tx}, nil
	}
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return nil, NewConnError("acquire", err)
	}
	return &handle{execQuerier: conn, conn: conn}, nil
}

// commit is a no-op in autocommit mode. A commit reporting that no
// transaction is active is not a failure.
func (h *handle) commit() error {
	if h.tx == nil {
		return nil
	}
	if err := h.tx.Commit(); err != nil && !isNothingToCommit(err) {
		return err
	}
	return nil
}

func (h *handle) rollback() error {
	if h.tx == nil {
		return nil
	}
	if err := h.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return err
	}
	return nil
}

func (h *handle) release() error {
	if h.conn == nil {
		return nil
	}
	return h.conn.Close()
}

// run is the single path through which every operation reaches the
// database. fn runs on an acquired handle; the handle is committed when fn
// succeeds, rolled back otherwise, and released in every case.
func (d *Driver) run(ctx context.Context, op, query string, args []any, fn func(*handle) error) (err error) {
	start := time.Now()
	defer d.observe(ctx, op, query, args, start, &err)
	h, err := d.acquire(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			if rerr := h.rollback(); rerr != nil {
				d.log.ErrorContext(ctx, "rollback failed", "op", op, "query", query, "error", rerr)
			}
		}
		if rerr := h.release(); rerr != nil {
			d.log.ErrorContext(ctx, "release connection failed", "op", op, "error", rerr)
		}
	}()
	if err := fn(h); err != nil {
		return wrapStatement(op, query, err)
	}
	if err := h.commit(); err != nil {
		d.log.ErrorContext(ctx, "commit failed", "op", op, "query", query, "error", err)
		return NewStatementError("commit", query, err)
	}
	committed = true
	return nil
}

// WithConn runs fn on an acquired handle, for collaborators such as schema
// inspectors that issue their own statements. The handle is committed when
// fn succeeds and released in every case. fn must not retain conn.
func (d *Driver) WithConn(ctx context.Context, fn func(conn ExecQuerier) error) error {
	return d.run(ctx, "conn", "", nil, func(h *handle) error {
		return fn(h)
	})
}

// do implements Executor.
func (d *Driver) do(ctx context.Context, op, query string, args []any, fn func(*handle) error) error {
	return d.run(ctx, op, query, args, fn)
}

// observe records the outcome of an operation. It must be deferred directly
// so that a panic is recorded as a failure before it propagates.
func (d *Driver) observe(ctx context.Context, op, query string, args []any, start time.Time, err *error) {
	if r := recover(); r != nil {
		d.record(ctx, op, query, args, start, fmt.Errorf("%w: %v", ErrPanic, r))
		panic(r)
	}
	d.record(ctx, op, query, args, start, *err)
}

func (d *Driver) record(ctx context.Context, op, query string, args []any, start time.Time, err error) {
	duration := time.Since(start)
	if d.debug {
		d.log.DebugContext(ctx, "statement", "op", op, "query", query, "args", args, "duration", duration, "error", err)
	}
	if d.stats != nil {
		d.stats.record(op, duration, err)
	}
	if duration > d.slow {
		if d.stats != nil {
			d.stats.SlowQueries.Add(1)
		}
		if d.onSlow != nil {
			d.onSlow(ctx, query, args, duration)
		}
	}
}

// ErrNoRows is returned by QueryOne when the statement yields no row.
var ErrNoRows = sql.ErrNoRows

// Scanner scans the current row into dest.
type Scanner interface {
	Scan(dest ...any) error
}

// ColumnScanner is the interface that wraps the standard
// sql.Rows methods used for scanning database rows.
type ColumnScanner interface {
	Scanner
	Close() error
	Columns() ([]string, error)
	Err() error
	Next() bool
}
