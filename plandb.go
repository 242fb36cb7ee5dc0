package plandb

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/syssam/plandb/cache"
	"github.com/syssam/plandb/clean"
	"github.com/syssam/plandb/config"
	"github.com/syssam/plandb/dialect"
	"github.com/syssam/plandb/dialect/sql"
	"github.com/syssam/plandb/dialect/sqlschema"
	"github.com/syssam/plandb/migrate"
	"github.com/syssam/plandb/migrate/patches"
	"github.com/syssam/plandb/schema"
	"github.com/syssam/plandb/tables"
)

// State is the lifecycle state of a DB.
type State int32

// Lifecycle states.
const (
	StateClosed State = iota
	StatePatching
	StateOpen
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StatePatching:
		return "patching"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// DB is an opened database together with the components sharing it.
type DB struct {
	drv      *sql.Driver
	reg      *schema.Registry
	steps    []migrate.Step
	log      *slog.Logger
	stats    *sql.QueryStats
	cleaner  *clean.Task
	sessions *cache.SessionCache
	cookies  *cache.CookieStore
	state    atomic.Int32
}

// Option configures Open.
type Option func(*options)

type options struct {
	log        *slog.Logger
	steps      []migrate.Step
	cleanOpts  []clean.Option
	cookieOpts []cache.CookieOption
}

// WithLogger sets the logger shared by every component.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithSteps replaces the patch sequence applied by Setup.
func WithSteps(steps []migrate.Step) Option {
	return func(o *options) {
		o.steps = steps
	}
}

// WithCleanOptions passes options to the retention task, after the ones
// derived from the configuration.
func WithCleanOptions(opts ...clean.Option) Option {
	return func(o *options) {
		o.cleanOpts = append(o.cleanOpts, opts...)
	}
}

// WithCookieOptions passes options to the cookie store.
func WithCookieOptions(opts ...cache.CookieOption) Option {
	return func(o *options) {
		o.cookieOpts = append(o.cookieOpts, opts...)
	}
}

// Open connects to the database described by cfg. The returned DB is
// closed for business until Setup succeeds.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*DB, error) {
	o := &options{log: slog.Default(), steps: patches.Steps()}
	for _, opt := range opts {
		opt(o)
	}
	d, err := cfg.Dialect()
	if err != nil {
		return nil, err
	}
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	stats := &sql.QueryStats{}
	driverOpts := []sql.Option{
		sql.WithLogger(o.log),
		sql.WithStats(stats),
		sql.WithSlowQueryLog(o.log),
	}
	if cfg.Database.SlowThreshold > 0 {
		driverOpts = append(driverOpts, sql.WithSlowThreshold(cfg.Database.SlowThreshold))
	}
	if cfg.Log.Level == "debug" {
		driverOpts = append(driverOpts, sql.WithDebug())
	}
	drv, err := sql.Open(d, dsn, driverOpts...)
	if err != nil {
		return nil, err
	}
	if d == dialect.MySQL {
		if n := cfg.Database.MySQL.MaxConnections; n > 0 {
			drv.DB().SetMaxOpenConns(n)
		}
		if lt := cfg.Database.MySQL.ConnMaxLifetime; lt > 0 {
			drv.DB().SetConnMaxLifetime(lt)
		}
	}
	if err := drv.Ping(ctx); err != nil {
		_ = drv.Close()
		return nil, err
	}
	reg := tables.Registry()
	cleanOpts := append([]clean.Option{
		clean.WithRetention(cfg.Clean.Retention()),
		clean.WithLogger(o.log),
	}, o.cleanOpts...)
	db := &DB{
		drv:      drv,
		reg:      reg,
		steps:    o.steps,
		log:      o.log,
		stats:    stats,
		cleaner:  clean.New(drv, reg, cleanOpts...),
		sessions: cache.NewSessionCache(drv),
		cookies:  cache.NewCookieStore(drv, o.cookieOpts...),
	}
	o.log.InfoContext(ctx, "database opened", "dialect", d)
	return db, nil
}

// Setup brings the schema up to date and opens the database for business.
// A failed setup leaves the database closed for business and may be retried.
func (db *DB) Setup(ctx context.Context) error {
	if !db.state.CompareAndSwap(int32(StateClosed), int32(StatePatching)) {
		return ErrSetupStarted
	}
	if err := db.setup(ctx); err != nil {
		db.state.Store(int32(StateClosed))
		db.log.ErrorContext(ctx, "database setup failed", "error", err)
		return err
	}
	db.state.Store(int32(StateOpen))
	db.log.InfoContext(ctx, "database is open", "stats", db.stats.Stats().String())
	return nil
}

func (db *DB) setup(ctx context.Context) error {
	if err := sqlschema.CreateAll(ctx, db.drv, db.reg); err != nil {
		return NewSetupError(StageCreate, err)
	}
	eng, err := migrate.NewEngine(db.drv, db.reg, db.steps, migrate.WithLogger(db.log))
	if err != nil {
		return NewSetupError(StagePatch, err)
	}
	if _, err := eng.Run(ctx); err != nil {
		return NewSetupError(StagePatch, err)
	}
	drift, err := sqlschema.NewInspector(db.drv).Drift(ctx, db.reg)
	if err != nil {
		return NewSetupError(StageVerify, err)
	}
	if drift.HasErrors() {
		return NewSetupError(StageVerify, drift.Err())
	}
	for _, w := range drift.Warnings {
		db.log.WarnContext(ctx, "schema differs from the declared tables", "table", w.Table, "column", w.Column, "issue", w.Message)
	}
	if err := db.cookies.Load(ctx); err != nil {
		return NewSetupError(StageCookies, err)
	}
	return nil
}

// State returns the lifecycle state.
func (db *DB) State() State {
	return State(db.state.Load())
}

// Clean runs the retention task.
func (db *DB) Clean(ctx context.Context) (clean.Result, error) {
	if db.State() != StateOpen {
		return clean.Result{}, ErrNotReady
	}
	return db.cleaner.Run(ctx)
}

// SchemaVersion returns the stored schema version.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	return migrate.NewVersionStore(db.drv).Get(ctx)
}

// LatestVersion returns the version reached once every patch is applied.
func (db *DB) LatestVersion() int {
	if len(db.steps) == 0 {
		return 0
	}
	return db.steps[len(db.steps)-1].Version
}

// Sessions returns the cache of active sessions.
func (db *DB) Sessions() *cache.SessionCache {
	return db.sessions
}

// Cookies returns the cookie store.
func (db *DB) Cookies() *cache.CookieStore {
	return db.cookies
}

// Driver returns the driver for issuing statements directly.
func (db *DB) Driver() *sql.Driver {
	return db.drv
}

// Registry returns the declared tables.
func (db *DB) Registry() *schema.Registry {
	return db.reg
}

// Stats returns the statistics of every statement run so far.
func (db *DB) Stats() sql.StatsSnapshot {
	return db.stats.Stats()
}

// Close clears the caches and closes the connection pool. Sessions still
// active are dropped without being stored.
func (db *DB) Close() error {
	db.state.Store(int32(StateClosed))
	db.sessions.Clear()
	db.cookies.Clear()
	return db.drv.Close()
}
