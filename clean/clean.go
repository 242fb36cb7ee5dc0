package clean

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/syssam/plandb/dialect/sql"
	"github.com/syssam/plandb/schema"
	"github.com/syssam/plandb/tables"
)

// DefaultRetention is the retention period used when none is configured.
const DefaultRetention = 180 * 24 * time.Hour

// Result counts the rows and players removed by a run.
type Result struct {
	// Cutoff is the epoch millisecond timestamp data was compared against.
	Cutoff  int64
	TPS     int64
	Ping    int64
	Cookies int64
	Players int
}

// Total returns the number of removed samples, cookies and players.
func (r Result) Total() int64 {
	return r.TPS + r.Ping + r.Cookies + int64(r.Players)
}

// Task is the retention task.
type Task struct {
	drv       *sql.Driver
	reg       *schema.Registry
	retention time.Duration
	now       func() time.Time
	log       *slog.Logger
}

// Option configures a Task.
type Option func(*Task)

// WithRetention sets how long data is kept.
func WithRetention(d time.Duration) Option {
	return func(t *Task) {
		if d > 0 {
			t.retention = d
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Task) {
		if now != nil {
			t.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Task) {
		if l != nil {
			t.log = l
		}
	}
}

// New returns a retention task over drv. reg supplies the tables holding
// player data and the order they are cleared in.
func New(drv *sql.Driver, reg *schema.Registry, opts ...Option) *Task {
	t := &Task{
		drv:       drv,
		reg:       reg,
		retention: DefaultRetention,
		now:       time.Now,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Retention returns the configured retention period.
func (t *Task) Retention() time.Duration {
	return t.retention
}

// Run removes everything older than now minus the retention period. Each
// kind of data is removed in its own transaction; a failure stops the run
// and keeps what earlier kinds removed.
func (t *Task) Run(ctx context.Context) (Result, error) {
	now := t.now()
	res := Result{Cutoff: now.Add(-t.retention).UnixMilli()}
	var err error
	if res.TPS, err = t.deleteBefore(ctx, tables.TPS, tables.TPSDate, res.Cutoff); err != nil {
		return res, err
	}
	if res.Ping, err = t.deleteBefore(ctx, tables.Ping, tables.PingDate, res.Cutoff); err != nil {
		return res, err
	}
	if res.Cookies, err = t.deleteBefore(ctx, tables.Cookies, tables.CookiesExpires, now.UnixMilli()); err != nil {
		return res, err
	}
	if res.Players, err = t.removeInactive(ctx, res.Cutoff); err != nil {
		return res, err
	}
	t.log.InfoContext(ctx, "clean finished",
		"cutoff", res.Cutoff,
		"tps", res.TPS,
		"ping", res.Ping,
		"cookies", res.Cookies,
		"players", res.Players,
	)
	return res, nil
}

func (t *Task) deleteBefore(ctx context.Context, table, column string, before int64) (int64, error) {
	where := column + "<?"
	var n int64
	err := t.drv.Transaction(ctx, func(tx *sql.Tx) error {
		var err error
		n, err = sql.QueryOne(ctx, tx, sql.Select(table, "COUNT(1)").Where(where).Statement(before), sql.ScanInt64)
		if err != nil || n == 0 {
			return err
		}
		_, err = tx.Execute(ctx, sql.Delete(table).Where(where).Statement(before))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("clean: %s: %w", table, err)
	}
	return n, nil
}

// InactivePlayers selects the ids of players whose last session ended, or
// who registered when they have no session, before the cutoff argument.
func InactivePlayers() *sql.WhereBuilder {
	from := tables.Users + " u LEFT JOIN " + tables.Sessions + " s ON s." + tables.SessionsUserID + "=u." + tables.UsersID
	return sql.Select(from, "u."+tables.UsersID).
		GroupBy("u."+tables.UsersID, "u."+tables.UsersRegistered).
		Having("COALESCE(MAX(s." + tables.SessionsSessionEnd + "), u." + tables.UsersRegistered + ")<?")
}

func (t *Task) removeInactive(ctx context.Context, cutoff int64) (int, error) {
	var removed int
	err := t.drv.Transaction(ctx, func(tx *sql.Tx) error {
		ids, err := sql.QueryAll(ctx, tx, InactivePlayers().Statement(cutoff), sql.ScanInt64)
		if err != nil || len(ids) == 0 {
			return err
		}
		for _, table := range t.reg.Reverse() {
			for _, cond := range PlayerConditions(t.reg, table.Name) {
				b := sql.NewBatch(sql.Delete(table.Name).Where(cond).String())
				for _, id := range ids {
					b.Add(id)
				}
				if err := tx.ExecuteBatch(ctx, b); err != nil {
					return fmt.Errorf("%s: %w", table.Name, err)
				}
			}
		}
		removed = len(ids)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("clean: inactive players: %w", err)
	}
	return removed, nil
}

// PlayerConditions returns the conditions matching the rows of table that
// belong to the player bound to the single placeholder. Rows are matched
// through direct references to plan_users and through references to tables
// that themselves belong to the player, such as sessions.
func PlayerConditions(reg *schema.Registry, table string) []string {
	if table == tables.Users {
		return []string{tables.UsersID + "=?"}
	}
	t, ok := reg.Table(table)
	if !ok {
		return nil
	}
	var conds []string
	for _, fk := range t.ForeignKeys() {
		switch fk.Table {
		case tables.Users:
			conds = append(conds, fk.Column+"=?")
		case table:
		default:
			for _, c := range PlayerConditions(reg, fk.Table) {
				sub := sql.Select(fk.Table, fk.Reference.Column).Where(c)
				conds = append(conds, fk.Column+" IN ("+sub.String()+")")
			}
		}
	}
	return conds
}
