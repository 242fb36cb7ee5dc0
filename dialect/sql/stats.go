package sql

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// QueryStats holds query execution statistics.
type QueryStats struct {
	// TotalQueries is the total number of queries executed.
	TotalQueries atomic.Int64
	// TotalExecs is the total number of exec statements executed.
	TotalExecs atomic.Int64
	// TotalBatches is the total number of batches executed.
	TotalBatches atomic.Int64
	// TotalTransactions is the total number of transactions run.
	TotalTransactions atomic.Int64
	// TotalDuration is the total time spent executing statements.
	TotalDuration atomic.Int64 // nanoseconds
	// SlowQueries is the count of operations exceeding the slow threshold.
	SlowQueries atomic.Int64
	// Errors is the count of failed operations.
	Errors atomic.Int64
}

func (s *QueryStats) record(op string, duration time.Duration, err error) {
	switch op {
	case "query":
		s.TotalQueries.Add(1)
	case "batch":
		s.TotalBatches.Add(1)
	case "transaction":
		s.TotalTransactions.Add(1)
		// Statements inside the transaction already account for their time.
		if err != nil {
			s.Errors.Add(1)
		}
		return
	case "conn":
		if err != nil {
			s.Errors.Add(1)
		}
		return
	default:
		s.TotalExecs.Add(1)
	}
	s.TotalDuration.Add(int64(duration))
	if err != nil {
		s.Errors.Add(1)
	}
}

// Stats returns a snapshot of the current statistics.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:      s.TotalQueries.Load(),
		TotalExecs:        s.TotalExecs.Load(),
		TotalBatches:      s.TotalBatches.Load(),
		TotalTransactions: s.TotalTransactions.Load(),
		TotalDuration:     time.Duration(s.TotalDuration.Load()),
		SlowQueries:       s.SlowQueries.Load(),
		Errors:            s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *QueryStats) Reset() {
	s.TotalQueries.Store(0)
	s.TotalExecs.Store(0)
	s.TotalBatches.Store(0)
	s.TotalTransactions.Store(0)
	s.TotalDuration.Store(0)
	s.SlowQueries.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of query statistics.
type StatsSnapshot struct {
	TotalQueries      int64
	TotalExecs        int64
	TotalBatches      int64
	TotalTransactions int64
	TotalDuration     time.Duration
	SlowQueries       int64
	Errors            int64
}

// AvgQueryDuration returns the average statement duration.
func (s StatsSnapshot) AvgQueryDuration() time.Duration {
	total := s.TotalQueries + s.TotalExecs + s.TotalBatches
	if total == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(total)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d execs=%d batches=%d transactions=%d duration=%s avg=%s slow=%d errors=%d",
		s.TotalQueries, s.TotalExecs, s.TotalBatches, s.TotalTransactions,
		s.TotalDuration, s.AvgQueryDuration(), s.SlowQueries, s.Errors,
	)
}

// SlowQueryHook is a function called when a slow query is detected.
type SlowQueryHook func(ctx context.Context, query string, args []any, duration time.Duration)

// WithStats collects statistics of every operation into s.
//
// Example:
//
//	stats := &sql.QueryStats{}
//	drv, _ := sql.Open(dialect.SQLite, "file:plan.db", sql.WithStats(stats))
//
//	// Later, check statistics:
//	fmt.Println(stats.Stats())
func WithStats(s *QueryStats) Option {
	return func(d *Driver) {
		d.stats = s
	}
}

// WithSlowThreshold sets the threshold for slow query detection.
// Operations taking longer than this duration are counted as slow queries.
// Default is 100ms.
func WithSlowThreshold(threshold time.Duration) Option {
	return func(d *Driver) {
		d.slow = threshold
	}
}

// WithSlowQueryHook sets a callback function for slow queries.
// The hook is called whenever an operation exceeds the slow threshold.
func WithSlowQueryHook(hook SlowQueryHook) Option {
	return func(d *Driver) {
		d.onSlow = hook
	}
}

// WithSlowQueryLog logs slow queries to the given logger.
// This is a convenience wrapper around WithSlowQueryHook.
func WithSlowQueryLog(l *slog.Logger) Option {
	if l == nil {
		l = slog.Default()
	}
	return WithSlowQueryHook(func(ctx context.Context, query string, args []any, duration time.Duration) {
		l.WarnContext(ctx, "slow query detected", "duration", duration, "query", query, "args", args)
	})
}
