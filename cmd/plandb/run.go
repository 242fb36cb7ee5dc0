package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/plandb"
)

// statsInterval is how often run logs statement statistics.
const statsInterval = 15 * time.Minute

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Set up the database and run the retention task on a schedule",
		Long: `run sets up the database, then runs the retention task every
clean.interval until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			db, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			return a.serve(ctx, db)
		},
	}
}

// serve runs the scheduled work until ctx is done.
func (a *app) serve(ctx context.Context, db *plandb.DB) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return every(ctx, a.cfg.Clean.Interval, func() error {
			if _, err := db.Clean(ctx); err != nil && ctx.Err() == nil {
				a.log.ErrorContext(ctx, "scheduled clean failed", "error", err)
			}
			return nil
		})
	})
	g.Go(func() error {
		return every(ctx, statsInterval, func() error {
			a.log.InfoContext(ctx, "statement statistics", "stats", db.Stats().String())
			return nil
		})
	})
	a.log.InfoContext(ctx, "running", "clean_interval", a.cfg.Clean.Interval)
	err := g.Wait()
	a.log.InfoContext(context.Background(), "stopped")
	return err
}

// every calls fn each interval until ctx is done or fn fails.
func every(ctx context.Context, interval time.Duration, fn func() error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := fn(); err != nil {
				return err
			}
		}
	}
}
