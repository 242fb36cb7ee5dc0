// Command plandb manages the analytics database: it creates and patches
// the schema, runs the retention task once or on a schedule and prints the
// table definitions.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syssam/plandb"
	"github.com/syssam/plandb/config"
)

// Version is the release of the command.
const Version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is the state shared by the subcommands.
type app struct {
	configFile string
	cfg        config.Config
	log        *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "plandb",
		Short: "plandb manages the player analytics database",
		Long: `plandb creates and patches the player analytics schema on MySQL or
SQLite and removes data older than the configured retention period.

Settings come from the YAML file given by --config, overridden by PLAN_*
environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			cfg, err := config.Load(a.configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = newLogger(cfg.Log, cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "YAML configuration file")

	root.AddCommand(newSetupCmd(a))
	root.AddCommand(newCleanCmd(a))
	root.AddCommand(newRunCmd(a))
	root.AddCommand(newSchemaCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

// open connects and runs setup.
func (a *app) open(ctx context.Context) (*plandb.DB, error) {
	db, err := plandb.Open(ctx, a.cfg, plandb.WithLogger(a.log))
	if err != nil {
		return nil, err
	}
	if err := db.Setup(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func newLogger(cfg config.Log, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(cfg.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
