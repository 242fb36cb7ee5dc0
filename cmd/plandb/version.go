package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/plandb/migrate/patches"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the command version and the schema version it produces",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			steps := patches.Steps()
			fmt.Fprintf(cmd.OutOrStdout(), "plandb %s (schema version %d)\n", Version, steps[len(steps)-1].Version)
		},
	}
}
