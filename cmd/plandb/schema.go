package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/plandb/dialect"
	"github.com/syssam/plandb/dialect/sqlschema"
	"github.com/syssam/plandb/tables"
)

func newSchemaCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the CREATE TABLE statements of every table",
		Long: `schema prints the statements creating every table in creation order,
for the configured dialect unless --dialect is given. It does not connect.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.cfg.Dialect()
			if name != "" {
				d, err = dialect.Parse(name)
			}
			if err != nil {
				return err
			}
			stmts, err := sqlschema.Statements(d, tables.Registry())
			if err != nil {
				return err
			}
			for _, s := range stmts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s;\n", s)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "dialect", "", "mysql or sqlite")
	return cmd
}
