package sqlschema

import (
	"context"
	"fmt"

	"github.com/syssam/plandb/dialect"
	"github.com/syssam/plandb/dialect/sql"
	"github.com/syssam/plandb/schema"
)

// Statements renders the CREATE TABLE IF NOT EXISTS statement of every table
// in registry order.
func Statements(d dialect.Dialect, reg *schema.Registry) ([]string, error) {
	stmts := make([]string, 0, reg.Len())
	for _, t := range reg.Tables() {
		q, err := sql.CreateTableFor(d, t).Build()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, q)
	}
	return stmts, nil
}

// CreateAll creates every missing table in registry order. Existing tables
// are left untouched.
func CreateAll(ctx context.Context, drv *sql.Driver, reg *schema.Registry) error {
	stmts, err := Statements(drv.Dialect(), reg)
	if err != nil {
		return err
	}
	return drv.Transaction(ctx, func(tx *sql.Tx) error {
		for _, q := range stmts {
			if err := tx.Exec(ctx, q); err != nil {
				return err
			}
		}
		return nil
	})
}

// CreateTable creates a single table if it does not exist.
func CreateTable(ctx context.Context, ex Execer, d dialect.Dialect, t *schema.Table) error {
	q, err := sql.CreateTableFor(d, t).Build()
	if err != nil {
		return err
	}
	return ex.Exec(ctx, q)
}

// DropAll drops every table in reverse registry order, so referencing
// tables go before the tables they reference.
func DropAll(ctx context.Context, drv *sql.Driver, reg *schema.Registry) error {
	return drv.Transaction(ctx, func(tx *sql.Tx) error {
		for _, t := range reg.Reverse() {
			if err := tx.Exec(ctx, DropTableStatement(t.Name)); err != nil {
				return err
			}
		}
		return nil
	})
}

// DropTableStatement returns DROP TABLE IF EXISTS name.
func DropTableStatement(name string) string {
	return "DROP TABLE IF EXISTS " + name
}

// RenameTableStatement returns the statement renaming a table. Both
// dialects accept the ALTER TABLE form.
func RenameTableStatement(from, to string) string {
	return "ALTER TABLE " + from + " RENAME TO " + to
}

// AddColumnStatement returns ALTER TABLE table ADD COLUMN definition.
func AddColumnStatement(d dialect.Dialect, table string, c schema.Column) (string, error) {
	def, err := sql.ColumnDefinition(d, c)
	if err != nil {
		return "", fmt.Errorf("sqlschema: add column to %s: %w", table, err)
	}
	return "ALTER TABLE " + table + " ADD COLUMN " + def, nil
}

// Execer runs a plain statement. It is implemented by *sql.Driver and *sql.Tx.
type Execer interface {
	Exec(ctx context.Context, query string, args ...any) error
}

var (
	_ Execer = (*sql.Driver)(nil)
	_ Execer = (*sql.Tx)(nil)
)
