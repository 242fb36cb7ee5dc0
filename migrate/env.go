package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/syssam/plandb/dialect"
	"github.com/syssam/plandb/dialect/sql"
	"github.com/syssam/plandb/dialect/sqlschema"
	"github.com/syssam/plandb/schema"
)

// Env is what a patch works with: the driver, the table definitions and a
// metadata inspector, plus DDL helpers built on them.
type Env struct {
	Driver    *sql.Driver
	Registry  *schema.Registry
	Inspector *sqlschema.Inspector
	Log       *slog.Logger
}

// Dialect returns the dialect of the driver.
func (e *Env) Dialect() dialect.Dialect {
	return e.Driver.Dialect()
}

// HasTable reports whether the table exists.
func (e *Env) HasTable(ctx context.Context, name string) (bool, error) {
	return e.Inspector.HasTable(ctx, name)
}

// HasColumn reports whether the column exists.
func (e *Env) HasColumn(ctx context.Context, table, column string) (bool, error) {
	return e.Inspector.HasColumn(ctx, table, column)
}

// AddColumn adds a column as declared in the registry. It does nothing when
// the column exists.
func (e *Env) AddColumn(ctx context.Context, table, column string) error {
	t, ok := e.Registry.Table(table)
	if !ok {
		return fmt.Errorf("migrate: add column: table %q is not registered", table)
	}
	c, ok := t.Column(column)
	if !ok {
		return fmt.Errorf("migrate: add column: %s.%s is not declared", table, column)
	}
	exists, err := e.HasColumn(ctx, table, column)
	if err != nil || exists {
		return err
	}
	q, err := sqlschema.AddColumnStatement(e.Dialect(), table, *c)
	if err != nil {
		return err
	}
	e.Log.InfoContext(ctx, "adding column", "table", table, "column", column)
	return e.Driver.Exec(ctx, q)
}

// RenameTable renames a table.
func (e *Env) RenameTable(ctx context.Context, from, to string) error {
	e.Log.InfoContext(ctx, "renaming table", "from", from, "to", to)
	return e.Driver.Exec(ctx, sqlschema.RenameTableStatement(from, to))
}

// DropTable drops a table if it exists.
func (e *Env) DropTable(ctx context.Context, name string) error {
	e.Log.InfoContext(ctx, "dropping table", "table", name)
	return e.Driver.Exec(ctx, sqlschema.DropTableStatement(name))
}

// CreateTable creates a registered table if it does not exist.
func (e *Env) CreateTable(ctx context.Context, name string) error {
	t, ok := e.Registry.Table(name)
	if !ok {
		return fmt.Errorf("migrate: create table: table %q is not registered", name)
	}
	return sqlschema.CreateTable(ctx, e.Driver, e.Dialect(), t)
}

// TempTable returns the name a table is moved to while it is rebuilt:
// plan_ping becomes temp_ping.
func (e *Env) TempTable(name string) string {
	return "temp_" + strings.TrimPrefix(name, "plan_")
}
