package sqlschema

import (
	"context"
	"fmt"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	atlas "ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/plandb/dialect"
	"github.com/syssam/plandb/dialect/sql"
	"github.com/syssam/plandb/schema"
)

// ColumnInfo is the metadata of a column found in the database.
type ColumnInfo struct {
	Name string
	// Type is the type as reported by the database, e.g. varchar(36).
	Type     string
	Nullable bool
}

// Inspector reads table metadata of a live database.
type Inspector struct {
	drv *sql.Driver
}

// NewInspector returns an Inspector over drv.
func NewInspector(drv *sql.Driver) *Inspector {
	return &Inspector{drv: drv}
}

// HasTable reports whether the table exists.
func (i *Inspector) HasTable(ctx context.Context, name string) (bool, error) {
	s, err := i.inspect(ctx, name)
	if err != nil {
		return false, err
	}
	_, ok := s.Table(name)
	return ok, nil
}

// HasColumn reports whether the column exists. A missing table has no columns.
func (i *Inspector) HasColumn(ctx context.Context, table, column string) (bool, error) {
	s, err := i.inspect(ctx, table)
	if err != nil {
		return false, err
	}
	t, ok := s.Table(table)
	if !ok {
		return false, nil
	}
	_, ok = t.Column(column)
	return ok, nil
}

// Columns returns the columns of the table in declaration order. It returns
// nil when the table does not exist.
func (i *Inspector) Columns(ctx context.Context, table string) ([]ColumnInfo, error) {
	s, err := i.inspect(ctx, table)
	if err != nil {
		return nil, err
	}
	t, ok := s.Table(table)
	if !ok {
		return nil, nil
	}
	cols := make([]ColumnInfo, 0, len(t.Columns))
	for _, c := range t.Columns {
		info := ColumnInfo{Name: c.Name}
		if c.Type != nil {
			info.Type = c.Type.Raw
			info.Nullable = c.Type.Null
		}
		cols = append(cols, info)
	}
	return cols, nil
}

// Tables returns the named tables found in the database as definitions
// carrying column names, nullability and primary keys. Column types are
// left unset. Without names every table is returned.
func (i *Inspector) Tables(ctx context.Context, names ...string) ([]*schema.Table, error) {
	s, err := i.inspect(ctx, names...)
	if err != nil {
		return nil, err
	}
	tables := make([]*schema.Table, 0, len(s.Tables))
	for _, at := range s.Tables {
		pk := make(map[string]bool)
		if at.PrimaryKey != nil {
			for _, p := range at.PrimaryKey.Parts {
				if p.C != nil {
					pk[p.C.Name] = true
				}
			}
		}
		t := &schema.Table{Name: at.Name}
		for _, ac := range at.Columns {
			t.Columns = append(t.Columns, &schema.Column{
				Name:       ac.Name,
				NotNull:    ac.Type != nil && !ac.Type.Null,
				PrimaryKey: pk[ac.Name],
			})
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// Drift compares the database against the registry.
func (i *Inspector) Drift(ctx context.Context, reg *schema.Registry) (*schema.ValidationResult, error) {
	names := make([]string, 0, reg.Len())
	for _, t := range reg.Tables() {
		names = append(names, t.Name)
	}
	current, err := i.Tables(ctx, names...)
	if err != nil {
		return nil, err
	}
	return schema.ValidateDiff(current, reg.Tables()), nil
}

func (i *Inspector) inspect(ctx context.Context, tables ...string) (*atlas.Schema, error) {
	var s *atlas.Schema
	err := i.drv.WithConn(ctx, func(conn sql.ExecQuerier) error {
		drv, err := openAtlas(i.drv.Dialect(), conn)
		if err != nil {
			return err
		}
		s, err = drv.InspectSchema(ctx, schemaName(i.drv.Dialect()), &atlas.InspectOptions{Tables: tables})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("sqlschema: inspect %v: %w", tables, err)
	}
	return s, nil
}

func openAtlas(d dialect.Dialect, conn sql.ExecQuerier) (migrate.Driver, error) {
	switch d {
	case dialect.MySQL:
		return mysql.Open(conn)
	case dialect.SQLite:
		return sqlite.Open(conn)
	default:
		return nil, fmt.Errorf("sqlschema: unsupported dialect %v", d)
	}
}

// schemaName is the schema inspected: the attached main database under
// SQLite, the connected database under MySQL.
func schemaName(d dialect.Dialect) string {
	if d == dialect.SQLite {
		return "main"
	}
	return ""
}
