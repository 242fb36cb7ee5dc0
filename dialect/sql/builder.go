package sql

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/plandb/dialect"
	"github.com/syssam/plandb/schema"
)

// Builder misuse errors. They signal programming errors; Build returns them
// instead of emitting invalid SQL.
var (
	// ErrNoColumns is returned when a table is built without any column.
	ErrNoColumns = errors.New("dialect/sql: create table without columns")
	// ErrNoPendingColumn is returned when a column modifier is used before Column.
	ErrNoPendingColumn = errors.New("dialect/sql: column modifier without a column")
	// ErrDuplicatePrimaryKey is returned when a second primary key is declared.
	ErrDuplicatePrimaryKey = errors.New("dialect/sql: table already has a primary key")
)

// CreateTableBuilder assembles a CREATE TABLE IF NOT EXISTS statement.
//
// The builder holds at most one pending column. Modifiers apply to the
// pending column; Column, ForeignKey and Build finalize it into the output:
//
//	q, err := sql.CreateTable(dialect.SQLite, "plan_users").
//	    Column("id", schema.Int).PrimaryKey().
//	    Column("uuid", schema.Varchar(36)).NotNull().Unique().
//	    Build()
//
// Builders are single-use and must not be shared between goroutines.
type CreateTableBuilder struct {
	dialect     dialect.Dialect
	table       string
	pending     *schema.Column
	columns     []string
	constraints []string
	primaryKey  string
	err         error
}

// CreateTable returns a builder for the given table.
func CreateTable(d dialect.Dialect, table string) *CreateTableBuilder {
	b := &CreateTableBuilder{dialect: d, table: table}
	if !d.Valid() {
		b.fail(fmt.Errorf("dialect/sql: invalid dialect %v", d))
	}
	if table == "" {
		b.fail(errors.New("dialect/sql: create table without a name"))
	}
	return b
}

// CreateTableFor returns a builder populated from a table definition.
func CreateTableFor(d dialect.Dialect, t *schema.Table) *CreateTableBuilder {
	b := CreateTable(d, t.Name)
	for _, c := range t.Columns {
		b.Column(c.Name, c.Type)
		if c.PrimaryKey {
			b.PrimaryKey()
		}
		if c.NotNull {
			b.NotNull()
		}
		if c.Unique {
			b.Unique()
		}
		if c.Default != nil {
			b.Default(*c.Default)
		}
		if c.References != nil {
			b.ForeignKey(c.Name, c.References.Table, c.References.Column)
		}
	}
	return b
}

// Column finalizes the pending column and starts a new one.
func (b *CreateTableBuilder) Column(name string, t schema.Type) *CreateTableBuilder {
	b.finalize()
	if name == "" {
		b.fail(errors.New("dialect/sql: column without a name"))
		return b
	}
	b.pending = &schema.Column{Name: name, Type: t}
	return b
}

// PrimaryKey makes the pending column the auto-incremented primary key.
func (b *CreateTableBuilder) PrimaryKey() *CreateTableBuilder {
	c := b.current("PrimaryKey")
	if c == nil {
		return b
	}
	if b.primaryKey != "" {
		b.fail(fmt.Errorf("%w: %s, cannot add %s", ErrDuplicatePrimaryKey, b.primaryKey, c.Name))
		return b
	}
	c.PrimaryKey = true
	b.primaryKey = c.Name
	return b
}

// NotNull disallows NULL on the pending column.
func (b *CreateTableBuilder) NotNull() *CreateTableBuilder {
	if c := b.current("NotNull"); c != nil {
		c.NotNull = true
	}
	return b
}

// Unique adds a uniqueness constraint on the pending column.
func (b *CreateTableBuilder) Unique() *CreateTableBuilder {
	if c := b.current("Unique"); c != nil {
		c.Unique = true
	}
	return b
}

// Default sets the raw SQL default expression of the pending column.
func (b *CreateTableBuilder) Default(expr string) *CreateTableBuilder {
	if c := b.current("Default"); c != nil {
		c.Default = &expr
	}
	return b
}

// ForeignKey finalizes the pending column and appends a foreign key clause.
func (b *CreateTableBuilder) ForeignKey(column, refTable, refColumn string) *CreateTableBuilder {
	b.finalize()
	if column == "" || refTable == "" || refColumn == "" {
		b.fail(fmt.Errorf("dialect/sql: incomplete foreign key %q -> %s(%s)", column, refTable, refColumn))
		return b
	}
	b.constraints = append(b.constraints, "FOREIGN KEY("+column+") REFERENCES "+refTable+"("+refColumn+")")
	return b
}

// Build finalizes the pending column and returns the statement.
func (b *CreateTableBuilder) Build() (string, error) {
	b.finalize()
	if b.err != nil {
		return "", b.err
	}
	if len(b.columns) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoColumns, b.table)
	}
	var sb strings.Builder
	sb.WriteString("CREATE TABLE IF NOT EXISTS ")
	sb.WriteString(b.table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(b.columns, ", "))
	if b.primaryKey != "" && b.dialect.PrimaryKeyConstraint() {
		sb.WriteString(", PRIMARY KEY (")
		sb.WriteString(b.primaryKey)
		sb.WriteString(")")
	}
	for _, c := range b.constraints {
		sb.WriteString(", ")
		sb.WriteString(c)
	}
	sb.WriteString(")")
	return sb.String(), nil
}

// MustBuild is like Build but panics on error.
func (b *CreateTableBuilder) MustBuild() string {
	q, err := b.Build()
	if err != nil {
		panic(err)
	}
	return q
}

func (b *CreateTableBuilder) current(modifier string) *schema.Column {
	if b.pending == nil {
		b.fail(fmt.Errorf("%w: %s", ErrNoPendingColumn, modifier))
	}
	return b.pending
}

func (b *CreateTableBuilder) finalize() {
	if b.pending == nil {
		return
	}
	c := b.pending
	b.pending = nil
	def, err := ColumnDefinition(b.dialect, *c)
	if err != nil {
		b.fail(err)
		return
	}
	b.columns = append(b.columns, def)
}

// fail records the first error.
func (b *CreateTableBuilder) fail(err error) {
	if b.err == nil {
		b.err = fmt.Errorf("dialect/sql: create table %q: %w", b.table, err)
	}
}

// ColumnDefinition renders a single column definition, as used inside
// CREATE TABLE or after ALTER TABLE ... ADD COLUMN.
func ColumnDefinition(d dialect.Dialect, c schema.Column) (string, error) {
	if !d.Valid() {
		return "", fmt.Errorf("dialect/sql: invalid dialect %v", d)
	}
	if !c.Type.Kind.Valid() {
		return "", fmt.Errorf("dialect/sql: column %q has unknown type %s", c.Name, c.Type)
	}
	if c.Type.Kind == schema.KindVarchar && c.Type.Size <= 0 {
		return "", fmt.Errorf("dialect/sql: column %q is a VARCHAR without a size", c.Name)
	}
	var sb strings.Builder
	sb.WriteString(c.Name)
	sb.WriteByte(' ')
	sb.WriteString(d.ColumnType(c.Type))
	if c.PrimaryKey {
		sb.WriteByte(' ')
		sb.WriteString(d.PrimaryKeyInline())
		return sb.String(), nil
	}
	if c.NotNull {
		sb.WriteString(" NOT NULL")
	}
	if c.Unique {
		sb.WriteString(" UNIQUE")
	}
	if c.Default != nil {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(*c.Default)
	}
	return sb.String(), nil
}

// WhereBuilder assembles a statement ending in WHERE, GROUP BY, ORDER BY and
// LIMIT clauses. Every predicate is parenthesized, so combining them never
// depends on operator precedence inside a predicate.
type WhereBuilder struct {
	parts    []string
	hasWhere bool
}

// Select returns a builder for SELECT columns FROM from. With no columns it
// selects every column. from may contain joins.
func Select(from string, columns ...string) *WhereBuilder {
	cols := "*"
	if len(columns) > 0 {
		cols = strings.Join(columns, ", ")
	}
	return &WhereBuilder{parts: []string{"SELECT " + cols + " FROM " + from}}
}

// SelectAll returns a builder for SELECT * FROM from.
func SelectAll(from string) *WhereBuilder {
	return Select(from)
}

// Update returns a builder for UPDATE table SET col=?, ... .
func Update(table string, columns ...string) *WhereBuilder {
	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = c + "=?"
	}
	return &WhereBuilder{parts: []string{"UPDATE " + table + " SET " + strings.Join(sets, ", ")}}
}

// Delete returns a builder for DELETE FROM table.
func Delete(table string) *WhereBuilder {
	return &WhereBuilder{parts: []string{"DELETE FROM " + table}}
}

// Where returns a builder holding only a WHERE clause.
func Where(conditions ...string) *WhereBuilder {
	return (&WhereBuilder{}).Where(conditions...)
}

// Where adds the WHERE clause. Multiple conditions are ANDed. Calling Where
// again ANDs the new conditions to the existing clause.
func (w *WhereBuilder) Where(conditions ...string) *WhereBuilder {
	if len(conditions) == 0 {
		return w
	}
	if w.hasWhere {
		for _, c := range conditions {
			w.And(c)
		}
		return w
	}
	w.parts = append(w.parts, "WHERE "+joinPredicates(conditions, " AND "))
	w.hasWhere = true
	return w
}

// And appends AND (condition). Without a WHERE clause it starts one.
func (w *WhereBuilder) And(condition string) *WhereBuilder {
	if !w.hasWhere {
		return w.Where(condition)
	}
	w.parts = append(w.parts, "AND "+paren(condition))
	return w
}

// Or appends OR (condition). Without a WHERE clause it starts one.
func (w *WhereBuilder) Or(condition string) *WhereBuilder {
	if !w.hasWhere {
		return w.Where(condition)
	}
	w.parts = append(w.parts, "OR "+paren(condition))
	return w
}

// GroupBy appends GROUP BY columns.
func (w *WhereBuilder) GroupBy(columns ...string) *WhereBuilder {
	if len(columns) > 0 {
		w.parts = append(w.parts, "GROUP BY "+strings.Join(columns, ", "))
	}
	return w
}

// Having appends HAVING (condition).
func (w *WhereBuilder) Having(condition string) *WhereBuilder {
	w.parts = append(w.parts, "HAVING "+paren(condition))
	return w
}

// OrderBy appends ORDER BY columns, always ascending.
func (w *WhereBuilder) OrderBy(columns ...string) *WhereBuilder {
	if len(columns) > 0 {
		w.parts = append(w.parts, "ORDER BY "+strings.Join(columns, ", "))
	}
	return w
}

// Limit appends LIMIT n.
func (w *WhereBuilder) Limit(n int) *WhereBuilder {
	w.parts = append(w.parts, "LIMIT "+strconv.Itoa(n))
	return w
}

// String returns the assembled SQL.
func (w *WhereBuilder) String() string {
	return strings.Join(w.parts, " ")
}

// Statement returns the SQL bound to the given arguments.
func (w *WhereBuilder) Statement(args ...any) Statement {
	return Statement{SQL: w.String(), Args: args}
}

// Insert returns INSERT INTO table (columns) VALUES (?, ...).
func Insert(table string, columns ...string) string {
	return insert("INSERT INTO", table, columns)
}

// InsertIgnore returns an insert that skips rows violating a unique key.
func InsertIgnore(d dialect.Dialect, table string, columns ...string) string {
	return insert(d.InsertIgnore(), table, columns)
}

func insert(prefix, table string, columns []string) string {
	return prefix + " " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" + Placeholders(len(columns)) + ")"
}

// Placeholders returns n comma separated positional placeholders.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

func paren(condition string) string {
	return "(" + condition + ")"
}

func joinPredicates(conditions []string, sep string) string {
	ps := make([]string, len(conditions))
	for i, c := range conditions {
		ps[i] = paren(c)
	}
	return strings.Join(ps, sep)
}
