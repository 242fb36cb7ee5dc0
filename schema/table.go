package schema

// Reference is the target of a foreign key.
type Reference struct {
	Table  string
	Column string
}

// Column describes a single table column.
type Column struct {
	Name       string
	Type       Type
	NotNull    bool
	Unique     bool
	PrimaryKey bool
	// Default is the raw SQL default expression, nil when the column has none.
	Default    *string
	References *Reference
}

// ColumnBuilder is the fluent builder returned by Col.
type ColumnBuilder struct {
	desc *Column
}

// Col starts a column definition.
func Col(name string, t Type) *ColumnBuilder {
	return &ColumnBuilder{desc: &Column{Name: name, Type: t}}
}

// PrimaryKey marks the column as the auto-incremented primary key.
func (b *ColumnBuilder) PrimaryKey() *ColumnBuilder {
	b.desc.PrimaryKey = true
	return b
}

// NotNull disallows NULL values.
func (b *ColumnBuilder) NotNull() *ColumnBuilder {
	b.desc.NotNull = true
	return b
}

// Unique adds a uniqueness constraint.
func (b *ColumnBuilder) Unique() *ColumnBuilder {
	b.desc.Unique = true
	return b
}

// Default sets the raw SQL default expression.
func (b *ColumnBuilder) Default(expr string) *ColumnBuilder {
	b.desc.Default = &expr
	return b
}

// References declares a foreign key to table.column.
func (b *ColumnBuilder) References(table, column string) *ColumnBuilder {
	b.desc.References = &Reference{Table: table, Column: column}
	return b
}

// Descriptor returns the built column.
func (b *ColumnBuilder) Descriptor() *Column {
	return b.desc
}

// ForeignKey is a foreign key constraint of a table.
type ForeignKey struct {
	Column string
	Reference
}

// Table is a table definition: a name and an ordered list of columns.
type Table struct {
	Name    string
	Columns []*Column
}

// NewTable returns a table definition with the given columns.
func NewTable(name string, columns ...*ColumnBuilder) *Table {
	t := &Table{Name: name, Columns: make([]*Column, 0, len(columns))}
	for _, c := range columns {
		t.Columns = append(t.Columns, c.Descriptor())
	}
	return t
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// PrimaryKey returns the primary key column, or nil if the table has none.
func (t *Table) PrimaryKey() *Column {
	for _, c := range t.Columns {
		if c.PrimaryKey {
			return c
		}
	}
	return nil
}

// ForeignKeys returns the foreign key constraints in column order.
func (t *Table) ForeignKeys() []ForeignKey {
	var fks []ForeignKey
	for _, c := range t.Columns {
		if c.References != nil {
			fks = append(fks, ForeignKey{Column: c.Name, Reference: *c.References})
		}
	}
	return fks
}

// ReferencesTo returns the names of the columns holding a foreign key to the
// given table.
func (t *Table) ReferencesTo(table string) []string {
	var cols []string
	for _, fk := range t.ForeignKeys() {
		if fk.Table == table {
			cols = append(cols, fk.Column)
		}
	}
	return cols
}
