package schema

import "fmt"

// Registry is the ordered list of table definitions. The order is the
// creation order and is fixed at construction.
type Registry struct {
	tables []*Table
	index  map[string]*Table
}

// NewRegistry validates the tables and returns a registry preserving their
// order. Any validation error fails construction.
func NewRegistry(tables ...*Table) (*Registry, error) {
	if err := ValidateSchema(tables).Err(); err != nil {
		return nil, err
	}
	r := &Registry{
		tables: append([]*Table(nil), tables...),
		index:  make(map[string]*Table, len(tables)),
	}
	for _, t := range tables {
		r.index[t.Name] = t
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
func MustRegistry(tables ...*Table) *Registry {
	r, err := NewRegistry(tables...)
	if err != nil {
		panic(err)
	}
	return r
}

// Tables returns the tables in creation order.
func (r *Registry) Tables() []*Table {
	return append([]*Table(nil), r.tables...)
}

// Reverse returns the tables in reverse creation order, the order in which
// rows can be deleted without violating foreign keys.
func (r *Registry) Reverse() []*Table {
	out := make([]*Table, len(r.tables))
	for i, t := range r.tables {
		out[len(r.tables)-1-i] = t
	}
	return out
}

// Table returns the definition with the given name.
func (r *Registry) Table(name string) (*Table, bool) {
	t, ok := r.index[name]
	return t, ok
}

// MustTable returns the definition with the given name or panics.
func (r *Registry) MustTable(name string) *Table {
	t, ok := r.index[name]
	if !ok {
		panic(fmt.Sprintf("schema: table %q is not registered", name))
	}
	return t
}

// Len returns the number of registered tables.
func (r *Registry) Len() int {
	return len(r.tables)
}
