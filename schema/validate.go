package schema

import (
	"fmt"
	"strings"
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Table   string
	Column  string
	Message string
	// Breaking indicates a difference that existing data or code cannot absorb.
	Breaking bool
}

func (e *ValidationError) Error() string {
	if e.Table == "" {
		return e.Message
	}
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of schema validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasBreakingChanges returns true if there are any breaking changes.
func (r *ValidationResult) HasBreakingChanges() bool {
	for _, e := range r.Errors {
		if e.Breaking {
			return true
		}
	}
	for _, w := range r.Warnings {
		if w.Breaking {
			return true
		}
	}
	return false
}

// Err returns the errors joined into one error, or nil.
func (r *ValidationResult) Err() error {
	if !r.HasErrors() {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("schema: invalid definition: %s", strings.Join(msgs, "; "))
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			if e.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.Error())
			if w.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// ValidateTable validates a single table definition.
func ValidateTable(t *Table) *ValidationResult {
	result := &ValidationResult{}
	if t.Name == "" {
		result.Errors = append(result.Errors, &ValidationError{Message: "table has no name"})
	}
	if len(t.Columns) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Table:   t.Name,
			Message: "table has no columns",
		})
	}

	colNames := make(map[string]bool)
	primaryKeys := 0
	for _, c := range t.Columns {
		if colNames[c.Name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Column:  c.Name,
				Message: "duplicate column name",
			})
		}
		colNames[c.Name] = true

		if c.PrimaryKey {
			primaryKeys++
			if c.Type.Kind != KindInt && c.Type.Kind != KindLong {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.Name,
					Column:  c.Name,
					Message: fmt.Sprintf("auto-increment primary key must be INT or LONG, got %s", c.Type),
				})
			}
		}
		if c.Type.Kind == KindVarchar && c.Type.Size <= 0 {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Column:  c.Name,
				Message: "VARCHAR column without a size",
			})
		}
		if c.NotNull && c.References != nil && c.Default != nil {
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:   t.Name,
				Column:  c.Name,
				Message: "foreign key column with a default value",
			})
		}
	}
	if primaryKeys > 1 {
		result.Errors = append(result.Errors, &ValidationError{
			Table:   t.Name,
			Message: fmt.Sprintf("table declares %d primary keys, at most one is allowed", primaryKeys),
		})
	}
	return result
}

// ValidateSchema validates an ordered list of tables. Besides the per-table
// rules it checks that every foreign key target is declared before the table
// referencing it, so the list can be used as creation order.
func ValidateSchema(tables []*Table) *ValidationResult {
	result := &ValidationResult{}

	declared := make(map[string]*Table, len(tables))
	for _, t := range tables {
		if _, ok := declared[t.Name]; ok {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: "duplicate table name",
			})
		}

		tableResult := ValidateTable(t)
		result.Errors = append(result.Errors, tableResult.Errors...)
		result.Warnings = append(result.Warnings, tableResult.Warnings...)

		for _, fk := range t.ForeignKeys() {
			target, ok := declared[fk.Table]
			if !ok && fk.Table != t.Name {
				result.Errors = append(result.Errors, &ValidationError{
					Table:    t.Name,
					Column:   fk.Column,
					Message:  fmt.Sprintf("foreign key references table %q which is not created earlier", fk.Table),
					Breaking: true,
				})
				continue
			}
			if target == nil {
				target = t
			}
			if _, ok := target.Column(fk.Reference.Column); !ok {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.Name,
					Column:  fk.Column,
					Message: fmt.Sprintf("foreign key references non-existent column %s.%s", fk.Table, fk.Reference.Column),
				})
			}
		}
		declared[t.Name] = t
	}
	return result
}

// ValidateDiff compares the tables found in a database against the desired
// definitions. Only column presence and nullability are compared, since type
// names reported by the database differ from the declared ones.
func ValidateDiff(current, desired []*Table) *ValidationResult {
	result := &ValidationResult{}
	currentMap := make(map[string]*Table, len(current))
	for _, t := range current {
		currentMap[t.Name] = t
	}
	for _, want := range desired {
		have, ok := currentMap[want.Name]
		if !ok {
			result.Errors = append(result.Errors, &ValidationError{
				Table:    want.Name,
				Message:  "table is missing",
				Breaking: true,
			})
			continue
		}
		for _, wc := range want.Columns {
			hc, ok := have.Column(wc.Name)
			if !ok {
				result.Errors = append(result.Errors, &ValidationError{
					Table:    want.Name,
					Column:   wc.Name,
					Message:  "column is missing",
					Breaking: true,
				})
				continue
			}
			if wc.NotNull != hc.NotNull && !wc.PrimaryKey {
				result.Warnings = append(result.Warnings, &ValidationError{
					Table:   want.Name,
					Column:  wc.Name,
					Message: fmt.Sprintf("nullability differs: declared NOT NULL=%t, found NOT NULL=%t", wc.NotNull, hc.NotNull),
				})
			}
		}
		for _, hc := range have.Columns {
			if _, ok := want.Column(hc.Name); !ok {
				result.Warnings = append(result.Warnings, &ValidationError{
					Table:   want.Name,
					Column:  hc.Name,
					Message: "column is not declared",
				})
			}
		}
	}
	return result
}
