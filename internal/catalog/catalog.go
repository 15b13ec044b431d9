// Package catalog describes the schemas of the per-course store files.
//
// A Schema is first-class state: the store consults it (or the live PRAGMA
// introspection derived from it) before building any query, instead of
// reflecting over rows at runtime. Default column sets are explicit
// constructors passed at creation time - there is no process-wide mutable
// default.
package catalog

import "fmt"

// ColumnType enumerates the primitive column types a schema may declare.
type ColumnType string

const (
	TypeText    ColumnType = "text"
	TypeInteger ColumnType = "integer"
	TypeBoolean ColumnType = "boolean"
)

// SQLType returns the declared SQLite type name for a column type.
// Booleans are declared BOOLEAN (numeric affinity, stored 0/1) so that
// PRAGMA table_info round-trips the catalog type on live introspection.
func (t ColumnType) SQLType() (string, error) {
	switch t {
	case TypeText:
		return "TEXT", nil
	case TypeInteger:
		return "INTEGER", nil
	case TypeBoolean:
		return "BOOLEAN", nil
	default:
		return "", fmt.Errorf("unknown column type %q", string(t))
	}
}

// FromSQLType maps a declared SQLite type name back to a catalog type.
// Unrecognized declarations fall back to text, the widest type.
func FromSQLType(decl string) ColumnType {
	switch decl {
	case "INTEGER", "INT":
		return TypeInteger
	case "BOOLEAN", "BOOL":
		return TypeBoolean
	default:
		return TypeText
	}
}

// Column is one named, typed column of a schema.
// Default, when non-nil, is applied to rows that do not set the column.
type Column struct {
	Name    string
	Type    ColumnType
	Default any
}

// Schema is an ordered column set for one named table.
// Once created the column set is fixed except via additive evolution
// (Store.AddColumn); a column's type never changes.
type Schema struct {
	Table   string
	Columns []Column
}

// ColumnNames returns the column names in declaration order.
func (s Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether the schema declares the named column.
func (s Schema) HasColumn(name string) bool {
	for _, c := range s.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Validate checks that the schema has a table name, at least one column,
// no duplicate column names and only known column types.
func (s Schema) Validate() error {
	if s.Table == "" {
		return fmt.Errorf("schema has no table name")
	}
	if len(s.Columns) == 0 {
		return fmt.Errorf("schema %q has no columns", s.Table)
	}
	seen := make(map[string]bool, len(s.Columns))
	for _, c := range s.Columns {
		if c.Name == "" {
			return fmt.Errorf("schema %q has an unnamed column", s.Table)
		}
		if seen[c.Name] {
			return fmt.Errorf("schema %q declares column %q twice", s.Table, c.Name)
		}
		seen[c.Name] = true
		if _, err := c.Type.SQLType(); err != nil {
			return fmt.Errorf("schema %q column %q: %w", s.Table, c.Name, err)
		}
	}
	return nil
}
