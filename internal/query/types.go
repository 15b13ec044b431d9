// Package query defines the typed query descriptor the record store executes.
//
// The descriptor replaces ad hoc predicate strings with a small value object:
// a table, an optional column projection, a filter expression tree of
// equality/conjunction nodes, and an optional single-column ascending sort.
// Compilation always produces parameterized SQL; values are never
// interpolated into query text.
package query

import "labreg/internal/record"

// Predicate represents a boolean filter condition over columns.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the compiler.
//
// Predicate types:
//   - Equals: column = literal value (IS NULL for record.Null)
//   - And: all predicates must be true
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Equals represents a column-equals-literal predicate.
// A record.Null value compiles to "column IS NULL" rather than "= NULL",
// so dedup filters can match unset fields.
type Equals struct {
	Column string
	Value  record.Value
}

func (Equals) predicateNode() {}

// And represents a conjunction of predicates.
// An empty Predicates slice is vacuously true (no conditions).
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Descriptor is a structured read request against one table.
//
// Semantics:
//
//	SELECT <columns> FROM <table> WHERE <filter> ORDER BY <order> ASC
//
// An empty Columns slice means "all columns, in schema order". OrderBy names
// at most one column, always ascending. The store validates every referenced
// column against the live schema before a Descriptor is constructed.
type Descriptor struct {
	Table   string
	Columns []string  // nil/empty = all columns in schema order
	Filter  Predicate // nil = no filter
	OrderBy string    // "" = no ordering
}
