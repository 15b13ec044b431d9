package record

import "fmt"

// Value is a sealed interface over the primitive types a store column can
// hold. Only Text, Int, Bool and Null implement it. Floats are deliberately
// absent: every stored quantity (marks, hours, group numbers, dates) is an
// integer, and derived fractions are computed, never persisted.
type Value interface {
	recordValue() // Marker method - seals interface to this package
}

// Text represents a text column value.
type Text string

func (Text) recordValue() {}

// Int represents an integer column value. Always int64.
type Int int64

func (Int) recordValue() {}

// Bool represents a boolean column value.
// SQLite stores it as 0/1; conversion happens at the store boundary.
type Bool bool

func (Bool) recordValue() {}

// Null represents an absent value (e.g. attendance not yet recorded).
type Null struct{}

func (Null) recordValue() {}

// Param converts a Value to a Go native type suitable as an SQL parameter.
func Param(v Value) (any, error) {
	switch val := v.(type) {
	case Text:
		return string(val), nil
	case Int:
		return int64(val), nil
	case Bool:
		return bool(val), nil
	case Null:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported value type for SQL parameter: %T", v)
	}
}

// Equal reports whether two values are equal. Null never equals anything,
// including another Null, matching SQL comparison semantics.
func Equal(a, b Value) bool {
	if _, ok := a.(Null); ok {
		return false
	}
	if _, ok := b.(Null); ok {
		return false
	}
	return a == b
}

// String renders a value for diagnostics and text tables.
// Null renders as an empty string so sparse attendance rows stay readable.
func String(v Value) string {
	switch val := v.(type) {
	case Text:
		return string(val)
	case Int:
		return fmt.Sprintf("%d", int64(val))
	case Bool:
		if val {
			return "true"
		}
		return "false"
	case Null:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
