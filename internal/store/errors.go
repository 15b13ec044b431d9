package store

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes store validation errors.
type ErrorCode string

const (
	// ErrCodeSchemaAlreadyExists indicates a create without overwrite hit an
	// existing table.
	ErrCodeSchemaAlreadyExists ErrorCode = "SCHEMA_ALREADY_EXISTS"

	// ErrCodeStoreNotFound indicates the store file or table does not exist.
	ErrCodeStoreNotFound ErrorCode = "STORE_NOT_FOUND"

	// ErrCodeUnknownColumn indicates a query referenced a column absent from
	// the live schema.
	ErrCodeUnknownColumn ErrorCode = "UNKNOWN_COLUMN"
)

// Error represents a store validation failure. These are raised immediately
// to the caller and are fatal to the current operation; there is no retry.
// Deduplication skips and mark regressions are NOT errors - they are
// reported as counts and outcomes by the operations that detect them.
type Error struct {
	Code    ErrorCode
	Table   string
	Column  string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Column != "":
		return fmt.Sprintf("%s: %s (table=%s, column=%s)", e.Code, e.Message, e.Table, e.Column)
	case e.Table != "":
		return fmt.Sprintf("%s: %s (table=%s)", e.Code, e.Message, e.Table)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsSchemaAlreadyExists reports whether err is a schema-conflict error.
// Uses errors.As to handle wrapped errors.
func IsSchemaAlreadyExists(err error) bool {
	return hasCode(err, ErrCodeSchemaAlreadyExists)
}

// IsStoreNotFound reports whether err is a missing-store error.
func IsStoreNotFound(err error) bool {
	return hasCode(err, ErrCodeStoreNotFound)
}

// IsUnknownColumn reports whether err is an unknown-column error.
func IsUnknownColumn(err error) bool {
	return hasCode(err, ErrCodeUnknownColumn)
}

func hasCode(err error, code ErrorCode) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

func newSchemaExistsError(table string) *Error {
	return &Error{
		Code:    ErrCodeSchemaAlreadyExists,
		Table:   table,
		Message: "table already exists (pass overwrite to reinitialize)",
	}
}

func newStoreNotFoundError(table string) *Error {
	return &Error{
		Code:    ErrCodeStoreNotFound,
		Table:   table,
		Message: "table does not exist in store",
	}
}

func newUnknownColumnError(table, column string) *Error {
	return &Error{
		Code:    ErrCodeUnknownColumn,
		Table:   table,
		Column:  column,
		Message: "column not found in live schema",
	}
}
