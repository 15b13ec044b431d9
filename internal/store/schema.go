package store

import (
	"context"
	"fmt"
	"strings"

	"labreg/internal/catalog"
	"labreg/internal/query"
)

// CreateSchema initializes the table described by the schema.
// Fails with SchemaAlreadyExists when the table exists and overwrite is
// false; with overwrite it drops and recreates the table, leaving it empty.
func (s *Store) CreateSchema(ctx context.Context, schema catalog.Schema, overwrite bool) error {
	if err := schema.Validate(); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	exists, err := s.tableExists(ctx, schema.Table)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if exists {
		if !overwrite {
			return newSchemaExistsError(schema.Table)
		}
		table, err := query.QuoteIdent(schema.Table)
		if err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, "DROP TABLE "+table); err != nil {
			return fmt.Errorf("create schema: drop %s: %w", schema.Table, err)
		}
	}

	ddl, err := createTableSQL(schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// ListColumns introspects the live schema of a table, returning its columns
// in declaration order. Supports stores whose schema was extended after
// creation. Fails with StoreNotFound when the table is absent.
func (s *Store) ListColumns(ctx context.Context, table string) ([]catalog.Column, error) {
	if err := s.requireTable(ctx, table); err != nil {
		return nil, err
	}

	quoted, err := query.QuoteIdent(table)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, "PRAGMA table_info("+quoted+")")
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	defer rows.Close()

	var columns []catalog.Column
	for rows.Next() {
		var (
			cid     int
			name    string
			decl    string
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &decl, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan column info: %w", err)
		}
		columns = append(columns, catalog.Column{
			Name: name,
			Type: catalog.FromSQLType(strings.ToUpper(decl)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column info: %w", err)
	}
	return columns, nil
}

// AddColumn extends the live schema additively. Idempotent: if the column
// already exists this is a no-op and added is false - not an error.
func (s *Store) AddColumn(ctx context.Context, table string, column catalog.Column) (added bool, err error) {
	columns, err := s.ListColumns(ctx, table)
	if err != nil {
		return false, fmt.Errorf("add column: %w", err)
	}
	for _, c := range columns {
		if c.Name == column.Name {
			return false, nil
		}
	}

	def, err := columnDef(column)
	if err != nil {
		return false, fmt.Errorf("add column: %w", err)
	}
	quoted, err := query.QuoteIdent(table)
	if err != nil {
		return false, fmt.Errorf("add column: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "ALTER TABLE "+quoted+" ADD COLUMN "+def); err != nil {
		return false, fmt.Errorf("add column %s.%s: %w", table, column.Name, err)
	}
	return true, nil
}

func createTableSQL(schema catalog.Schema) (string, error) {
	table, err := query.QuoteIdent(schema.Table)
	if err != nil {
		return "", err
	}
	defs := make([]string, len(schema.Columns))
	for i, c := range schema.Columns {
		def, err := columnDef(c)
		if err != nil {
			return "", err
		}
		defs[i] = def
	}
	return "CREATE TABLE " + table + " (\n\t" + strings.Join(defs, ",\n\t") + "\n)", nil
}

func columnDef(c catalog.Column) (string, error) {
	name, err := query.QuoteIdent(c.Name)
	if err != nil {
		return "", err
	}
	sqlType, err := c.Type.SQLType()
	if err != nil {
		return "", err
	}
	def := name + " " + sqlType
	if c.Default != nil {
		lit, err := defaultLiteral(c.Default)
		if err != nil {
			return "", fmt.Errorf("column %s: %w", c.Name, err)
		}
		def += " DEFAULT " + lit
	}
	return def, nil
}

// defaultLiteral renders a column default as a DDL literal. DDL cannot take
// bound parameters, so strings are quote-escaped by doubling; numeric and
// boolean defaults are written literally.
func defaultLiteral(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'", nil
	case int:
		return fmt.Sprintf("%d", val), nil
	case int64:
		return fmt.Sprintf("%d", val), nil
	case bool:
		if val {
			return "1", nil
		}
		return "0", nil
	default:
		return "", fmt.Errorf("unsupported default type %T", v)
	}
}
