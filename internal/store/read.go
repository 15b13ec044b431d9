package store

import (
	"context"
	"fmt"

	"labreg/internal/catalog"
	"labreg/internal/query"
	"labreg/internal/record"
)

// ResultSet is the outcome of executing a query descriptor: ordered rows
// plus column metadata (name per position, matching each row's order).
type ResultSet struct {
	Columns []string
	Rows    []record.Record
}

// BuildQuery validates a structured read request against the live schema
// and produces a query descriptor. Every projected column, every column
// referenced by the filter and the order column must exist in the table;
// otherwise the build fails with UnknownColumn. A nil columns slice means
// "all columns, in schema order".
func (s *Store) BuildQuery(ctx context.Context, table string, columns []string, filter query.Predicate, orderBy string) (query.Descriptor, error) {
	live, err := s.ListColumns(ctx, table)
	if err != nil {
		return query.Descriptor{}, fmt.Errorf("build query: %w", err)
	}

	known := make(map[string]bool, len(live))
	for _, c := range live {
		known[c.Name] = true
	}

	for _, col := range columns {
		if !known[col] {
			return query.Descriptor{}, newUnknownColumnError(table, col)
		}
	}
	for _, col := range filterColumns(filter) {
		if !known[col] {
			return query.Descriptor{}, newUnknownColumnError(table, col)
		}
	}
	if orderBy != "" && !known[orderBy] {
		return query.Descriptor{}, newUnknownColumnError(table, orderBy)
	}

	return query.Descriptor{
		Table:   table,
		Columns: columns,
		Filter:  filter,
		OrderBy: orderBy,
	}, nil
}

// ExecuteQuery runs a descriptor and returns the ordered rows with column
// metadata. Fails with StoreNotFound when the table does not exist.
func (s *Store) ExecuteQuery(ctx context.Context, d query.Descriptor) (*ResultSet, error) {
	live, err := s.ListColumns(ctx, d.Table)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}

	types := make(map[string]catalog.ColumnType, len(live))
	for _, c := range live {
		types[c.Name] = c.Type
	}

	resultColumns := d.Columns
	if len(resultColumns) == 0 {
		resultColumns = make([]string, len(live))
		for i, c := range live {
			resultColumns[i] = c.Name
		}
	}

	sqlText, params, err := query.Compile(d)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	result := &ResultSet{Columns: resultColumns, Rows: []record.Record{}}
	for rows.Next() {
		raw := make([]any, len(resultColumns))
		ptrs := make([]any, len(resultColumns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		rec := make(record.Record, len(resultColumns))
		for i, col := range resultColumns {
			v, err := toValue(raw[i], types[col])
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col, err)
			}
			rec[i] = v
		}
		result.Rows = append(result.Rows, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}

// RowExists reports whether any row has the given value in the given column.
// Used to decide whether a per-student row must be lazily materialized in a
// derived table before targeted field updates.
func (s *Store) RowExists(ctx context.Context, table, column string, value record.Value) (bool, error) {
	if err := s.requireTable(ctx, table); err != nil {
		return false, err
	}
	count, err := s.countMatching(ctx, table, query.Equals{Column: column, Value: value})
	if err != nil {
		return false, fmt.Errorf("row exists: %w", err)
	}
	return count > 0, nil
}

// countMatching counts the rows of a table satisfying a predicate.
func (s *Store) countMatching(ctx context.Context, table string, filter query.Predicate) (int64, error) {
	quoted, err := query.QuoteIdent(table)
	if err != nil {
		return 0, err
	}
	where, params, err := query.CompilePredicate(filter)
	if err != nil {
		return 0, err
	}

	var count int64
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+quoted+" WHERE "+where,
		params...,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return count, nil
}

// filterColumns collects the column names referenced by a predicate tree.
func filterColumns(p query.Predicate) []string {
	switch pred := p.(type) {
	case nil:
		return nil
	case query.Equals:
		return []string{pred.Column}
	case *query.Equals:
		return []string{pred.Column}
	case query.And:
		var cols []string
		for _, sub := range pred.Predicates {
			cols = append(cols, filterColumns(sub)...)
		}
		return cols
	case *query.And:
		return filterColumns(*pred)
	default:
		return nil
	}
}

// toValue converts a raw SQLite value to a record value using the column's
// catalog type. SQLite typing is dynamic, so lenient conversions are applied
// where the stored representation differs from the declared type.
func toValue(raw any, t catalog.ColumnType) (record.Value, error) {
	if raw == nil {
		return record.Null{}, nil
	}
	switch t {
	case catalog.TypeBoolean:
		switch v := raw.(type) {
		case int64:
			return record.Bool(v != 0), nil
		case bool:
			return record.Bool(v), nil
		}
	case catalog.TypeInteger:
		switch v := raw.(type) {
		case int64:
			return record.Int(v), nil
		case float64:
			return record.Int(int64(v)), nil
		}
	case catalog.TypeText:
		switch v := raw.(type) {
		case string:
			return record.Text(v), nil
		case []byte:
			return record.Text(string(v)), nil
		case int64:
			return record.Text(fmt.Sprintf("%d", v)), nil
		}
	}
	return nil, fmt.Errorf("cannot convert %T to %s", raw, t)
}
