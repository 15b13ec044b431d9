package store

import (
	"context"
	"fmt"
	"strings"

	"labreg/internal/catalog"
	"labreg/internal/query"
	"labreg/internal/record"
)

// InsertReport summarizes a bulk insert: how many rows were added and how
// many candidates were skipped as duplicates. Duplicates are informational,
// not fatal - the operation completes and reports what it skipped.
type InsertReport struct {
	Added   int
	Skipped int
}

// InsertRecords bulk-inserts records into a table, deduplicating against
// stored rows. For each candidate an equality filter is built from all
// columns except those in ignoreKeys; candidates matching an existing row
// are silently skipped and counted. The remainder is inserted in one bulk
// statement preserving input order. If the final write fails the whole
// batch fails - there is no row-level retry.
//
// Each record must match the live column count in schema order. The dedup
// scan is one filtered read per candidate, O(existing rows) - acceptable at
// classroom scale.
func (s *Store) InsertRecords(ctx context.Context, table string, records []record.Record, ignoreKeys []string) (InsertReport, error) {
	var report InsertReport

	columns, err := s.ListColumns(ctx, table)
	if err != nil {
		return report, fmt.Errorf("insert records: %w", err)
	}

	ignored := make(map[string]bool, len(ignoreKeys))
	for _, k := range ignoreKeys {
		ignored[k] = true
	}

	var fresh []record.Record
	for i, rec := range records {
		if len(rec) != len(columns) {
			return report, fmt.Errorf("insert records: record %d has %d fields, table %s has %d columns",
				i, len(rec), table, len(columns))
		}

		dedup := query.And{}
		for j, col := range columns {
			if ignored[col.Name] {
				continue
			}
			dedup.Predicates = append(dedup.Predicates, query.Equals{Column: col.Name, Value: rec[j]})
		}

		count, err := s.countMatching(ctx, table, dedup)
		if err != nil {
			return report, fmt.Errorf("insert records: dedup scan: %w", err)
		}
		if count > 0 {
			report.Skipped++
			continue
		}
		fresh = append(fresh, rec)
	}

	if len(fresh) == 0 {
		return report, nil
	}

	sqlText, params, err := bulkInsertSQL(table, columns, fresh)
	if err != nil {
		return report, fmt.Errorf("insert records: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, sqlText, params...); err != nil {
		return report, fmt.Errorf("insert records: %w", err)
	}

	report.Added = len(fresh)
	return report, nil
}

// AddBareRow inserts a row with only one column populated; the remaining
// columns take their declared defaults or NULL. Used to lazily materialize
// a per-student row in derived tables (attendance, exams) before targeted
// field updates.
func (s *Store) AddBareRow(ctx context.Context, table, column string, value record.Value) error {
	if err := s.requireTable(ctx, table); err != nil {
		return err
	}

	quotedTable, err := query.QuoteIdent(table)
	if err != nil {
		return fmt.Errorf("add bare row: %w", err)
	}
	quotedColumn, err := query.QuoteIdent(column)
	if err != nil {
		return fmt.Errorf("add bare row: %w", err)
	}
	param, err := record.Param(value)
	if err != nil {
		return fmt.Errorf("add bare row: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO "+quotedTable+" ("+quotedColumn+") VALUES (?)",
		param,
	)
	if err != nil {
		return fmt.Errorf("add bare row: %w", err)
	}
	return nil
}

// UpdateField sets column = value on every row matching the filter.
// Returns the number of rows updated; zero matches is a no-op, not an error.
// The value is always a bound parameter, never interpolated.
func (s *Store) UpdateField(ctx context.Context, table, column string, value record.Value, filter query.Predicate) (int64, error) {
	live, err := s.ListColumns(ctx, table)
	if err != nil {
		return 0, fmt.Errorf("update field: %w", err)
	}
	found := false
	for _, c := range live {
		if c.Name == column {
			found = true
			break
		}
	}
	if !found {
		return 0, newUnknownColumnError(table, column)
	}

	quotedTable, err := query.QuoteIdent(table)
	if err != nil {
		return 0, fmt.Errorf("update field: %w", err)
	}
	quotedColumn, err := query.QuoteIdent(column)
	if err != nil {
		return 0, fmt.Errorf("update field: %w", err)
	}
	param, err := record.Param(value)
	if err != nil {
		return 0, fmt.Errorf("update field: %w", err)
	}
	where, whereParams, err := query.CompilePredicate(filter)
	if err != nil {
		return 0, fmt.Errorf("update field: %w", err)
	}

	params := append([]any{param}, whereParams...)
	res, err := s.db.ExecContext(ctx,
		"UPDATE "+quotedTable+" SET "+quotedColumn+" = ? WHERE "+where,
		params...,
	)
	if err != nil {
		return 0, fmt.Errorf("update field: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update field: rows affected: %w", err)
	}
	return affected, nil
}

// bulkInsertSQL assembles one parameterized multi-row INSERT covering all
// live columns in schema order.
func bulkInsertSQL(table string, columns []catalog.Column, records []record.Record) (string, []any, error) {
	quotedTable, err := query.QuoteIdent(table)
	if err != nil {
		return "", nil, err
	}

	names := make([]string, len(columns))
	for i, c := range columns {
		quoted, err := query.QuoteIdent(c.Name)
		if err != nil {
			return "", nil, err
		}
		names[i] = quoted
	}

	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	rowsSQL := make([]string, len(records))
	params := make([]any, 0, len(records)*len(columns))
	for i, rec := range records {
		rowsSQL[i] = placeholder
		for _, v := range rec {
			param, err := record.Param(v)
			if err != nil {
				return "", nil, err
			}
			params = append(params, param)
		}
	}

	sqlText := "INSERT INTO " + quotedTable +
		" (" + strings.Join(names, ", ") + ") VALUES " +
		strings.Join(rowsSQL, ", ")
	return sqlText, params, nil
}
