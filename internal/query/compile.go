package query

import (
	"fmt"
	"strings"

	"labreg/internal/record"
)

// Compile converts a Descriptor to parameterized SQL for SQLite.
// Returns (sql, params, error). Values are always bound via ? placeholders;
// identifiers are quoted, so date-labelled attendance columns ("20240315")
// are legal column names.
func Compile(d Descriptor) (string, []any, error) {
	if d.Table == "" {
		return "", nil, fmt.Errorf("compile query: no table")
	}
	table, err := QuoteIdent(d.Table)
	if err != nil {
		return "", nil, fmt.Errorf("compile query: %w", err)
	}

	selectClause, err := compileProjection(d.Columns)
	if err != nil {
		return "", nil, fmt.Errorf("compile query: %w", err)
	}

	var whereClause string
	var params []any
	if d.Filter != nil {
		filterSQL, filterParams, err := CompilePredicate(d.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		whereClause = " WHERE " + filterSQL
		params = filterParams
	}

	var orderClause string
	if d.OrderBy != "" {
		col, err := QuoteIdent(d.OrderBy)
		if err != nil {
			return "", nil, fmt.Errorf("compile order: %w", err)
		}
		orderClause = " ORDER BY " + col + " ASC"
	}

	sql := fmt.Sprintf("SELECT %s FROM %s%s%s", selectClause, table, whereClause, orderClause)
	return sql, params, nil
}

// CompilePredicate compiles a predicate tree to a WHERE clause fragment.
// Returns (sql, params, error). A nil predicate is always true.
func CompilePredicate(p Predicate) (string, []any, error) {
	if p == nil {
		return "1 = 1", nil, nil
	}

	switch pred := p.(type) {
	case Equals:
		return compileEquals(pred)
	case *Equals:
		return compileEquals(*pred)
	case And:
		return compileAnd(pred)
	case *And:
		return compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func compileEquals(eq Equals) (string, []any, error) {
	col, err := QuoteIdent(eq.Column)
	if err != nil {
		return "", nil, err
	}

	// NULL never compares equal in SQL; an explicit IS NULL keeps dedup
	// filters able to match rows with unset fields.
	if _, isNull := eq.Value.(record.Null); isNull || eq.Value == nil {
		return col + " IS NULL", nil, nil
	}

	param, err := record.Param(eq.Value)
	if err != nil {
		return "", nil, fmt.Errorf("column %s: %w", eq.Column, err)
	}
	return col + " = ?", []any{param}, nil
}

func compileAnd(and And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil // Vacuous truth
	}

	var sqlParts []string
	var allParams []any
	for _, pred := range and.Predicates {
		sql, params, err := CompilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		sqlParts = append(sqlParts, sql)
		allParams = append(allParams, params...)
	}
	return strings.Join(sqlParts, " AND "), allParams, nil
}

func compileProjection(columns []string) (string, error) {
	if len(columns) == 0 {
		return "*", nil
	}
	parts := make([]string, len(columns))
	for i, c := range columns {
		quoted, err := QuoteIdent(c)
		if err != nil {
			return "", err
		}
		parts[i] = quoted
	}
	return strings.Join(parts, ", "), nil
}

// QuoteIdent quotes an identifier for SQLite. Identifiers containing a
// double quote are rejected outright rather than escaped: no legitimate
// table or column name in these stores contains one.
func QuoteIdent(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty identifier")
	}
	if strings.ContainsAny(name, "\"\x00") {
		return "", fmt.Errorf("invalid identifier %q", name)
	}
	return `"` + name + `"`, nil
}
