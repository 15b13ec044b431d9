package record

import "fmt"

// StudentFromRow maps a queried row onto a Student using the result's
// column metadata. Unknown columns are ignored; absent columns leave the
// zero value, so partial projections (e.g. without coorte) still convert.
func StudentFromRow(columns []string, row Record) (Student, error) {
	var s Student
	if len(columns) != len(row) {
		return s, fmt.Errorf("row has %d values for %d columns", len(row), len(columns))
	}
	for i, col := range columns {
		v := row[i]
		if _, isNull := v.(Null); isNull {
			continue
		}
		switch col {
		case "cognome":
			t, ok := v.(Text)
			if !ok {
				return s, fmt.Errorf("column cognome: unexpected type %T", v)
			}
			s.Surname = string(t)
		case "nome":
			t, ok := v.(Text)
			if !ok {
				return s, fmt.Errorf("column nome: unexpected type %T", v)
			}
			s.Name = string(t)
		case "matricola":
			n, ok := v.(Int)
			if !ok {
				return s, fmt.Errorf("column matricola: unexpected type %T", v)
			}
			s.Matricola = int64(n)
		case "mail":
			t, ok := v.(Text)
			if !ok {
				return s, fmt.Errorf("column mail: unexpected type %T", v)
			}
			s.Mail = string(t)
		case "coorte":
			t, ok := v.(Text)
			if !ok {
				return s, fmt.Errorf("column coorte: unexpected type %T", v)
			}
			s.Cohort = string(t)
		case "gruppo":
			n, ok := v.(Int)
			if !ok {
				return s, fmt.Errorf("column gruppo: unexpected type %T", v)
			}
			s.Group = int64(n)
		}
	}
	return s, nil
}
