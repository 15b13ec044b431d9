package catalog

// Dataset table names. Each lives in its own store file.
const (
	TableStudents   = "students"
	TableDates      = "dates"
	TableExams      = "exams"
	TableAttendance = "attendance"
)

// MatricolaColumn is the student-identifier column shared by every dataset
// that references students.
const MatricolaColumn = "matricola"

// Students returns the roster schema: identity, cohort and lab group.
// Group 0 means unassigned; rosters are imported before groups are drawn,
// so insert deduplication ignores the gruppo column.
func Students() Schema {
	return Schema{
		Table: TableStudents,
		Columns: []Column{
			{Name: "cognome", Type: TypeText},
			{Name: "nome", Type: TypeText},
			{Name: MatricolaColumn, Type: TypeInteger},
			{Name: "mail", Type: TypeText},
			{Name: "coorte", Type: TypeText},
			{Name: "gruppo", Type: TypeInteger, Default: int64(0)},
		},
	}
}

// Dates returns the term-calendar schema: one row per session date with
// its duration in hours.
func Dates() Schema {
	return Schema{
		Table: TableDates,
		Columns: []Column{
			{Name: "date", Type: TypeText},
			{Name: "hours", Type: TypeInteger},
		},
	}
}

// Exams returns the exam-results schema: at most one row per matricola.
// Oral exams carry no separate mark column; an oral submission records its
// date in oral_date and its mark in result.
func Exams() Schema {
	return Schema{
		Table: TableExams,
		Columns: []Column{
			{Name: MatricolaColumn, Type: TypeInteger},
			{Name: "written_mark", Type: TypeText},
			{Name: "written_date", Type: TypeInteger},
			{Name: "reports_mark", Type: TypeText},
			{Name: "reports_date", Type: TypeInteger},
			{Name: "oral_date", Type: TypeInteger},
			{Name: "result", Type: TypeText},
		},
	}
}

// Attendance returns the attendance schema for the given session dates:
// the matricola column plus one boolean column per date. Later sessions are
// added to a live store with AddColumn.
func Attendance(dates []string) Schema {
	cols := make([]Column, 0, len(dates)+1)
	cols = append(cols, Column{Name: MatricolaColumn, Type: TypeInteger})
	for _, d := range dates {
		cols = append(cols, Column{Name: d, Type: TypeBoolean})
	}
	return Schema{Table: TableAttendance, Columns: cols}
}
