package record

// Record is an ordered tuple of values matching a schema's column order.
// Records carry no identity beyond their field values: uniqueness is defined
// as "no other stored row has identical values across the compared columns".
type Record []Value

// Student is the canonical roster record.
// Matricola is the numeric student identifier, unique within one store.
// Group 0 means unassigned.
type Student struct {
	Surname   string
	Name      string
	Matricola int64
	Mail      string
	Cohort    string
	Group     int64
}

// Row returns the student as a record in students-schema column order.
func (s Student) Row() Record {
	return Record{
		Text(s.Surname),
		Text(s.Name),
		Int(s.Matricola),
		Text(s.Mail),
		Text(s.Cohort),
		Int(s.Group),
	}
}

// SessionDate is one entry of the term calendar: a date label (yyyymmdd)
// and the session duration in hours.
type SessionDate struct {
	Date  string
	Hours int64
}

// Row returns the session date as a record in dates-schema column order.
func (d SessionDate) Row() Record {
	return Record{Text(d.Date), Int(d.Hours)}
}

// ExamResult is one student's exam row: at most one per matricola per store.
// Mark fields hold raw mark tokens; ReportsMark holds a compacted
// experience:grade string. Dates are yyyymmdd integers, 0 when unset.
type ExamResult struct {
	Matricola   int64
	WrittenMark string
	WrittenDate int64
	ReportsMark string
	ReportsDate int64
	OralDate    int64
	Result      string
}

// AttendanceEntry is one student's presence flag for one session date.
// Present is nil while the session has not been recorded yet.
type AttendanceEntry struct {
	Matricola int64
	Date      string
	Present   *bool
}

// Value returns the entry's presence flag as a store value (Null when
// unrecorded).
func (e AttendanceEntry) Value() Value {
	if e.Present == nil {
		return Null{}
	}
	return Bool(*e.Present)
}
