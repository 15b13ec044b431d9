package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"labreg/internal/catalog"
	"labreg/internal/query"
	"labreg/internal/record"
	"labreg/internal/store"
)

type dateEntry struct {
	Date  string `json:"date"`
	Hours int64  `json:"hours"`
}

// LoadDates reads the term calendar: a JSON array of {date, hours} entries,
// in chronological order.
func LoadDates(path string) ([]record.SessionDate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load dates: %w", err)
	}
	var entries []dateEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("load dates %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("load dates %s: no session dates found", path)
	}

	dates := make([]record.SessionDate, len(entries))
	for i, e := range entries {
		if e.Date == "" {
			return nil, fmt.Errorf("load dates %s: entry %d has no date", path, i)
		}
		dates[i] = record.SessionDate{Date: e.Date, Hours: e.Hours}
	}
	return dates, nil
}

// ImportDates inserts session dates into the calendar store, creating the
// dates table when missing. Re-importing the same calendar is idempotent:
// existing rows are skipped by the dedup scan.
func ImportDates(ctx context.Context, s *store.Store, dates []record.SessionDate, overwrite bool) (store.InsertReport, error) {
	if err := ensureTable(ctx, s, catalog.Dates(), overwrite); err != nil {
		return store.InsertReport{}, fmt.Errorf("import dates: %w", err)
	}

	records := make([]record.Record, len(dates))
	for i, d := range dates {
		records[i] = d.Row()
	}

	report, err := s.InsertRecords(ctx, catalog.TableDates, records, nil)
	if err != nil {
		return report, fmt.Errorf("import dates: %w", err)
	}
	return report, nil
}

// QueryDates reads the full calendar back from the dates store in date order.
func QueryDates(ctx context.Context, s *store.Store) ([]record.SessionDate, error) {
	d, err := s.BuildQuery(ctx, catalog.TableDates, nil, nil, "date")
	if err != nil {
		return nil, fmt.Errorf("query dates: %w", err)
	}
	result, err := s.ExecuteQuery(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("query dates: %w", err)
	}

	dates := make([]record.SessionDate, 0, len(result.Rows))
	for _, row := range result.Rows {
		date, okDate := row[0].(record.Text)
		hours, okHours := row[1].(record.Int)
		if !okDate || !okHours {
			return nil, fmt.Errorf("query dates: malformed calendar row")
		}
		dates = append(dates, record.SessionDate{Date: string(date), Hours: int64(hours)})
	}
	return dates, nil
}

type attendanceEntry struct {
	Matricola int64  `json:"matricola"`
	Date      string `json:"date"`
	Present   *bool  `json:"present"`
}

// LoadAttendance reads attendance updates: a JSON array of
// {matricola, date, present} entries. A null present field marks the
// session as not yet recorded for that student.
func LoadAttendance(path string) ([]record.AttendanceEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load attendance: %w", err)
	}
	var raw []attendanceEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("load attendance %s: %w", path, err)
	}

	entries := make([]record.AttendanceEntry, len(raw))
	for i, e := range raw {
		if e.Date == "" {
			return nil, fmt.Errorf("load attendance %s: entry %d has no date", path, i)
		}
		entries[i] = record.AttendanceEntry{Matricola: e.Matricola, Date: e.Date, Present: e.Present}
	}
	return entries, nil
}

// InitAttendance creates the attendance table with one boolean column per
// session date.
func InitAttendance(ctx context.Context, s *store.Store, dates []record.SessionDate, overwrite bool) error {
	labels := make([]string, len(dates))
	for i, d := range dates {
		labels[i] = d.Date
	}
	if err := ensureTable(ctx, s, catalog.Attendance(labels), overwrite); err != nil {
		return fmt.Errorf("init attendance: %w", err)
	}
	return nil
}

// ApplyAttendance records attendance entries in the attendance store.
// Unknown dates extend the schema additively; each student's row is lazily
// materialized the first time the student is referenced, then the per-date
// field is updated.
func ApplyAttendance(ctx context.Context, s *store.Store, entries []record.AttendanceEntry) error {
	for _, e := range entries {
		if _, err := s.AddColumn(ctx, catalog.TableAttendance, catalog.Column{
			Name: e.Date,
			Type: catalog.TypeBoolean,
		}); err != nil {
			return fmt.Errorf("apply attendance: %w", err)
		}

		matricola := record.Int(e.Matricola)
		exists, err := s.RowExists(ctx, catalog.TableAttendance, catalog.MatricolaColumn, matricola)
		if err != nil {
			return fmt.Errorf("apply attendance: %w", err)
		}
		if !exists {
			if err := s.AddBareRow(ctx, catalog.TableAttendance, catalog.MatricolaColumn, matricola); err != nil {
				return fmt.Errorf("apply attendance: %w", err)
			}
		}

		_, err = s.UpdateField(ctx, catalog.TableAttendance, e.Date, e.Value(),
			query.Equals{Column: catalog.MatricolaColumn, Value: matricola})
		if err != nil {
			return fmt.Errorf("apply attendance: matricola %d: %w", e.Matricola, err)
		}
	}
	return nil
}
