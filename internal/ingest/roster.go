// Package ingest loads canonical records from JSON files and applies them
// to the record stores. It pre-validates required fields; the store itself
// does not supply defaults for ingestion-side gaps.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"labreg/internal/catalog"
	"labreg/internal/query"
	"labreg/internal/record"
	"labreg/internal/store"
)

// rosterSchema constrains a cohort roster file: a JSON array of students,
// every required field present and typed. JSON is a subset of CUE, so the
// input unifies directly with the schema.
const rosterSchema = `[...{
	nome:           string
	cognome:        string
	matricola:      int
	indirizzoemail: string
}]`

type rosterEntry struct {
	Nome           string `json:"nome"`
	Cognome        string `json:"cognome"`
	Matricola      int64  `json:"matricola"`
	IndirizzoEmail string `json:"indirizzoemail"`
}

// LoadRoster reads and validates a cohort roster file, returning canonical
// student records stamped with the cohort label. Group stays 0 (unassigned);
// groups are drawn after import.
func LoadRoster(path, cohort string) ([]record.Student, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	if err := validateRoster(data); err != nil {
		return nil, fmt.Errorf("load roster %s: %w", path, err)
	}

	var entries []rosterEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("load roster %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("load roster %s: no students found", path)
	}

	students := make([]record.Student, len(entries))
	for i, e := range entries {
		students[i] = record.Student{
			Surname:   e.Cognome,
			Name:      e.Nome,
			Matricola: e.Matricola,
			Mail:      e.IndirizzoEmail,
			Cohort:    cohort,
		}
	}
	return students, nil
}

// validateRoster unifies the file contents with the roster schema and
// requires a fully concrete result, rejecting missing or mistyped fields
// before anything touches the store.
func validateRoster(data []byte) error {
	cctx := cuecontext.New()

	schema := cctx.CompileString(rosterSchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile roster schema: %w", err)
	}

	input := cctx.CompileBytes(data)
	if err := input.Err(); err != nil {
		return fmt.Errorf("parse roster: %w", err)
	}

	unified := schema.Unify(input)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("roster does not match schema: %w", err)
	}
	return nil
}

// ImportRoster inserts students into the roster store, creating the
// students table if it is missing (or recreating it when overwrite is set).
// Deduplication ignores the gruppo column, since groups are assigned later:
// re-importing a roster after group assignment must not duplicate anyone.
func ImportRoster(ctx context.Context, s *store.Store, students []record.Student, overwrite bool) (store.InsertReport, error) {
	if err := ensureTable(ctx, s, catalog.Students(), overwrite); err != nil {
		return store.InsertReport{}, fmt.Errorf("import roster: %w", err)
	}

	records := make([]record.Record, len(students))
	for i, st := range students {
		records[i] = st.Row()
	}

	report, err := s.InsertRecords(ctx, catalog.TableStudents, records, []string{"gruppo"})
	if err != nil {
		return report, fmt.Errorf("import roster: %w", err)
	}
	return report, nil
}

// GroupAssignment pairs a student with their drawn lab group.
type GroupAssignment struct {
	Matricola int64 `json:"matricola"`
	Gruppo    int64 `json:"gruppo"`
}

// LoadGroupAssignments reads a group-assignment file: a JSON array of
// {matricola, gruppo} pairs.
func LoadGroupAssignments(path string) ([]GroupAssignment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load group assignments: %w", err)
	}
	var assignments []GroupAssignment
	if err := json.Unmarshal(data, &assignments); err != nil {
		return nil, fmt.Errorf("load group assignments %s: %w", path, err)
	}
	return assignments, nil
}

// AssignGroups applies group assignments to the roster store, adding the
// gruppo column first when importing into a pre-group-era store.
// Returns the number of students whose group was set.
func AssignGroups(ctx context.Context, s *store.Store, assignments []GroupAssignment) (int64, error) {
	if _, err := s.AddColumn(ctx, catalog.TableStudents, catalog.Column{
		Name:    "gruppo",
		Type:    catalog.TypeInteger,
		Default: int64(0),
	}); err != nil {
		return 0, fmt.Errorf("assign groups: %w", err)
	}

	var assigned int64
	for _, a := range assignments {
		n, err := s.UpdateField(ctx, catalog.TableStudents, "gruppo", record.Int(a.Gruppo),
			query.Equals{Column: catalog.MatricolaColumn, Value: record.Int(a.Matricola)})
		if err != nil {
			return assigned, fmt.Errorf("assign groups: matricola %d: %w", a.Matricola, err)
		}
		assigned += n
	}
	return assigned, nil
}

// ensureTable creates a table when missing; with overwrite it recreates it.
// An existing table without overwrite is left untouched.
func ensureTable(ctx context.Context, s *store.Store, schema catalog.Schema, overwrite bool) error {
	err := s.CreateSchema(ctx, schema, overwrite)
	if err != nil && !store.IsSchemaAlreadyExists(err) {
		return err
	}
	return nil
}
