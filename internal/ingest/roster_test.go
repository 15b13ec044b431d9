package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labreg/internal/catalog"
	"labreg/internal/record"
	"labreg/internal/store"
)

func writeJSON(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newRosterStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "students.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

const sampleRoster = `[
	{"nome": "Mario", "cognome": "Rossi", "matricola": 111, "indirizzoemail": "mario.rossi@example.edu"},
	{"nome": "Anna", "cognome": "Bianchi", "matricola": 222, "indirizzoemail": "anna.bianchi@example.edu"}
]`

func TestLoadRoster(t *testing.T) {
	students, err := LoadRoster(writeJSON(t, "roster.json", sampleRoster), "2024/25")
	require.NoError(t, err)
	require.Len(t, students, 2)

	assert.Equal(t, record.Student{
		Surname:   "Rossi",
		Name:      "Mario",
		Matricola: 111,
		Mail:      "mario.rossi@example.edu",
		Cohort:    "2024/25",
	}, students[0])
	assert.Equal(t, int64(0), students[0].Group)
}

func TestLoadRoster_SchemaViolations(t *testing.T) {
	cases := map[string]string{
		"missing field":     `[{"nome": "Mario", "cognome": "Rossi", "matricola": 111}]`,
		"mistyped field":    `[{"nome": "Mario", "cognome": "Rossi", "matricola": "111", "indirizzoemail": "m@x.it"}]`,
		"not an array":      `{"nome": "Mario"}`,
		"fractional number": `[{"nome": "Mario", "cognome": "Rossi", "matricola": 111.5, "indirizzoemail": "m@x.it"}]`,
	}
	for name, content := range cases {
		_, err := LoadRoster(writeJSON(t, "roster.json", content), "2024/25")
		assert.Error(t, err, name)
	}
}

func TestLoadRoster_Empty(t *testing.T) {
	_, err := LoadRoster(writeJSON(t, "roster.json", `[]`), "2024/25")
	assert.Error(t, err)
}

func TestImportRoster_Idempotent(t *testing.T) {
	s := newRosterStore(t)
	ctx := context.Background()
	students, err := LoadRoster(writeJSON(t, "roster.json", sampleRoster), "2024/25")
	require.NoError(t, err)

	report, err := ImportRoster(ctx, s, students, false)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Added)

	report, err = ImportRoster(ctx, s, students, false)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Added)
	assert.Equal(t, 2, report.Skipped)
}

func TestImportRoster_Overwrite(t *testing.T) {
	s := newRosterStore(t)
	ctx := context.Background()
	students, err := LoadRoster(writeJSON(t, "roster.json", sampleRoster), "2024/25")
	require.NoError(t, err)

	_, err = ImportRoster(ctx, s, students, false)
	require.NoError(t, err)

	report, err := ImportRoster(ctx, s, students[:1], true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)

	d, err := s.BuildQuery(ctx, catalog.TableStudents, nil, nil, "")
	require.NoError(t, err)
	result, err := s.ExecuteQuery(ctx, d)
	require.NoError(t, err)
	assert.Len(t, result.Rows, 1)
}

func TestAssignGroups(t *testing.T) {
	s := newRosterStore(t)
	ctx := context.Background()
	students, err := LoadRoster(writeJSON(t, "roster.json", sampleRoster), "2024/25")
	require.NoError(t, err)
	_, err = ImportRoster(ctx, s, students, false)
	require.NoError(t, err)

	assignments, err := LoadGroupAssignments(writeJSON(t, "groups.json", `[
		{"matricola": 111, "gruppo": 2},
		{"matricola": 999, "gruppo": 1}
	]`))
	require.NoError(t, err)

	// Matricola 999 is not in the roster: it contributes nothing.
	assigned, err := AssignGroups(ctx, s, assignments)
	require.NoError(t, err)
	assert.Equal(t, int64(1), assigned)

	d, err := s.BuildQuery(ctx, catalog.TableStudents, []string{"matricola", "gruppo"}, nil, "matricola")
	require.NoError(t, err)
	result, err := s.ExecuteQuery(ctx, d)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, record.Int(2), result.Rows[0][1])
	assert.Equal(t, record.Int(0), result.Rows[1][1])
}

func TestImportRosterAfterGroups_DoesNotDuplicate(t *testing.T) {
	s := newRosterStore(t)
	ctx := context.Background()
	students, err := LoadRoster(writeJSON(t, "roster.json", sampleRoster), "2024/25")
	require.NoError(t, err)
	_, err = ImportRoster(ctx, s, students, false)
	require.NoError(t, err)

	_, err = AssignGroups(ctx, s, []GroupAssignment{{Matricola: 111, Gruppo: 2}})
	require.NoError(t, err)

	// The dedup scan ignores gruppo: the grouped student is still skipped.
	report, err := ImportRoster(ctx, s, students, false)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Added)
	assert.Equal(t, 2, report.Skipped)
}
