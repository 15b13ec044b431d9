package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParam(t *testing.T) {
	cases := []struct {
		v    Value
		want any
	}{
		{Text("Rossi"), "Rossi"},
		{Int(123456), int64(123456)},
		{Bool(true), true},
		{Null{}, nil},
	}
	for _, tc := range cases {
		got, err := Param(tc.v)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Text("a"), Text("a")))
	assert.True(t, Equal(Int(1), Int(1)))
	assert.False(t, Equal(Int(1), Int(2)))
	assert.False(t, Equal(Text("1"), Int(1)))

	// Null follows SQL semantics: never equal, not even to itself.
	assert.False(t, Equal(Null{}, Null{}))
	assert.False(t, Equal(Null{}, Text("")))
}

func TestString(t *testing.T) {
	assert.Equal(t, "Rossi", String(Text("Rossi")))
	assert.Equal(t, "42", String(Int(42)))
	assert.Equal(t, "true", String(Bool(true)))
	assert.Equal(t, "false", String(Bool(false)))
	assert.Equal(t, "", String(Null{}))
}

func TestStudentRow_SchemaOrder(t *testing.T) {
	s := Student{
		Surname:   "Rossi",
		Name:      "Mario",
		Matricola: 111,
		Mail:      "m@x.it",
		Cohort:    "2024/25",
		Group:     3,
	}
	assert.Equal(t, Record{
		Text("Rossi"), Text("Mario"), Int(111), Text("m@x.it"), Text("2024/25"), Int(3),
	}, s.Row())
}

func TestAttendanceEntryValue(t *testing.T) {
	present := true
	assert.Equal(t, Bool(true), AttendanceEntry{Present: &present}.Value())
	assert.Equal(t, Null{}, AttendanceEntry{}.Value())
}

func TestStudentFromRow(t *testing.T) {
	columns := []string{"cognome", "nome", "matricola", "mail", "coorte", "gruppo"}
	row := Record{Text("Rossi"), Text("Mario"), Int(111), Text("m@x.it"), Text("2024/25"), Int(3)}

	s, err := StudentFromRow(columns, row)
	require.NoError(t, err)
	assert.Equal(t, Student{
		Surname: "Rossi", Name: "Mario", Matricola: 111,
		Mail: "m@x.it", Cohort: "2024/25", Group: 3,
	}, s)
}

func TestStudentFromRow_PartialProjection(t *testing.T) {
	s, err := StudentFromRow([]string{"cognome", "gruppo"}, Record{Text("Rossi"), Int(2)})
	require.NoError(t, err)
	assert.Equal(t, "Rossi", s.Surname)
	assert.Equal(t, int64(2), s.Group)
	assert.Empty(t, s.Cohort)
}

func TestStudentFromRow_Errors(t *testing.T) {
	_, err := StudentFromRow([]string{"cognome", "nome"}, Record{Text("Rossi")})
	assert.Error(t, err, "length mismatch")

	_, err = StudentFromRow([]string{"matricola"}, Record{Text("not a number")})
	assert.Error(t, err, "mistyped cell")
}
