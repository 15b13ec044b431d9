package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLType_RoundTrip(t *testing.T) {
	for _, ct := range []ColumnType{TypeText, TypeInteger, TypeBoolean} {
		decl, err := ct.SQLType()
		require.NoError(t, err)
		assert.Equal(t, ct, FromSQLType(decl), "type %q", ct)
	}

	_, err := ColumnType("blob").SQLType()
	assert.Error(t, err)
}

func TestFromSQLType_FallsBackToText(t *testing.T) {
	assert.Equal(t, TypeText, FromSQLType("VARCHAR(80)"))
	assert.Equal(t, TypeText, FromSQLType(""))
	assert.Equal(t, TypeInteger, FromSQLType("INT"))
	assert.Equal(t, TypeBoolean, FromSQLType("BOOL"))
}

func TestDefaultSchemas_Valid(t *testing.T) {
	for _, s := range []Schema{
		Students(),
		Dates(),
		Exams(),
		Attendance([]string{"20240101", "20240108"}),
	} {
		assert.NoError(t, s.Validate(), "schema %q", s.Table)
	}
}

func TestStudents_ColumnOrder(t *testing.T) {
	s := Students()
	assert.Equal(t, []string{"cognome", "nome", "matricola", "mail", "coorte", "gruppo"}, s.ColumnNames())
	assert.True(t, s.HasColumn("gruppo"))
	assert.False(t, s.HasColumn("telefono"))
}

func TestAttendance_OneColumnPerDate(t *testing.T) {
	s := Attendance([]string{"20240101", "20240108"})
	require.Len(t, s.Columns, 3)
	assert.Equal(t, MatricolaColumn, s.Columns[0].Name)
	assert.Equal(t, TypeInteger, s.Columns[0].Type)
	assert.Equal(t, TypeBoolean, s.Columns[1].Type)
	assert.Equal(t, "20240108", s.Columns[2].Name)
}

func TestValidate_Rejections(t *testing.T) {
	cases := map[string]Schema{
		"no table":  {Columns: []Column{{Name: "a", Type: TypeText}}},
		"no column": {Table: "t"},
		"unnamed":   {Table: "t", Columns: []Column{{Type: TypeText}}},
		"duplicate": {Table: "t", Columns: []Column{
			{Name: "a", Type: TypeText},
			{Name: "a", Type: TypeInteger},
		}},
		"bad type": {Table: "t", Columns: []Column{{Name: "a", Type: "blob"}}},
	}
	for name, s := range cases {
		assert.Error(t, s.Validate(), name)
	}
}
