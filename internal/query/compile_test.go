package query

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labreg/internal/record"
)

func TestCompile_AllColumns(t *testing.T) {
	sql, params, err := Compile(Descriptor{Table: "students", OrderBy: "cognome"})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "students" ORDER BY "cognome" ASC`, sql)
	assert.Empty(t, params)
}

func TestCompile_ProjectionFilterOrder(t *testing.T) {
	sql, params, err := Compile(Descriptor{
		Table:   "students",
		Columns: []string{"cognome", "nome", "mail"},
		Filter:  Equals{Column: "coorte", Value: record.Text("2022/23")},
		OrderBy: "cognome",
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT "cognome", "nome", "mail" FROM "students" WHERE "coorte" = ? ORDER BY "cognome" ASC`, sql)
	assert.Equal(t, []any{"2022/23"}, params)
}

func TestCompile_Conjunction(t *testing.T) {
	sql, params, err := Compile(Descriptor{
		Table: "students",
		Filter: And{Predicates: []Predicate{
			Equals{Column: "gruppo", Value: record.Int(3)},
			Equals{Column: "coorte", Value: record.Text("2024/25")},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "students" WHERE "gruppo" = ? AND "coorte" = ?`, sql)
	assert.Equal(t, []any{int64(3), "2024/25"}, params)
}

func TestCompile_NullEquality(t *testing.T) {
	// NULL never compares equal with =; unset fields must match via IS NULL.
	sql, params, err := Compile(Descriptor{
		Table:  "attendance",
		Filter: Equals{Column: "20240315", Value: record.Null{}},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "attendance" WHERE "20240315" IS NULL`, sql)
	assert.Empty(t, params)
}

func TestCompile_EmptyAnd(t *testing.T) {
	sql, _, err := Compile(Descriptor{
		Table:  "dates",
		Filter: And{},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "dates" WHERE 1 = 1`, sql)
}

func TestCompile_BoolParam(t *testing.T) {
	_, params, err := Compile(Descriptor{
		Table:  "attendance",
		Filter: Equals{Column: "20240315", Value: record.Bool(true)},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{true}, params)
}

func TestCompile_NoTable(t *testing.T) {
	_, _, err := Compile(Descriptor{})
	assert.Error(t, err)
}

func TestCompile_InvalidIdentifier(t *testing.T) {
	_, _, err := Compile(Descriptor{Table: `stu"dents`})
	assert.Error(t, err)

	_, _, err = Compile(Descriptor{Table: "students", Columns: []string{`x" --`}})
	assert.Error(t, err)
}

func TestCompilePredicate_Nil(t *testing.T) {
	sql, params, err := CompilePredicate(nil)
	require.NoError(t, err)
	assert.Equal(t, "1 = 1", sql)
	assert.Empty(t, params)
}

func TestCompilePredicate_PointerNodes(t *testing.T) {
	sql, params, err := CompilePredicate(&And{Predicates: []Predicate{
		&Equals{Column: "matricola", Value: record.Int(12345)},
	}})
	require.NoError(t, err)
	assert.Equal(t, `"matricola" = ?`, sql)
	assert.Equal(t, []any{int64(12345)}, params)
}

// Golden coverage of the full descriptor surface: the compiled text is the
// contract the store executes, so it is pinned byte-for-byte.
func TestCompile_Golden(t *testing.T) {
	cases := []struct {
		name string
		d    Descriptor
	}{
		{
			name: "roster_by_surname",
			d:    Descriptor{Table: "students", OrderBy: "cognome"},
		},
		{
			name: "cohort_projection",
			d: Descriptor{
				Table:   "students",
				Columns: []string{"cognome", "nome", "mail"},
				Filter:  Equals{Column: "coorte", Value: record.Text("2022/23")},
				OrderBy: "cognome",
			},
		},
		{
			name: "group_filter",
			d: Descriptor{
				Table:   "students",
				Columns: []string{"cognome", "nome", "mail", "gruppo"},
				Filter:  Equals{Column: "gruppo", Value: record.Int(4)},
				OrderBy: "cognome",
			},
		},
		{
			name: "dedup_scan",
			d: Descriptor{
				Table: "students",
				Filter: And{Predicates: []Predicate{
					Equals{Column: "cognome", Value: record.Text("Rossi")},
					Equals{Column: "nome", Value: record.Text("Mario")},
					Equals{Column: "matricola", Value: record.Int(123456)},
					Equals{Column: "mail", Value: record.Text("mario.rossi@example.edu")},
					Equals{Column: "coorte", Value: record.Text("2024/25")},
				}},
			},
		},
		{
			name: "unrecorded_session",
			d: Descriptor{
				Table:  "attendance",
				Filter: Equals{Column: "20240315", Value: record.Null{}},
			},
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sql, _, err := Compile(tc.d)
			require.NoError(t, err)
			g.Assert(t, tc.name, []byte(sql))
		})
	}
}
