package groups

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labreg/internal/record"
)

func TestByGroup_BucketsAndOrders(t *testing.T) {
	students := []record.Student{
		{Surname: "Verdi", Name: "Luigi", Matricola: 3, Group: 2},
		{Surname: "Bianchi", Name: "Anna", Matricola: 1, Group: 1},
		{Surname: "Rossi", Name: "Mario", Matricola: 2, Group: 2},
		{Surname: "Esposito", Name: "Carla", Matricola: 4, Group: 1},
	}

	gs := ByGroup(students)
	require.Len(t, gs, 2)

	assert.Equal(t, int64(1), gs[0].Number)
	assert.Equal(t, "Bianchi", gs[0].Members[0].Surname)
	assert.Equal(t, "Esposito", gs[0].Members[1].Surname)

	assert.Equal(t, int64(2), gs[1].Number)
	assert.Equal(t, "Rossi", gs[1].Members[0].Surname)
	assert.Equal(t, "Verdi", gs[1].Members[1].Surname)
}

func TestByGroup_ExcludesUnassigned(t *testing.T) {
	students := []record.Student{
		{Surname: "Rossi", Matricola: 1, Group: 0},
		{Surname: "Bianchi", Matricola: 2, Group: 3},
	}

	gs := ByGroup(students)
	require.Len(t, gs, 1)
	assert.Equal(t, int64(3), gs[0].Number)
	require.Len(t, gs[0].Members, 1)
	assert.Equal(t, "Bianchi", gs[0].Members[0].Surname)
}

func TestByGroup_AccentedSurnames(t *testing.T) {
	// Italian collation: Nicolò sorts with Nicolo, not after Z.
	students := []record.Student{
		{Surname: "Zanetti", Matricola: 1, Group: 1},
		{Surname: "Nicolò", Matricola: 2, Group: 1},
		{Surname: "Abate", Matricola: 3, Group: 1},
	}

	gs := ByGroup(students)
	require.Len(t, gs, 1)
	surnames := []string{
		gs[0].Members[0].Surname,
		gs[0].Members[1].Surname,
		gs[0].Members[2].Surname,
	}
	assert.Equal(t, []string{"Abate", "Nicolò", "Zanetti"}, surnames)
}

func TestByGroup_TiebreakByNameThenMatricola(t *testing.T) {
	students := []record.Student{
		{Surname: "Rossi", Name: "Mario", Matricola: 9, Group: 1},
		{Surname: "Rossi", Name: "Anna", Matricola: 5, Group: 1},
		{Surname: "Rossi", Name: "Anna", Matricola: 2, Group: 1},
	}

	gs := ByGroup(students)
	require.Len(t, gs, 1)
	assert.Equal(t, int64(2), gs[0].Members[0].Matricola)
	assert.Equal(t, int64(5), gs[0].Members[1].Matricola)
	assert.Equal(t, "Mario", gs[0].Members[2].Name)
}

func TestByGroup_Empty(t *testing.T) {
	assert.Empty(t, ByGroup(nil))
}
