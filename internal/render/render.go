// Package render turns query results and aggregate maps into printable
// grid tables. It consumes (rows, column metadata) tuples and performs no
// store writes.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"labreg/internal/groups"
	"labreg/internal/record"
	"labreg/internal/store"
)

// gridTable builds the shared table shape: normal border, one cell of
// padding, plain text.
func gridTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...)
	return t.Render()
}

// ResultTable renders a query result set as a grid table, one column per
// result column in result order. Null values render as empty cells.
func ResultTable(result *store.ResultSet) string {
	rows := make([][]string, len(result.Rows))
	for i, rec := range result.Rows {
		cells := make([]string, len(rec))
		for j, v := range rec {
			cells[j] = record.String(v)
		}
		rows[i] = cells
	}
	return gridTable(result.Columns, rows)
}

// GroupsReport renders one grid table per lab group, headed by the group
// number, in group order.
func GroupsReport(gs []groups.Group) string {
	var b strings.Builder
	for i, g := range gs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Gruppo %d\n", g.Number)

		rows := make([][]string, len(g.Members))
		for j, m := range g.Members {
			rows[j] = []string{m.Surname, m.Name, m.Mail, fmt.Sprintf("%d", m.Group)}
		}
		b.WriteString(gridTable([]string{"cognome", "nome", "mail", "gruppo"}, rows))
		b.WriteString("\n")
	}
	return b.String()
}

// AttendanceReport renders the matricola→fraction map as a grid table
// ordered by matricola, fractions formatted to three decimals.
func AttendanceReport(fractions map[int64]float64) string {
	ids := make([]int64, 0, len(fractions))
	for id := range fractions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rows := make([][]string, len(ids))
	for i, id := range ids {
		rows[i] = []string{fmt.Sprintf("%d", id), fmt.Sprintf("%.3f", fractions[id])}
	}
	return gridTable([]string{"matricola", "frequenza"}, rows)
}
