// Package attendance derives per-student attendance fractions from the
// boolean per-session presence table and the term calendar.
package attendance

import (
	"fmt"

	"labreg/internal/catalog"
	"labreg/internal/record"
	"labreg/internal/store"
)

// DefaultMaxHours is the nominal total course hours, capping the
// valid-hours denominator.
const DefaultMaxHours = 56

// Calculator computes attendance fractions. MaxHours caps the valid-hours
// denominator; the zero value is replaced by DefaultMaxHours.
type Calculator struct {
	MaxHours int64
}

// Fractions derives a matricola→fraction map from the attendance rows and
// the ordered session-date→hours calendar. Every fraction is in [0, 1].
//
// The valid-hours denominator is computed once, from the first processed
// row's non-null date entries (capped at MaxHours), and reused for every
// student in the batch. With uniform null coverage across rows this equals
// the hours recorded so far; rows with differing coverage share the first
// row's denominator regardless.
func (c Calculator) Fractions(result *store.ResultSet, sessions []record.SessionDate) (map[int64]float64, error) {
	maxHours := c.MaxHours
	if maxHours == 0 {
		maxHours = DefaultMaxHours
	}

	hours := make(map[string]int64, len(sessions))
	for _, s := range sessions {
		hours[s.Date] = s.Hours
	}

	matricolaIdx := -1
	for i, col := range result.Columns {
		if col == catalog.MatricolaColumn {
			matricolaIdx = i
			break
		}
	}
	if matricolaIdx < 0 {
		return nil, fmt.Errorf("attendance fractions: result has no %s column", catalog.MatricolaColumn)
	}

	fractions := make(map[int64]float64, len(result.Rows))
	if len(result.Rows) == 0 {
		return fractions, nil
	}

	var validHours int64
	for i, col := range result.Columns {
		if i == matricolaIdx {
			continue
		}
		if _, isNull := result.Rows[0][i].(record.Null); isNull {
			continue
		}
		validHours += hours[col]
	}
	if validHours > maxHours {
		validHours = maxHours
	}

	for _, row := range result.Rows {
		id, ok := row[matricolaIdx].(record.Int)
		if !ok {
			return nil, fmt.Errorf("attendance fractions: row has no valid matricola")
		}

		var attended int64
		for i, col := range result.Columns {
			if i == matricolaIdx {
				continue
			}
			if present, ok := row[i].(record.Bool); ok && bool(present) {
				attended += hours[col]
			}
		}

		fraction := 0.0
		if validHours > 0 {
			fraction = float64(attended) / float64(validHours)
		}
		if fraction > 1.0 {
			fraction = 1.0
		}
		fractions[int64(id)] = fraction
	}
	return fractions, nil
}
