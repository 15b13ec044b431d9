// Package marks converts domain mark representations to and from a
// total-ordered integer scale.
//
// Written and oral marks are numeric strings out of 30, with three special
// tokens: "30L" (30 e lode, the highest distinction), "A" (absent) and "R"
// (refused). Report marks are per-experience letter grades summed over a
// fixed 16-step scale.
package marks

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Ordering keys for the non-numeric written/oral tokens.
const (
	// ScoreAbsent orders an absence below every real mark.
	ScoreAbsent = -1
	// ScoreRefused orders a refused mark below an absence.
	ScoreRefused = -2
	// ScoreLode is 30 e lode, one above a plain 30.
	ScoreLode = 31
)

// MalformedMarkError indicates a mark token that is neither numeric nor one
// of the recognized special tokens.
type MalformedMarkError struct {
	Mark string
}

func (e *MalformedMarkError) Error() string {
	return fmt.Sprintf("malformed mark %q", e.Mark)
}

// IsMalformedMark reports whether err is a malformed-mark error.
// Uses errors.As to handle wrapped errors.
func IsMalformedMark(err error) bool {
	var me *MalformedMarkError
	return errors.As(err, &me)
}

// Normalize converts a written or oral mark token to its integer ordering
// key. Numeric strings parse directly; "A" maps to -1, "R" to -2, "30L" to
// 31. Any other non-numeric token is a MalformedMarkError.
func Normalize(mark string) (int, error) {
	switch mark {
	case "A":
		return ScoreAbsent, nil
	case "R":
		return ScoreRefused, nil
	case "30L":
		return ScoreLode, nil
	}
	n, err := strconv.Atoi(mark)
	if err != nil {
		return 0, &MalformedMarkError{Mark: mark}
	}
	return n, nil
}

// reportScale is the 16-step letter scale for per-experience report grades,
// descending by one from A+ = 31. Tokens outside the scale score 0.
var reportScale = map[string]int{
	"A+": 31, "A": 30, "A-": 29,
	"B+": 28, "B": 27, "B-": 26,
	"C+": 25, "C": 24, "C-": 23,
	"D+": 22, "D": 21, "D-": 20,
	"E+": 19, "E": 18, "E-": 17,
	"F": 16,
}

// GradeScore returns the integer value of one report letter grade.
// Unknown tokens are worth 0.
func GradeScore(grade string) int {
	return reportScale[grade]
}

// NormalizeReport sums the grade scores of an experience→grade map,
// producing the integer ordering key for a reports mark.
func NormalizeReport(grades map[string]string) int {
	total := 0
	for _, g := range grades {
		total += GradeScore(g)
	}
	return total
}

// CompactReport serializes an experience→grade map into a single text field
// as space-separated experience:grade tokens. Experiences are sorted so the
// stored form is deterministic.
func CompactReport(grades map[string]string) string {
	experiences := make([]string, 0, len(grades))
	for exp := range grades {
		experiences = append(experiences, exp)
	}
	sort.Strings(experiences)

	tokens := make([]string, len(experiences))
	for i, exp := range experiences {
		tokens[i] = exp + ":" + grades[exp]
	}
	return strings.Join(tokens, " ")
}

// ParseReport inverts CompactReport. Tokens without a colon are rejected.
func ParseReport(compact string) (map[string]string, error) {
	grades := make(map[string]string)
	if strings.TrimSpace(compact) == "" {
		return grades, nil
	}
	for _, token := range strings.Fields(compact) {
		exp, grade, ok := strings.Cut(token, ":")
		if !ok || exp == "" {
			return nil, fmt.Errorf("malformed report token %q", token)
		}
		grades[exp] = grade
	}
	return grades, nil
}
