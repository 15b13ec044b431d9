// Package exams applies the conflict-resolution policy for incoming exam
// results.
//
// Each student has at most one row in the exam store; per exam type the row
// carries a single (mark, date) pair. A later submission normally replaces
// the stored pair, but a resubmission dated after an already-recorded,
// not-worse mark is rejected unless forced: a partial resubmission must not
// silently downgrade a better result.
package exams

import (
	"context"
	"fmt"

	"labreg/internal/catalog"
	"labreg/internal/marks"
	"labreg/internal/query"
	"labreg/internal/record"
	"labreg/internal/store"
)

// Type identifies which exam a submission refers to.
type Type string

const (
	// Written is the written exam: mark plus date.
	Written Type = "written"
	// Reports is the lab-report evaluation: compacted per-experience grades
	// plus date.
	Reports Type = "reports"
	// Oral is the final oral: its mark is the overall result, dated by
	// oral_date.
	Oral Type = "oral"
)

// markColumns returns the (mark, date) column pair for an exam type.
func (t Type) markColumns() (markCol, dateCol string, err error) {
	switch t {
	case Written:
		return "written_mark", "written_date", nil
	case Reports:
		return "reports_mark", "reports_date", nil
	case Oral:
		return "result", "oral_date", nil
	default:
		return "", "", fmt.Errorf("unknown exam type %q", string(t))
	}
}

// Submission is one incoming exam result for a student.
// Date is a yyyymmdd integer. For written and oral submissions Mark holds
// the mark token; for reports submissions Report holds the per-experience
// grades and Mark is ignored. Force bypasses the regression guard.
type Submission struct {
	Matricola int64
	Type      Type
	Date      int64
	Mark      string
	Report    map[string]string
	Force     bool
}

// Outcome reports what a submission did. A rejected submission is not an
// error: the operation completes and the caller surfaces the warning.
type Outcome struct {
	Applied  bool
	Rejected bool
	// PrevMark and PrevDate describe the stored pair the guard protected
	// (set only when Rejected).
	PrevMark string
	PrevDate int64
}

// Reconciler applies submissions to an exam store.
type Reconciler struct {
	store *store.Store
}

// New returns a Reconciler over the given store.
func New(s *store.Store) *Reconciler {
	return &Reconciler{store: s}
}

// Submit applies one submission to the exam store.
//
// The student's row is lazily created the first time the student is
// referenced. The stored (mark, date) pair for the submission's exam type is
// then reconciled: if the stored date is strictly older than the submission
// date and the stored mark's normalized value is not worse than the new
// one, the update is rejected unless forced. Same-date submissions are
// treated as resubmissions and always overwrite, as does any improvement.
func (r *Reconciler) Submit(ctx context.Context, sub Submission) (Outcome, error) {
	markCol, dateCol, err := sub.Type.markColumns()
	if err != nil {
		return Outcome{}, fmt.Errorf("submit exam: %w", err)
	}

	newMark, newScore, err := incomingMark(sub)
	if err != nil {
		return Outcome{}, fmt.Errorf("submit exam: %w", err)
	}

	matricola := record.Int(sub.Matricola)
	exists, err := r.store.RowExists(ctx, catalog.TableExams, catalog.MatricolaColumn, matricola)
	if err != nil {
		return Outcome{}, fmt.Errorf("submit exam: %w", err)
	}
	if !exists {
		if err := r.store.AddBareRow(ctx, catalog.TableExams, catalog.MatricolaColumn, matricola); err != nil {
			return Outcome{}, fmt.Errorf("submit exam: %w", err)
		}
	}

	prevMark, prevDate, found, err := r.current(ctx, sub.Matricola, markCol, dateCol)
	if err != nil {
		return Outcome{}, fmt.Errorf("submit exam: %w", err)
	}

	if found && !sub.Force && prevDate < sub.Date {
		prevScore, err := storedScore(sub.Type, prevMark)
		if err != nil {
			return Outcome{}, fmt.Errorf("submit exam: stored mark: %w", err)
		}
		if prevScore >= newScore {
			return Outcome{Rejected: true, PrevMark: prevMark, PrevDate: prevDate}, nil
		}
	}

	filter := query.Equals{Column: catalog.MatricolaColumn, Value: matricola}
	if _, err := r.store.UpdateField(ctx, catalog.TableExams, markCol, record.Text(newMark), filter); err != nil {
		return Outcome{}, fmt.Errorf("submit exam: %w", err)
	}
	if _, err := r.store.UpdateField(ctx, catalog.TableExams, dateCol, record.Int(sub.Date), filter); err != nil {
		return Outcome{}, fmt.Errorf("submit exam: %w", err)
	}
	return Outcome{Applied: true}, nil
}

// current reads the stored (mark, date) pair for one student and exam type.
// found is false when either field is still unset.
func (r *Reconciler) current(ctx context.Context, matricola int64, markCol, dateCol string) (mark string, date int64, found bool, err error) {
	d, err := r.store.BuildQuery(ctx, catalog.TableExams,
		[]string{markCol, dateCol},
		query.Equals{Column: catalog.MatricolaColumn, Value: record.Int(matricola)},
		"",
	)
	if err != nil {
		return "", 0, false, err
	}
	result, err := r.store.ExecuteQuery(ctx, d)
	if err != nil {
		return "", 0, false, err
	}
	if len(result.Rows) == 0 {
		return "", 0, false, nil
	}

	row := result.Rows[0]
	storedMark, markSet := row[0].(record.Text)
	storedDate, dateSet := row[1].(record.Int)
	if !markSet || !dateSet {
		return "", 0, false, nil
	}
	return string(storedMark), int64(storedDate), true, nil
}

// incomingMark returns the token to store and its normalized ordering key.
func incomingMark(sub Submission) (string, int, error) {
	if sub.Type == Reports {
		return marks.CompactReport(sub.Report), marks.NormalizeReport(sub.Report), nil
	}
	score, err := marks.Normalize(sub.Mark)
	if err != nil {
		return "", 0, err
	}
	return sub.Mark, score, nil
}

// storedScore normalizes a stored mark token for comparison.
func storedScore(t Type, stored string) (int, error) {
	if t == Reports {
		grades, err := marks.ParseReport(stored)
		if err != nil {
			return 0, err
		}
		return marks.NormalizeReport(grades), nil
	}
	return marks.Normalize(stored)
}
