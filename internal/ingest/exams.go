package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"labreg/internal/catalog"
	"labreg/internal/exams"
	"labreg/internal/store"
)

type examEntry struct {
	Matricola int64             `json:"matricola"`
	Date      int64             `json:"date"`
	Mark      string            `json:"mark,omitempty"`
	Report    map[string]string `json:"report,omitempty"`
}

// LoadSubmissions reads exam results of one type: a JSON array of
// {matricola, date, mark} entries, or {matricola, date, report} for the
// reports type. The exam type and force flag apply to the whole file,
// matching how result files arrive (one file per sitting).
func LoadSubmissions(path string, examType exams.Type, force bool) ([]exams.Submission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load exam results: %w", err)
	}
	var entries []examEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("load exam results %s: %w", path, err)
	}

	subs := make([]exams.Submission, len(entries))
	for i, e := range entries {
		if e.Date == 0 {
			return nil, fmt.Errorf("load exam results %s: entry %d has no date", path, i)
		}
		subs[i] = exams.Submission{
			Matricola: e.Matricola,
			Type:      examType,
			Date:      e.Date,
			Mark:      e.Mark,
			Report:    e.Report,
			Force:     force,
		}
	}
	return subs, nil
}

// InitExams creates the exam-results table.
func InitExams(ctx context.Context, s *store.Store, overwrite bool) error {
	if err := ensureTable(ctx, s, catalog.Exams(), overwrite); err != nil {
		return fmt.Errorf("init exams: %w", err)
	}
	return nil
}

// ExamReport summarizes a batch of submissions: how many were applied and
// which were rejected by the regression guard. Rejections are warnings, not
// failures.
type ExamReport struct {
	Applied  int
	Rejected []exams.Submission
	Outcomes []exams.Outcome
}

// ApplySubmissions routes submissions through the reconciler in input order.
func ApplySubmissions(ctx context.Context, s *store.Store, subs []exams.Submission) (ExamReport, error) {
	var report ExamReport
	rec := exams.New(s)
	for _, sub := range subs {
		outcome, err := rec.Submit(ctx, sub)
		if err != nil {
			return report, fmt.Errorf("apply exam results: matricola %d: %w", sub.Matricola, err)
		}
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Applied {
			report.Applied++
		}
		if outcome.Rejected {
			report.Rejected = append(report.Rejected, sub)
		}
	}
	return report, nil
}
