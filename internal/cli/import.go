package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"labreg/internal/catalog"
	"labreg/internal/ingest"
	"labreg/internal/render"
	"labreg/internal/store"
)

// NewImportCommand creates the roster import command.
func NewImportCommand(opts *RootOptions) *cobra.Command {
	var (
		rosterPath string
		cohort     string
		overwrite  bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a cohort roster into the students store",
		Long: "Reads a JSON roster, validates it, and inserts the students into the " +
			"students store. Already-present students (group ignored) are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newRunEnv(cmd, opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			label := cohort
			if label == "" {
				label = env.Course.Cohort
			}
			if label == "" {
				return WrapExitError(ExitCommandError, "import", fmt.Errorf("no cohort label (use --cohort or the config file)"))
			}

			students, err := ingest.LoadRoster(rosterPath, label)
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitFailure, "import", err)
			}

			s, err := store.Open(env.Course.StorePath(catalog.TableStudents))
			if err != nil {
				return WrapExitError(ExitCommandError, "import", err)
			}
			defer s.Close()

			report, err := ingest.ImportRoster(ctx, s, students, overwrite)
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitFailure, "import", err)
			}
			if report.Skipped > 0 {
				env.Formatter.Warn("%d students already present, skipped", report.Skipped)
			}
			env.Formatter.VerboseLog("trace %s: added %d students from cohort %s", env.TraceID, report.Added, label)

			return respondWithTable(ctx, env, s, catalog.TableStudents, nil, "cognome", map[string]any{
				"added":   report.Added,
				"skipped": report.Skipped,
				"cohort":  label,
			})
		},
	}

	cmd.Flags().StringVar(&rosterPath, "roster", "", "JSON roster file (required)")
	cmd.Flags().StringVar(&cohort, "cohort", "", "cohort label (defaults to the config file's)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "recreate the students table before importing")
	cmd.MarkFlagRequired("roster")

	return cmd
}

// respondWithTable queries a table and emits it: in text mode as a grid
// table, in JSON mode as the given payload plus the row count.
func respondWithTable(ctx context.Context, env *runEnv, s *store.Store, table string, columns []string, orderBy string, payload map[string]any) error {
	d, err := s.BuildQuery(ctx, table, columns, nil, orderBy)
	if err != nil {
		env.Formatter.Error(env.TraceID, err)
		return WrapExitError(ExitFailure, table, err)
	}
	result, err := s.ExecuteQuery(ctx, d)
	if err != nil {
		env.Formatter.Error(env.TraceID, err)
		return WrapExitError(ExitFailure, table, err)
	}

	if env.Formatter.Format == "json" {
		if payload == nil {
			payload = map[string]any{}
		}
		payload["rows"] = len(result.Rows)
		return env.Formatter.Success(env.TraceID, payload)
	}
	return env.Formatter.Success(env.TraceID, render.ResultTable(result))
}
