package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"labreg/internal/catalog"
	"labreg/internal/exams"
	"labreg/internal/ingest"
	"labreg/internal/store"
)

// NewExamsCommand creates the exam-results command group.
func NewExamsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exams",
		Short: "Create, update and report the exam-results store",
	}
	cmd.AddCommand(newExamsInitCommand(opts))
	cmd.AddCommand(newExamsUpdateCommand(opts))
	cmd.AddCommand(newExamsReportCommand(opts))
	return cmd
}

func newExamsInitCommand(opts *RootOptions) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the exam-results store",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newRunEnv(cmd, opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			s, err := store.Open(env.Course.StorePath(catalog.TableExams))
			if err != nil {
				return WrapExitError(ExitCommandError, "exams init", err)
			}
			defer s.Close()

			if err := ingest.InitExams(ctx, s, overwrite); err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitFailure, "exams init", err)
			}
			return env.Formatter.Success(env.TraceID, "exam store ready")
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "recreate the exams table")
	return cmd
}

func newExamsUpdateCommand(opts *RootOptions) *cobra.Command {
	var (
		jsonPaths []string
		examType  string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Apply exam results from JSON files",
		Long: "Routes each result through the reconciler: a submission dated after " +
			"an already-recorded, not-worse mark is rejected unless --force is set.",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newRunEnv(cmd, opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			t := exams.Type(examType)
			switch t {
			case exams.Written, exams.Reports, exams.Oral:
			default:
				return WrapExitError(ExitCommandError, "exams update",
					fmt.Errorf("unknown exam type %q (written|reports|oral)", examType))
			}

			s, err := store.Open(env.Course.StorePath(catalog.TableExams))
			if err != nil {
				return WrapExitError(ExitCommandError, "exams update", err)
			}
			defer s.Close()

			if err := ingest.InitExams(ctx, s, false); err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitFailure, "exams update", err)
			}

			applied := 0
			for _, path := range jsonPaths {
				subs, err := ingest.LoadSubmissions(path, t, force)
				if err != nil {
					env.Formatter.Error(env.TraceID, err)
					return WrapExitError(ExitFailure, "exams update", err)
				}
				report, err := ingest.ApplySubmissions(ctx, s, subs)
				if err != nil {
					env.Formatter.Error(env.TraceID, err)
					return WrapExitError(ExitFailure, "exams update", err)
				}
				applied += report.Applied
				for _, rej := range report.Rejected {
					env.Formatter.Warn("matricola %d: %s mark at %d not better than recorded, discarded (use --force to overwrite)",
						rej.Matricola, string(rej.Type), rej.Date)
				}
			}
			env.Formatter.VerboseLog("trace %s: applied %d %s results", env.TraceID, applied, examType)

			return respondWithTable(ctx, env, s, catalog.TableExams, nil, catalog.MatricolaColumn,
				map[string]any{"applied": applied, "type": examType})
		},
	}

	cmd.Flags().StringSliceVar(&jsonPaths, "json", nil, "JSON exam result files (required)")
	cmd.Flags().StringVar(&examType, "type", string(exams.Written), "exam type (written|reports|oral)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite recorded marks even when not better")
	cmd.MarkFlagRequired("json")
	return cmd
}

func newExamsReportCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the exam-results table",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newRunEnv(cmd, opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			s, err := store.OpenExisting(env.Course.StorePath(catalog.TableExams))
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitCommandError, "exams report", err)
			}
			defer s.Close()

			return respondWithTable(ctx, env, s, catalog.TableExams, nil, catalog.MatricolaColumn, nil)
		},
	}
	return cmd
}
