package cli

import (
	"github.com/spf13/cobra"

	"labreg/internal/attendance"
	"labreg/internal/catalog"
	"labreg/internal/ingest"
	"labreg/internal/render"
	"labreg/internal/store"
)

// NewAttendanceCommand creates the attendance command group.
func NewAttendanceCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Create, update and report the attendance store",
	}
	cmd.AddCommand(newAttendanceInitCommand(opts))
	cmd.AddCommand(newAttendanceUpdateCommand(opts))
	cmd.AddCommand(newAttendanceReportCommand(opts))
	return cmd
}

func newAttendanceInitCommand(opts *RootOptions) *cobra.Command {
	var (
		datesPath string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the calendar and attendance stores from a dates file",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newRunEnv(cmd, opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			dates, err := ingest.LoadDates(datesPath)
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitFailure, "attendance init", err)
			}

			datesStore, err := store.Open(env.Course.StorePath(catalog.TableDates))
			if err != nil {
				return WrapExitError(ExitCommandError, "attendance init", err)
			}
			defer datesStore.Close()

			report, err := ingest.ImportDates(ctx, datesStore, dates, overwrite)
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitFailure, "attendance init", err)
			}
			if report.Skipped > 0 {
				env.Formatter.Warn("%d session dates already present, skipped", report.Skipped)
			}

			attStore, err := store.Open(env.Course.StorePath(catalog.TableAttendance))
			if err != nil {
				return WrapExitError(ExitCommandError, "attendance init", err)
			}
			defer attStore.Close()

			if err := ingest.InitAttendance(ctx, attStore, dates, overwrite); err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitFailure, "attendance init", err)
			}
			env.Formatter.VerboseLog("trace %s: calendar has %d sessions", env.TraceID, len(dates))

			return respondWithTable(ctx, env, datesStore, catalog.TableDates, nil, "date",
				map[string]any{"sessions": len(dates), "added": report.Added, "skipped": report.Skipped})
		},
	}

	cmd.Flags().StringVar(&datesPath, "dates", "", "JSON session dates file (required)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "recreate the calendar and attendance tables")
	cmd.MarkFlagRequired("dates")
	return cmd
}

func newAttendanceUpdateCommand(opts *RootOptions) *cobra.Command {
	var jsonPaths []string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Record attendance entries from JSON files",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newRunEnv(cmd, opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			s, err := store.OpenExisting(env.Course.StorePath(catalog.TableAttendance))
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitCommandError, "attendance update", err)
			}
			defer s.Close()

			total := 0
			for _, path := range jsonPaths {
				entries, err := ingest.LoadAttendance(path)
				if err != nil {
					env.Formatter.Error(env.TraceID, err)
					return WrapExitError(ExitFailure, "attendance update", err)
				}
				if err := ingest.ApplyAttendance(ctx, s, entries); err != nil {
					env.Formatter.Error(env.TraceID, err)
					return WrapExitError(ExitFailure, "attendance update", err)
				}
				total += len(entries)
			}
			env.Formatter.VerboseLog("trace %s: applied %d attendance entries", env.TraceID, total)

			return respondWithTable(ctx, env, s, catalog.TableAttendance, nil, catalog.MatricolaColumn,
				map[string]any{"entries": total})
		},
	}

	cmd.Flags().StringSliceVar(&jsonPaths, "json", nil, "JSON attendance files (required)")
	cmd.MarkFlagRequired("json")
	return cmd
}

func newAttendanceReportCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute and print per-student attendance fractions",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newRunEnv(cmd, opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			datesStore, err := store.OpenExisting(env.Course.StorePath(catalog.TableDates))
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitCommandError, "attendance report", err)
			}
			defer datesStore.Close()

			sessions, err := ingest.QueryDates(ctx, datesStore)
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitFailure, "attendance report", err)
			}

			attStore, err := store.OpenExisting(env.Course.StorePath(catalog.TableAttendance))
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitCommandError, "attendance report", err)
			}
			defer attStore.Close()

			d, err := attStore.BuildQuery(ctx, catalog.TableAttendance, nil, nil, catalog.MatricolaColumn)
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitFailure, "attendance report", err)
			}
			result, err := attStore.ExecuteQuery(ctx, d)
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitFailure, "attendance report", err)
			}

			calc := attendance.Calculator{MaxHours: env.Course.MaxHours}
			fractions, err := calc.Fractions(result, sessions)
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitFailure, "attendance report", err)
			}

			if env.Formatter.Format == "json" {
				return env.Formatter.Success(env.TraceID, fractions)
			}
			return env.Formatter.Success(env.TraceID, render.AttendanceReport(fractions))
		},
	}
	return cmd
}
