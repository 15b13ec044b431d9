package cli

import (
	"github.com/spf13/cobra"

	"labreg/internal/catalog"
	"labreg/internal/groups"
	"labreg/internal/ingest"
	"labreg/internal/query"
	"labreg/internal/record"
	"labreg/internal/render"
	"labreg/internal/store"
)

// NewGroupsCommand creates the lab-group command group.
func NewGroupsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Assign and print lab groups",
	}
	cmd.AddCommand(newGroupsAssignCommand(opts))
	cmd.AddCommand(newGroupsPrintCommand(opts))
	return cmd
}

func newGroupsAssignCommand(opts *RootOptions) *cobra.Command {
	var jsonPath string

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Apply group assignments from a JSON file to the roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newRunEnv(cmd, opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			assignments, err := ingest.LoadGroupAssignments(jsonPath)
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitFailure, "groups assign", err)
			}

			s, err := store.OpenExisting(env.Course.StorePath(catalog.TableStudents))
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitCommandError, "groups assign", err)
			}
			defer s.Close()

			assigned, err := ingest.AssignGroups(ctx, s, assignments)
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitFailure, "groups assign", err)
			}
			env.Formatter.VerboseLog("trace %s: assigned groups for %d students", env.TraceID, assigned)

			return respondWithTable(ctx, env, s, catalog.TableStudents,
				[]string{"cognome", "nome", "mail", "gruppo"}, "cognome",
				map[string]any{"assigned": assigned})
		},
	}

	cmd.Flags().StringVar(&jsonPath, "json", "", "JSON group assignment file (required)")
	cmd.MarkFlagRequired("json")
	return cmd
}

func newGroupsPrintCommand(opts *RootOptions) *cobra.Command {
	var groupNumber int64

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print the group report (or a single group)",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newRunEnv(cmd, opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			s, err := store.OpenExisting(env.Course.StorePath(catalog.TableStudents))
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitCommandError, "groups print", err)
			}
			defer s.Close()

			var filter query.Predicate
			if groupNumber > 0 {
				filter = query.Equals{Column: "gruppo", Value: record.Int(groupNumber)}
			}
			d, err := s.BuildQuery(ctx, catalog.TableStudents,
				[]string{"cognome", "nome", catalog.MatricolaColumn, "mail", "gruppo"},
				filter, "cognome")
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitFailure, "groups print", err)
			}
			result, err := s.ExecuteQuery(ctx, d)
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitFailure, "groups print", err)
			}

			students := make([]record.Student, 0, len(result.Rows))
			for _, row := range result.Rows {
				st, err := record.StudentFromRow(result.Columns, row)
				if err != nil {
					env.Formatter.Error(env.TraceID, err)
					return WrapExitError(ExitFailure, "groups print", err)
				}
				students = append(students, st)
			}

			byGroup := groups.ByGroup(students)
			if env.Formatter.Format == "json" {
				return env.Formatter.Success(env.TraceID, byGroup)
			}
			return env.Formatter.Success(env.TraceID, render.GroupsReport(byGroup))
		},
	}

	cmd.Flags().Int64Var(&groupNumber, "group", 0, "print only this group number")
	return cmd
}
