package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"labreg/internal/catalog"
	"labreg/internal/query"
	"labreg/internal/record"
	"labreg/internal/render"
	"labreg/internal/store"
)

// NewSearchCommand creates the student search command.
func NewSearchCommand(opts *RootOptions) *cobra.Command {
	var (
		surname   string
		matricola int64
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Look up students by surname or matricola",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newRunEnv(cmd, opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if surname == "" && matricola == 0 {
				return WrapExitError(ExitCommandError, "search",
					fmt.Errorf("give --surname or --matricola"))
			}

			s, err := store.OpenExisting(env.Course.StorePath(catalog.TableStudents))
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitCommandError, "search", err)
			}
			defer s.Close()

			var predicates []query.Predicate
			if surname != "" {
				predicates = append(predicates, query.Equals{Column: "cognome", Value: record.Text(surname)})
			}
			if matricola != 0 {
				predicates = append(predicates, query.Equals{Column: catalog.MatricolaColumn, Value: record.Int(matricola)})
			}

			d, err := s.BuildQuery(ctx, catalog.TableStudents, nil,
				query.And{Predicates: predicates}, "cognome")
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitFailure, "search", err)
			}
			result, err := s.ExecuteQuery(ctx, d)
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitFailure, "search", err)
			}
			env.Formatter.VerboseLog("trace %s: %d students matched", env.TraceID, len(result.Rows))

			if env.Formatter.Format == "json" {
				return env.Formatter.Success(env.TraceID, map[string]any{"matches": len(result.Rows)})
			}
			return env.Formatter.Success(env.TraceID, render.ResultTable(result))
		},
	}

	cmd.Flags().StringVar(&surname, "surname", "", "match on cognome")
	cmd.Flags().Int64Var(&matricola, "matricola", 0, "match on matricola")
	return cmd
}
