package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"labreg/internal/store"
)

// datasetTables maps dataset names to their primary table. Dataset and
// table names coincide by construction; the map guards against arbitrary
// file paths sneaking in through the flag.
var datasetTables = map[string]bool{
	"students":   true,
	"dates":      true,
	"attendance": true,
	"exams":      true,
}

// NewQueryCommand creates the ad hoc query command.
func NewQueryCommand(opts *RootOptions) *cobra.Command {
	var (
		dataset string
		columns []string
		orderBy string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a projection/order query against a dataset and print the rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newRunEnv(cmd, opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if !datasetTables[dataset] {
				return WrapExitError(ExitCommandError, "query",
					fmt.Errorf("unknown dataset %q (students|dates|attendance|exams)", dataset))
			}

			s, err := store.OpenExisting(env.Course.StorePath(dataset))
			if err != nil {
				env.Formatter.Error(env.TraceID, err)
				return WrapExitError(ExitCommandError, "query", err)
			}
			defer s.Close()

			return respondWithTable(ctx, env, s, dataset, columns, orderBy, nil)
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "students", "dataset to query (students|dates|attendance|exams)")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "columns to project (default: all, schema order)")
	cmd.Flags().StringVar(&orderBy, "order", "", "column to order by (ascending)")
	return cmd
}
