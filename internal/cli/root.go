// Package cli implements the labreg command line: batch macros over the
// per-course record stores (roster import, group assignment, attendance and
// exam updates, reports).
package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"labreg/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the labreg CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "labreg",
		Short: "labreg - lab course register",
		Long:  "Manages per-course student records, attendance and exam results in small per-dataset stores, and renders them into printable reports.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "course configuration file (yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewGroupsCommand(opts))
	cmd.AddCommand(NewAttendanceCommand(opts))
	cmd.AddCommand(NewExamsCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		return GetExitCode(err)
	}
	return ExitSuccess
}

// runEnv is the per-invocation environment: resolved configuration, output
// formatter and a trace ID correlating verbose logs with the response.
type runEnv struct {
	Course    config.Course
	Formatter *OutputFormatter
	TraceID   string
}

// newRunEnv resolves global flags into a run environment.
func newRunEnv(cmd *cobra.Command, opts *RootOptions) (*runEnv, error) {
	course := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "load configuration", err)
		}
		course = loaded
	}

	env := &runEnv{
		Course: course,
		Formatter: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: os.Stderr,
			Verbose:   opts.Verbose,
		},
		TraceID: uuid.NewString(),
	}
	env.Formatter.VerboseLog("trace %s: data dir %s", env.TraceID, course.DataDir)
	return env, nil
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
