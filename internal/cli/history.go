package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"greetcheck/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List or inspect recorded verification runs",
		Long: `Read the run-history database written by verify --db.

Without arguments, lists all recorded runs newest first. With a run id,
prints that run's full per-scenario results.

Examples:
  greetcheck history --db ./history.db
  greetcheck history --db ./history.db 0190c8a2-5d7e-7cc3-9a42-b1f0e6d2c4aa
  greetcheck history --db ./history.db --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runHistoryShow(opts, args[0], cmd)
			}
			return runHistoryList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to run-history SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistoryList(opts *HistoryOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open history database", err)
	}
	defer st.Close()

	summaries, err := st.ListRuns(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run history", err)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(summaries)
	}

	w := cmd.OutOrStdout()
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	for _, s := range summaries {
		banner := "PASS"
		if !s.Pass {
			banner = "FAIL"
		}
		fmt.Fprintf(w, "%s  %s  %d/%d passed  %s\n",
			s.ID, s.StartedAt.UTC().Format(time.RFC3339), s.Passed, s.Total, banner)
	}
	return nil
}

func runHistoryShow(opts *HistoryOptions, runID string, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open history database", err)
	}
	defer st.Close()

	report, err := st.ReadRun(cmd.Context(), runID)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			return WrapExitError(ExitCommandError, "unknown run id", err)
		}
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	if opts.Format == "json" {
		return encodeIndented(cmd, CLIResponse{Status: "ok", Data: report})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Run %s (%s)\n", report.RunID, report.StartedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "Summary: %d passed, %d failed, %d total\n\n", report.Passed, report.Failed, report.Total)
	for _, res := range report.Results {
		status := "PASS"
		if res.Score == 0 {
			status = "FAIL"
		}
		fmt.Fprintf(w, "Test %d: %s [%s]\n", res.ID, res.Description, status)
		fmt.Fprintf(w, "  endpoint: %s\n", res.Endpoint)
		fmt.Fprintf(w, "  expected: %s\n", formatExpected(res))
		fmt.Fprintf(w, "  actual:   %s %q\n", res.Classification, res.RawOutput)
		if res.Error != "" {
			fmt.Fprintf(w, "  error:    %s\n", res.Error)
		}
	}
	return nil
}
