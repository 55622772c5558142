package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"greetcheck/internal/config"
	"greetcheck/internal/fixture"
	"greetcheck/internal/harness"
	"greetcheck/internal/store"
	"greetcheck/internal/subject"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	OutputDir  string
	Timeout    time.Duration
	Database   string
	ConfigFile string

	// Subject allows overriding the subject (for testing).
	// If nil, defaults to the HTTP greeting fetcher.
	Subject subject.Subject

	// RunIDs and Clock allow deterministic runs (for testing).
	RunIDs harness.RunIDGenerator
	Clock  harness.Clock
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <fixtures-dir>",
		Short: "Run the verification harness against the fixture set",
		Long: `Run every fixture scenario against the subject endpoint and gate on
the outcome.

The fixtures directory must contain input_data.json (scenarios) and
reference_data.json (expected outcomes), keyed by matching integer ids.
Each scenario is invoked once, sequentially, under a bounded timeout;
network failures are classified outcomes, never aborts. Two artifacts
are written to the output directory, overwriting previous runs:
binary_results.txt and detailed_results.json.

Exit codes:
  0 - All scenarios passed (pipeline can proceed)
  1 - One or more scenarios failed (pipeline must halt)
  2 - Configuration fault (missing/malformed fixtures, mismatched ids)

Examples:
  greetcheck verify ./test_data
  greetcheck verify ./test_data --out ./test_results --timeout 5s
  greetcheck verify ./test_data --db ./history.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.OutputDir, "out", config.DefaultOutputDir, "directory for report artifacts")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", harness.DefaultTimeout, "per-scenario subject timeout")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to run-history SQLite database (optional)")
	cmd.Flags().StringVar(&opts.ConfigFile, "config", "", "path to greetcheck.yaml (optional)")

	return cmd
}

func runVerify(opts *VerifyOptions, fixturesDir string, cmd *cobra.Command) error {
	logger := newLogger(cmd, opts.Verbose)

	if err := applyConfigFile(opts, cmd); err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	logger.Info("loading fixtures", "dir", fixturesDir)
	set, err := fixture.LoadDir(fixturesDir)
	if err != nil {
		// Every fixture fault is fatal before any artifact is written:
		// results against untrusted fixtures would be meaningless.
		return WrapExitError(ExitCommandError, "invalid fixtures", err)
	}
	logger.Info("fixtures loaded", "scenarios", len(set.Scenarios))

	subj := opts.Subject
	if subj == nil {
		subj = subject.NewGreetingFetcher(opts.Timeout)
	}

	report := harness.Run(cmd.Context(), set, harness.Options{
		Subject: subj,
		Timeout: opts.Timeout,
		RunIDs:  opts.RunIDs,
		Clock:   opts.Clock,
		Logger:  logger,
	})

	if err := harness.WriteArtifacts(opts.OutputDir, report); err != nil {
		return WrapExitError(ExitCommandError, "failed to write report artifacts", err)
	}
	logger.Info("artifacts written", "dir", opts.OutputDir)

	if opts.Database != "" {
		// History is an audit trail, not part of the gate contract:
		// a failure here must not flip the exit status.
		if err := recordRun(cmd, opts.Database, report); err != nil {
			logger.Warn("failed to record run history", "db", opts.Database, "error", err)
		}
	}

	if opts.Format == "json" {
		return outputVerifyJSON(cmd, report)
	}
	return outputVerifyText(cmd, report)
}

// applyConfigFile layers config-file values under flags: a flag set
// explicitly on the command line always wins.
func applyConfigFile(opts *VerifyOptions, cmd *cobra.Command) error {
	if opts.ConfigFile == "" {
		return nil
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("timeout") {
		opts.Timeout = time.Duration(cfg.Timeout)
	}
	if !cmd.Flags().Changed("out") {
		opts.OutputDir = cfg.OutputDir
	}
	if !cmd.Flags().Changed("db") && cfg.Database != "" {
		opts.Database = cfg.Database
	}

	return nil
}

func recordRun(cmd *cobra.Command, dbPath string, report *harness.RunReport) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.WriteRun(cmd.Context(), report)
}

// newLogger builds the command's slog logger: debug level under
// --verbose, always on stderr so JSON output stays clean.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// outputVerifyText prints per-scenario lines, the summary block, and
// the pass/fail banner.
func outputVerifyText(cmd *cobra.Command, report *harness.RunReport) error {
	w := cmd.OutOrStdout()

	for _, res := range report.Results {
		fmt.Fprintf(w, "Test %d: %s\n", res.ID, res.Description)
		fmt.Fprintf(w, "  endpoint: %s\n", res.Endpoint)
		fmt.Fprintf(w, "  expected: %s\n", formatExpected(res))
		fmt.Fprintf(w, "  actual:   %s %q\n", res.Classification, res.RawOutput)
		if res.Error != "" {
			fmt.Fprintf(w, "  error:    %s\n", res.Error)
		}
		if res.Score == 1 {
			fmt.Fprintf(w, "  result:   PASS (1)\n")
		} else {
			fmt.Fprintf(w, "  result:   FAIL (0)\n")
		}
		fmt.Fprintln(w)
	}

	rate := 0.0
	if report.Total > 0 {
		rate = float64(report.Passed) / float64(report.Total) * 100
	}
	fmt.Fprintf(w, "Summary: %d passed, %d failed, %d total (%.1f%%)\n", report.Passed, report.Failed, report.Total, rate)
	fmt.Fprintf(w, "Binary results: %v\n", report.BinaryScores())

	if report.Failed > 0 {
		fmt.Fprintf(w, "✗ %d scenario(s) failed - pipeline must halt\n", report.Failed)
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", report.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed - pipeline can proceed")
	return nil
}

// outputVerifyJSON emits the full report inside the standard envelope.
func outputVerifyJSON(cmd *cobra.Command, report *harness.RunReport) error {
	status := "ok"
	response := CLIResponse{Status: status, Data: report}

	if report.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_VERIFY_FAILED",
			Message: fmt.Sprintf("%d scenario(s) failed", report.Failed),
		}
	}

	if err := encodeIndented(cmd, response); err != nil {
		return err
	}

	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", report.Failed))
	}
	return nil
}

func formatExpected(res harness.ScenarioResult) string {
	if res.Expected.Text == "" {
		return string(res.Expected.Classification)
	}
	if res.Expected.Match == fixture.MatchContains {
		return fmt.Sprintf("%s containing %q", res.Expected.Classification, res.Expected.Text)
	}
	return fmt.Sprintf("%s %q", res.Expected.Classification, res.Expected.Text)
}
