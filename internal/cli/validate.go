package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"greetcheck/internal/fixture"
)

// ValidationResult holds fixture validation results.
type ValidationResult struct {
	Valid  bool                     `json:"valid"`
	Errors fixture.ValidationErrors `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <fixtures-dir>",
		Short: "Validate fixtures without running any scenario",
		Long: `Validate the fixture pair without invoking the subject.

Checks both files against their schemas (field types, classification
and match enums, closed structs) and verifies the scenario and
expectation id sets match exactly. Faster than verify for fixture
authoring feedback.

Exit codes:
  0 - Fixtures valid
  1 - Validation errors (malformed records, mismatched ids)
  2 - Load fault (directory or file missing, unreadable)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, fixturesDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	set, err := fixture.LoadDir(fixturesDir)
	if err != nil {
		var validationErrs fixture.ValidationErrors
		if errors.As(err, &validationErrs) {
			return outputValidationErrors(formatter, cmd, validationErrs)
		}
		// Not a validation result: the fixtures could not even be read.
		_ = formatter.Error("E_FIXTURE_LOAD", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load fixtures", err)
	}

	formatter.VerboseLog("Validated %d scenario(s) with matching expectations", len(set.Scenarios))

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}
	fmt.Fprintln(formatter.Writer, "✓ Fixtures valid")
	return nil
}

// outputValidationErrors reports validation failures and maps them to
// exit code 1.
func outputValidationErrors(formatter *OutputFormatter, cmd *cobra.Command, errs fixture.ValidationErrors) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    "E_FIXTURE_INVALID",
				Message: fmt.Sprintf("fixture validation failed with %d error(s)", len(errs)),
			},
		}
		if err := encodeIndented(cmd, response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("fixture validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Fixture validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, e := range errs {
		fmt.Fprintf(formatter.Writer, "  %s\n", e.String())
	}

	return NewExitError(ExitFailure, fmt.Sprintf("fixture validation failed with %d error(s)", len(errs)))
}
