package harness

import (
	"context"
	"io"
	"log/slog"
	"time"

	"greetcheck/internal/fixture"
	"greetcheck/internal/subject"
)

// DefaultTimeout bounds each subject call so the whole run terminates
// even if an endpoint never responds.
const DefaultTimeout = 5 * time.Second

// Options configures a run. The zero value is not usable: Subject is
// required. All other fields default sensibly.
type Options struct {
	Subject subject.Subject

	// Timeout bounds each individual subject call. Defaults to
	// DefaultTimeout when zero.
	Timeout time.Duration

	// RunIDs defaults to UUIDv7Generator.
	RunIDs RunIDGenerator

	// Clock defaults to SystemClock.
	Clock Clock

	// Logger defaults to a discard logger.
	Logger *slog.Logger
}

// Run executes every scenario in the set, strictly sequentially and in
// fixture order, and returns the completed report.
//
// Subject-level failures (timeout, DNS, connection refused, non-2xx)
// are classified and recorded, never propagated; the run always yields
// exactly one result per scenario. The ctx argument lets a caller abort
// the whole run; per-call timeouts are layered on top of it.
func Run(ctx context.Context, set *fixture.Set, opts Options) *RunReport {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runIDs := opts.RunIDs
	if runIDs == nil {
		runIDs = UUIDv7Generator{}
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	report := &RunReport{
		RunID:     runIDs.Generate(),
		StartedAt: clock.Now(),
		Results:   []ScenarioResult{},
		Pass:      true,
	}

	logger.Info("run started", "run_id", report.RunID, "scenarios", len(set.Scenarios), "timeout", timeout)

	for _, sc := range set.Scenarios {
		res := runScenario(ctx, sc, set.Expectation(sc.ID), opts.Subject, timeout)
		report.add(res)

		logger.Debug("scenario completed",
			"id", sc.ID,
			"endpoint", sc.Endpoint,
			"classification", res.Classification,
			"score", res.Score,
		)
	}

	logger.Info("run finished",
		"run_id", report.RunID,
		"passed", report.Passed,
		"failed", report.Failed,
		"pass", report.Pass,
	)

	return report
}

// runScenario invokes the subject once under the per-call timeout and
// classifies the outcome.
func runScenario(ctx context.Context, sc fixture.Scenario, exp fixture.Expectation, subj subject.Subject, timeout time.Duration) ScenarioResult {
	res := ScenarioResult{
		ID:          sc.ID,
		Description: sc.Description,
		Endpoint:    sc.Endpoint,
		Expected: Expected{
			Classification: Classification(exp.Classification),
			Text:           exp.Text,
			Match:          exp.Match,
		},
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	resp, err := subj.Fetch(callCtx, sc.Endpoint)
	cancel()

	switch {
	case err != nil:
		// Network-level failure: an expected, classifiable outcome.
		res.Classification = Failure
		res.RawOutput = subject.FailureText
		res.Error = err.Error()
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		res.Classification = Success
		res.RawOutput = resp.Text
	default:
		res.Classification = Failure
		res.RawOutput = resp.Text
	}

	res.Score = score(&res, exp)
	return res
}
