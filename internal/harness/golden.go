package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// AssertReportGolden compares the detailed rendering of a report
// against a golden file in testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Reports passed here must come from a deterministic run (stub subject,
// FixedGenerator, FixedClock), otherwise the comparison is meaningless.
func AssertReportGolden(t *testing.T, name string, report *RunReport) error {
	t.Helper()

	data, err := MarshalDetailed(report)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
