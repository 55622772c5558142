package harness

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"greetcheck/internal/fixture"
)

// score computes the binary score for a result against its expectation.
// Classification must match exactly; text is compared only when the
// expectation carries it.
func score(res *ScenarioResult, exp fixture.Expectation) int {
	if string(res.Classification) != exp.Classification {
		return 0
	}
	if exp.Text == "" {
		return 1
	}
	if matchText(res.RawOutput, exp.Text, exp.Match) {
		return 1
	}
	return 0
}

// matchText applies the text equivalence rule. Both sides are NFC
// normalized before comparison so visually identical strings with
// different Unicode compositions compare equal.
func matchText(actual, expected, mode string) bool {
	a := norm.NFC.String(actual)
	e := norm.NFC.String(expected)
	if mode == fixture.MatchContains {
		return strings.Contains(a, e)
	}
	return a == e
}
