package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"greetcheck/internal/fixture"
)

func TestScoreClassificationMismatch(t *testing.T) {
	res := ScenarioResult{Classification: Failure, RawOutput: "Hello, CI/CD Pipeline!"}
	exp := fixture.Expectation{Classification: fixture.ClassSuccess, Text: "Hello, CI/CD Pipeline!", Match: fixture.MatchExact}

	// Text agreement never rescues a classification mismatch.
	assert.Equal(t, 0, score(&res, exp))
}

func TestScoreEmptyExpectedText(t *testing.T) {
	res := ScenarioResult{Classification: Failure, RawOutput: "anything at all"}
	exp := fixture.Expectation{Classification: fixture.ClassFailure, Match: fixture.MatchExact}

	assert.Equal(t, 1, score(&res, exp))
}

func TestMatchText(t *testing.T) {
	tests := []struct {
		name     string
		actual   string
		expected string
		mode     string
		want     bool
	}{
		{"exact equal", "Hello, CI/CD Pipeline!", "Hello, CI/CD Pipeline!", fixture.MatchExact, true},
		{"exact unequal", "Hello, CI/CD Pipeline!", "Hello", fixture.MatchExact, false},
		{"exact is case sensitive", "Hello", "hello", fixture.MatchExact, false},
		{"contains substring", "Hello, CI/CD Pipeline!", "CI/CD", fixture.MatchContains, true},
		{"contains missing substring", "Hello, CI/CD Pipeline!", "Goodbye", fixture.MatchContains, false},
		{"contains full string", "Hello", "Hello", fixture.MatchContains, true},
		{"unspecified mode falls back to exact", "Hello", "Hell", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchText(tt.actual, tt.expected, tt.mode))
		})
	}
}

func TestMatchTextNormalizesUnicode(t *testing.T) {
	// U+00E9 (precomposed) vs e + U+0301 (combining acute).
	composed := "café"
	decomposed := "café"

	assert.True(t, matchText(composed, decomposed, fixture.MatchExact))
	assert.True(t, matchText(decomposed, composed, fixture.MatchExact))
	assert.True(t, matchText("le "+composed+" ouvre", decomposed, fixture.MatchContains))
}
