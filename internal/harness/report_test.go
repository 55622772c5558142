package harness

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greetcheck/internal/fixture"
	"greetcheck/internal/subject"
)

func TestMarshalBinary(t *testing.T) {
	report := &RunReport{Results: []ScenarioResult{
		{ID: 1, Score: 1},
		{ID: 2, Score: 0},
		{ID: 3, Score: 1},
	}}

	assert.Equal(t, "1\n0\n1\n", string(MarshalBinary(report)))
}

func TestMarshalBinaryEmpty(t *testing.T) {
	assert.Empty(t, MarshalBinary(&RunReport{}))
}

func TestMarshalDetailedShape(t *testing.T) {
	report := &RunReport{
		RunID:     "run-1",
		StartedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Results: []ScenarioResult{{
			ID:             1,
			Description:    "d",
			Endpoint:       "https://e",
			Classification: Success,
			RawOutput:      subject.Greeting,
			Expected:       Expected{Classification: Success},
			Score:          1,
		}},
		Passed: 1,
		Total:  1,
		Pass:   true,
	}

	data, err := MarshalDetailed(report)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), data[len(data)-1])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])
	assert.Equal(t, "2024-03-01T12:00:00Z", decoded["started_at"])
	assert.Equal(t, true, decoded["pass"])

	results, ok := decoded["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.Equal(t, float64(1), first["score"])
	assert.NotContains(t, first, "error", "empty error must be omitted")
}

func TestWriteArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "test_results")
	report := &RunReport{
		RunID:     "run-1",
		StartedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Results:   []ScenarioResult{{ID: 1, Score: 1}, {ID: 2, Score: 0}},
		Passed:    1,
		Failed:    1,
		Total:     2,
	}

	require.NoError(t, WriteArtifacts(dir, report))

	binary, err := os.ReadFile(filepath.Join(dir, BinaryArtifact))
	require.NoError(t, err)
	assert.Equal(t, "1\n0\n", string(binary))

	detailed, err := os.ReadFile(filepath.Join(dir, DetailedArtifact))
	require.NoError(t, err)
	want, err := MarshalDetailed(report)
	require.NoError(t, err)
	assert.Equal(t, want, detailed)
}

func TestWriteArtifactsOverwritesPreviousRun(t *testing.T) {
	dir := t.TempDir()

	first := &RunReport{RunID: "run-1", Results: []ScenarioResult{{ID: 1, Score: 0}}, Failed: 1, Total: 1}
	require.NoError(t, WriteArtifacts(dir, first))

	second := &RunReport{RunID: "run-2", Results: []ScenarioResult{{ID: 1, Score: 1}}, Passed: 1, Total: 1, Pass: true}
	require.NoError(t, WriteArtifacts(dir, second))

	binary, err := os.ReadFile(filepath.Join(dir, BinaryArtifact))
	require.NoError(t, err)
	assert.Equal(t, "1\n", string(binary))

	detailed, err := os.ReadFile(filepath.Join(dir, DetailedArtifact))
	require.NoError(t, err)
	assert.Contains(t, string(detailed), `"run_id": "run-2"`)
}

func TestArtifactsDeterministicAcrossRuns(t *testing.T) {
	subj := stubSubject{
		responses: map[string]subject.Response{
			"https://app.example.com/health": {StatusCode: 200, Text: subject.Greeting},
		},
	}
	set := makeSet(t,
		[]fixture.Scenario{{ID: 1, Endpoint: "https://app.example.com/health", Description: "health"}},
		[]fixture.Expectation{{ID: 1, Classification: fixture.ClassSuccess}},
	)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	render := func() ([]byte, []byte) {
		report := Run(context.Background(), set, Options{
			Subject: subj,
			RunIDs:  NewFixedGenerator("run-fixed"),
			Clock:   FixedClock{T: at},
		})
		detailed, err := MarshalDetailed(report)
		require.NoError(t, err)
		return MarshalBinary(report), detailed
	}

	binary1, detailed1 := render()
	binary2, detailed2 := render()
	assert.Equal(t, binary1, binary2)
	assert.Equal(t, detailed1, detailed2)
}
