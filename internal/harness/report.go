package harness

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Artifact file names, fixed by the pipeline contract.
const (
	BinaryArtifact   = "binary_results.txt"
	DetailedArtifact = "detailed_results.json"
)

// WriteArtifacts persists the two report artifacts to dir, creating the
// directory if needed and overwriting previous artifacts.
//
//   - binary_results.txt: one 0/1 per line, scenario order.
//   - detailed_results.json: the full RunReport.
//
// Against a deterministic subject and injected run id/clock, both
// artifacts are byte-identical across runs.
func WriteArtifacts(dir string, report *RunReport) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, BinaryArtifact), MarshalBinary(report), 0644); err != nil {
		return fmt.Errorf("write %s: %w", BinaryArtifact, err)
	}

	detailed, err := MarshalDetailed(report)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, DetailedArtifact), detailed, 0644); err != nil {
		return fmt.Errorf("write %s: %w", DetailedArtifact, err)
	}

	return nil
}

// MarshalBinary renders the newline-separated binary score sequence.
func MarshalBinary(report *RunReport) []byte {
	var b strings.Builder
	for _, score := range report.BinaryScores() {
		fmt.Fprintf(&b, "%d\n", score)
	}
	return []byte(b.String())
}

// MarshalDetailed renders the detailed JSON artifact with stable
// two-space indentation and a trailing newline.
func MarshalDetailed(report *RunReport) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal detailed report: %w", err)
	}
	return append(data, '\n'), nil
}
