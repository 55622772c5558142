// Package fixture loads and validates the harness input fixtures.
//
// A fixture directory holds two JSON files keyed by integer scenario id:
//
//	input_data.json     - the ordered scenario set (id, endpoint, description)
//	reference_data.json - the expected outcome for each scenario
//
// Both files are validated against embedded CUE schemas before decoding,
// and the two id sets must match exactly. Any fault here is a
// configuration error: the harness must not run against fixtures it
// cannot fully trust.
package fixture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Fixture file names, fixed by the pipeline contract.
const (
	ScenarioFile    = "input_data.json"
	ExpectationFile = "reference_data.json"
)

// Classification values an expectation may require.
const (
	ClassSuccess = "success"
	ClassFailure = "failure"
)

// Text match modes for expectations.
const (
	MatchExact    = "exact"
	MatchContains = "contains"
)

// Scenario is one fixed test case: an endpoint exercised once per run.
// Scenarios are immutable after loading; fixture order determines result
// order and report indexing.
type Scenario struct {
	ID          int    `json:"id"`
	Endpoint    string `json:"endpoint"`
	Description string `json:"description"`
}

// Expectation is the fixture-defined correct outcome for a scenario.
//
// Classification must match exactly. Text, when non-empty, is compared
// against the actual raw output under the given match mode ("exact" by
// default, "contains" for substring containment). Comparison happens on
// NFC-normalized strings; see the harness package.
type Expectation struct {
	ID             int    `json:"id"`
	Classification string `json:"classification"`
	Text           string `json:"text,omitempty"`
	Match          string `json:"match,omitempty"`
}

// Set is a validated, paired fixture set.
//
// Scenarios preserves fixture-file order. Expectations is keyed by
// scenario id; pairing guarantees every scenario id has exactly one
// expectation and vice versa.
type Set struct {
	Scenarios    []Scenario
	Expectations map[int]Expectation
}

// Expectation returns the expectation paired with the given scenario id.
// The id is guaranteed present for any Set produced by LoadDir.
func (s *Set) Expectation(id int) Expectation {
	return s.Expectations[id]
}

// ValidationError describes a single fixture validation failure.
type ValidationError struct {
	File    string `json:"file"`
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) String() string {
	var b strings.Builder
	b.WriteString(e.File)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " (%s)", e.Path)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

// ValidationErrors aggregates all validation failures for a fixture pair.
// It distinguishes malformed-but-readable fixtures from load faults
// (missing or unreadable files), which are reported as plain errors.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 1 {
		return errs[0].String()
	}
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.String()
	}
	return fmt.Sprintf("%d fixture validation errors: %s", len(errs), strings.Join(parts, "; "))
}

// LoadDir reads, validates, and pairs the fixture files in dir.
//
// Returns a plain error if either file cannot be read, or a
// ValidationErrors value if the files are readable but invalid
// (schema violations, duplicate ids, mismatched id sets). A non-nil
// Set is returned only when everything checks out.
func LoadDir(dir string) (*Set, error) {
	scenarioData, err := os.ReadFile(filepath.Join(dir, ScenarioFile))
	if err != nil {
		return nil, fmt.Errorf("read scenario fixture: %w", err)
	}
	expectationData, err := os.ReadFile(filepath.Join(dir, ExpectationFile))
	if err != nil {
		return nil, fmt.Errorf("read expectation fixture: %w", err)
	}
	return Load(scenarioData, expectationData)
}

// Load validates and pairs raw fixture bytes. Split out from LoadDir so
// tests can exercise validation without touching the filesystem.
func Load(scenarioData, expectationData []byte) (*Set, error) {
	var errs ValidationErrors
	errs = append(errs, validateSchema(ScenarioFile, scenarioData, scenarioDef)...)
	errs = append(errs, validateSchema(ExpectationFile, expectationData, expectationDef)...)
	if len(errs) > 0 {
		return nil, errs
	}

	scenarios, err := decodeScenarios(scenarioData)
	if err != nil {
		return nil, ValidationErrors{{File: ScenarioFile, Message: err.Error()}}
	}
	expectations, err := decodeExpectations(expectationData)
	if err != nil {
		return nil, ValidationErrors{{File: ExpectationFile, Message: err.Error()}}
	}

	if errs := pair(scenarios, expectations); len(errs) > 0 {
		return nil, errs
	}

	byID := make(map[int]Expectation, len(expectations))
	for _, exp := range expectations {
		if exp.Match == "" {
			exp.Match = MatchExact
		}
		byID[exp.ID] = exp
	}

	return &Set{Scenarios: scenarios, Expectations: byID}, nil
}

func decodeScenarios(data []byte) ([]Scenario, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var scenarios []Scenario
	if err := dec.Decode(&scenarios); err != nil {
		return nil, fmt.Errorf("decode scenarios: %w", err)
	}
	return scenarios, nil
}

func decodeExpectations(data []byte) ([]Expectation, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var expectations []Expectation
	if err := dec.Decode(&expectations); err != nil {
		return nil, fmt.Errorf("decode expectations: %w", err)
	}
	return expectations, nil
}

// pair checks that the scenario and expectation id sets are identical
// and free of duplicates. Every discrepancy is reported, not just the
// first, so a broken fixture pair can be fixed in one pass.
func pair(scenarios []Scenario, expectations []Expectation) ValidationErrors {
	var errs ValidationErrors

	scenarioIDs := make(map[int]bool, len(scenarios))
	for _, sc := range scenarios {
		if scenarioIDs[sc.ID] {
			errs = append(errs, ValidationError{
				File:    ScenarioFile,
				Message: fmt.Sprintf("duplicate scenario id %d", sc.ID),
			})
		}
		scenarioIDs[sc.ID] = true
	}

	expectationIDs := make(map[int]bool, len(expectations))
	for _, exp := range expectations {
		if expectationIDs[exp.ID] {
			errs = append(errs, ValidationError{
				File:    ExpectationFile,
				Message: fmt.Sprintf("duplicate expectation id %d", exp.ID),
			})
		}
		expectationIDs[exp.ID] = true
	}

	for _, id := range sortedIDs(scenarioIDs) {
		if !expectationIDs[id] {
			errs = append(errs, ValidationError{
				File:    ExpectationFile,
				Message: fmt.Sprintf("no expectation for scenario id %d", id),
			})
		}
	}
	for _, id := range sortedIDs(expectationIDs) {
		if !scenarioIDs[id] {
			errs = append(errs, ValidationError{
				File:    ScenarioFile,
				Message: fmt.Sprintf("no scenario for expectation id %d", id),
			})
		}
	}

	return errs
}

func sortedIDs(set map[int]bool) []int {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
