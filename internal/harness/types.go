package harness

import "time"

// Classification is the binary outcome class of a subject call.
type Classification string

const (
	Success Classification = "success"
	Failure Classification = "failure"
)

// Expected is the expectation a result was scored against, echoed into
// the detailed report so a reader never needs the fixture files to
// interpret it.
type Expected struct {
	Classification Classification `json:"classification"`
	Text           string         `json:"text,omitempty"`
	Match          string         `json:"match,omitempty"`
}

// ScenarioResult is the outcome of one scenario execution.
type ScenarioResult struct {
	ID             int            `json:"id"`
	Description    string         `json:"description"`
	Endpoint       string         `json:"endpoint"`
	Classification Classification `json:"classification"`
	RawOutput      string         `json:"raw_output"`
	Expected       Expected       `json:"expected"`
	Score          int            `json:"score"`
	Error          string         `json:"error,omitempty"`
}

// RunReport is the ordered outcome of one harness invocation.
// Results appear in fixture order. Pass is true iff every score is 1.
type RunReport struct {
	RunID     string           `json:"run_id"`
	StartedAt time.Time        `json:"started_at"`
	Results   []ScenarioResult `json:"results"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
	Pass      bool             `json:"pass"`
}

// BinaryScores returns the ordered 0/1 score sequence, one entry per
// scenario in fixture order.
func (r *RunReport) BinaryScores() []int {
	scores := make([]int, len(r.Results))
	for i, res := range r.Results {
		scores[i] = res.Score
	}
	return scores
}

// add appends a result and updates the tallies.
func (r *RunReport) add(res ScenarioResult) {
	r.Results = append(r.Results, res)
	r.Total++
	if res.Score == 1 {
		r.Passed++
	} else {
		r.Failed++
		r.Pass = false
	}
}
