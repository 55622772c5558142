// Package harness executes fixture scenarios against a subject and
// scores the outcomes.
//
// One run is strictly sequential: scenarios execute one after another
// in fixture order, each bounded by a fixed timeout. A scenario whose
// subject call fails at the network level is an expected, classifiable
// outcome (FAILURE), never a harness fault; the run always produces
// exactly one result per scenario.
//
// # Scoring
//
// Each result is scored 0 or 1 against its expectation:
//
//   - the classification (success/failure) must match exactly, and
//   - when the expectation carries text, the raw output must match it
//     under the configured rule: NFC-normalized equality for "exact",
//     NFC-normalized substring containment for "contains".
//
// The run passes iff every score is 1.
//
// # Deterministic runs
//
// Run ids and timestamps are injected (RunIDGenerator, Clock) so tests
// can produce byte-identical report artifacts across runs against a
// deterministic subject stub.
package harness
