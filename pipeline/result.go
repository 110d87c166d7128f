package pipeline

import "github.com/aqua777/go-ragpipe/schema"

// Outcome classifies how a stage finished.
type Outcome string

const (
	// OutcomeSucceeded means the stage produced its full output.
	OutcomeSucceeded Outcome = "succeeded"
	// OutcomeDegraded means the stage caught a failure, produced fallback
	// output, and the pipeline continues.
	OutcomeDegraded Outcome = "degraded"
)

// StageResult is the explicit outcome of one pipeline stage. Modeling the
// degrade-and-continue policy as a value keeps the transition table
// testable instead of hiding it in error suppression.
type StageResult struct {
	Outcome Outcome
	Status  schema.Status
	Err     error
}

func succeeded(status schema.Status) StageResult {
	return StageResult{Outcome: OutcomeSucceeded, Status: status}
}

func degraded(status schema.Status, err error) StageResult {
	return StageResult{Outcome: OutcomeDegraded, Status: status, Err: err}
}

// apply records the result on the request state.
func (r StageResult) apply(state *schema.RequestState) {
	state.Status = r.Status
	if r.Err != nil {
		state.Err = r.Err.Error()
	}
}
