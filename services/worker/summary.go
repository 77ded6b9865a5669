package worker

// Outcome is the per-code result of a submit attempt
type Outcome string

const (
	// OutcomeAccepted means the catalog stored the code
	OutcomeAccepted Outcome = "accepted"
	// OutcomeDuplicate means the catalog rejected the code as already known
	OutcomeDuplicate Outcome = "duplicate-rejected"
	// OutcomeError means the submission failed for any other reason
	OutcomeError Outcome = "error"
	// OutcomeSkipped means no request was sent (dry run or recently submitted)
	OutcomeSkipped Outcome = "skipped"
)

// SubmissionResult records the outcome of one submit attempt
type SubmissionResult struct {
	Code    string
	Source  string
	Outcome Outcome
	Err     error
}

// SourceResult records one source's contribution to the run
type SourceResult struct {
	Name       string
	Candidates int
	Err        error
}

// RunSummary is the terminal artifact of a run. It is always produced for
// a completed run, even when every source failed or nothing new was found.
type RunSummary struct {
	KnownCodes    int
	Sources       []SourceResult
	FailedSources int
	Candidates    int
	NewCodes      int
	Accepted      int
	Duplicates    int
	Failed        int
	Skipped       int
	Results       []SubmissionResult
}
