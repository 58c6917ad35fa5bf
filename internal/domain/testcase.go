package domain

// TestCase is one example fixture. Index is the 1-based ordinal within its part
// and is derived from list position, never stored.
type TestCase struct {
	Part     Part   `json:"part"`
	Index    int    `json:"-"`
	Input    string `json:"input"`
	Expected string `json:"expected"`
}

// CaseResult is the outcome of running one TestCase.
type CaseResult struct {
	Case   TestCase
	Output string
	Passed bool
	Diff   string
	Err    error
}

// TestReport aggregates a TestRunner pass.
type TestReport struct {
	Key     PuzzleKey
	Results []CaseResult
	Passed  int
	Failed  int
}
