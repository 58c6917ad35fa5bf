package domain

import "time"

// RunRequest describes one invocation of the user's solution.
type RunRequest struct {
	Key   PuzzleKey
	Mode  RunMode
	Input string
}

// RunResult is what the solution produced.
type RunResult struct {
	Output string
	Stderr string
	// Elapsed is the solution-reported timed region when present, else wall time.
	Elapsed  time.Duration
	Reported bool
	ExitCode int
}
