package domain

import "time"

// Release rule constants for the puzzle calendar.
const (
	FirstEventYear = 2015
	FirstDay       = 1
	LastDay        = 25
)

// releaseZone is the fixed UTC-5 offset puzzles unlock in.
var releaseZone = time.FixedZone("UTC-5", -5*60*60)

// UnlockTime returns the instant the puzzle for (year, day) becomes available.
func UnlockTime(year, day int) time.Time {
	return time.Date(year, time.December, day, 0, 0, 0, 0, releaseZone)
}

// LatestUnlocked returns the most recent puzzle available at now.
func LatestUnlocked(now time.Time) PuzzleContext {
	local := now.In(releaseZone)
	year, month, day := local.Date()
	if month < time.December {
		return PuzzleContext{Year: year - 1, Day: LastDay}
	}
	if day > LastDay {
		return PuzzleContext{Year: year, Day: LastDay}
	}
	return PuzzleContext{Year: year, Day: day}
}

// ValidatePuzzleDate checks (year, day) against the release rule.
func ValidatePuzzleDate(year, day int, now time.Time) error {
	if day < FirstDay || day > LastDay {
		return &InvalidContextError{Year: year, Day: day, Reason: "day must be between 1 and 25"}
	}
	if year < FirstEventYear {
		return &InvalidContextError{Year: year, Day: day, Reason: "year must be 2015 or later"}
	}
	if now.Before(UnlockTime(year, day)) {
		return &InvalidContextError{Year: year, Day: day, Reason: "puzzle is not yet available"}
	}
	return nil
}
