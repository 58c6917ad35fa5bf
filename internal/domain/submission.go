package domain

import "time"

// Classification is the meaning assigned to a raw submission response.
type Classification string

const (
	ClassificationCorrect         Classification = "correct"
	ClassificationIncorrect       Classification = "incorrect"
	ClassificationTooRecent       Classification = "too_recent"
	ClassificationAlreadyAnswered Classification = "already_answered"
	ClassificationUnknown         Classification = "unknown"
)

// Terminal reports whether the classification may be persisted as a SubmissionRecord.
// Only Correct and Incorrect qualify; everything else is a per-call outcome.
func (c Classification) Terminal() bool {
	return c == ClassificationCorrect || c == ClassificationIncorrect
}

// ParseClassification maps a rule file value onto a Classification.
func ParseClassification(s string) (Classification, bool) {
	switch c := Classification(s); c {
	case ClassificationCorrect, ClassificationIncorrect, ClassificationTooRecent,
		ClassificationAlreadyAnswered, ClassificationUnknown:
		return c, true
	}
	return "", false
}

// SubmissionRecord is one persisted submission attempt.
type SubmissionRecord struct {
	ID             string         `json:"id"`
	Year           int            `json:"year"`
	Day            int            `json:"day"`
	Part           Part           `json:"part"`
	Answer         string         `json:"answer"`
	Classification Classification `json:"classification"`
	Response       string         `json:"response,omitempty"`
	SubmittedAt    time.Time      `json:"submittedAt"`
}

// SubmissionLog is the cached submission history for one (year, day, part).
type SubmissionLog struct {
	Records []SubmissionRecord `json:"records"`
}

// Correct returns the terminal Correct record, if any.
func (l SubmissionLog) Correct() (SubmissionRecord, bool) {
	for _, rec := range l.Records {
		if rec.Classification == ClassificationCorrect {
			return rec, true
		}
	}
	return SubmissionRecord{}, false
}

// Incorrect returns the Incorrect record for exactly this answer, if any.
func (l SubmissionLog) Incorrect(answer string) (SubmissionRecord, bool) {
	for _, rec := range l.Records {
		if rec.Classification == ClassificationIncorrect && rec.Answer == answer {
			return rec, true
		}
	}
	return SubmissionRecord{}, false
}

// SubmissionOutcome is what the submission engine reports back to the user.
type SubmissionOutcome struct {
	Key            PuzzleKey
	Answer         string
	Classification Classification
	// Cached is true when no network request was made.
	Cached bool
	// Message is the server response text (or the cached one).
	Message string
	// Wait is the cooldown parsed from a TooRecent response, zero if unknown.
	Wait time.Duration
	// Archived is the path the solution was archived to after a Correct answer.
	Archived string
}
