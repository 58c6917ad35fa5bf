// Package submission decides whether an answer needs to reach the puzzle site
// and folds the classified response back into local state.
package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/infrastructure/cache"
	"github.com/doeshing/aocenv/internal/infrastructure/classifier"
	"github.com/doeshing/aocenv/internal/ports"
)

// Engine submits answers at most once per distinct (puzzle, answer).
type Engine struct {
	Cache      ports.CacheStore
	Progress   ports.ProgressRepository
	Remote     ports.PuzzleSite
	Classifier ports.ResponseClassifier
	// Archiver is optional; it runs after a Correct answer when ArchiveOnCorrect is set.
	Archiver         ports.Archiver
	ArchiveOnCorrect bool
	Clock            ports.Clock
	Logger           ports.Logger
	// NewID overrides record ID generation in tests.
	NewID func() string
}

// Submit runs the submission policy for one answer.
func (e *Engine) Submit(ctx context.Context, key domain.PuzzleKey, answer string) (domain.SubmissionOutcome, error) {
	answer = strings.TrimSpace(answer)
	outcome := domain.SubmissionOutcome{Key: key, Answer: answer}

	if err := domain.ValidatePuzzleDate(key.Year, key.Day, e.now()); err != nil {
		return outcome, err
	}
	if !key.Part.Valid() {
		return outcome, fmt.Errorf("part must be 1 or 2, got %d", key.Part)
	}
	if answer == "" {
		return outcome, domain.ErrInvalidAnswer
	}

	// Read as late as possible so a concurrent submission is seen.
	log, err := e.loadLog(key)
	if err != nil {
		return outcome, err
	}
	if cached, ok := e.fromLog(log, outcome); ok {
		return cached, nil
	}

	e.Logger.Info("submitting answer", map[string]interface{}{"puzzle": key.String(), "answer": answer})
	response, err := e.Remote.SubmitAnswer(ctx, key.Year, key.Day, key.Part, answer)
	if err != nil {
		return outcome, fmt.Errorf("submit %s: %w", key, err)
	}

	outcome.Classification = e.Classifier.Classify(response)
	outcome.Message = response
	e.Logger.Debug("classified response", map[string]interface{}{"puzzle": key.String(), "classification": string(outcome.Classification)})

	switch outcome.Classification {
	case domain.ClassificationCorrect:
		return e.recordCorrect(ctx, log, outcome)
	case domain.ClassificationIncorrect:
		if err := e.appendRecord(log, outcome); err != nil {
			return outcome, err
		}
	case domain.ClassificationTooRecent:
		if wait, ok := classifier.ParseWait(response); ok {
			outcome.Wait = wait
		}
	case domain.ClassificationAlreadyAnswered:
		if err := e.markAlreadyAnswered(key); err != nil {
			return outcome, err
		}
	default:
		e.Logger.Warn("unrecognized submission response", map[string]interface{}{"puzzle": key.String(), "response": response})
	}
	return outcome, nil
}

// History returns the persisted records for key.
func (e *Engine) History(key domain.PuzzleKey) ([]domain.SubmissionRecord, error) {
	log, err := e.loadLog(key)
	if err != nil {
		return nil, err
	}
	return log.Records, nil
}

func (e *Engine) fromLog(log domain.SubmissionLog, outcome domain.SubmissionOutcome) (domain.SubmissionOutcome, bool) {
	if rec, ok := log.Correct(); ok {
		outcome.Classification = domain.ClassificationCorrect
		outcome.Cached = true
		outcome.Answer = rec.Answer
		outcome.Message = rec.Response
		if err := e.markSolved(outcome.Key, domain.SourceSubmission); err != nil {
			e.Logger.Warn("could not mark cached correct answer solved", map[string]interface{}{"puzzle": outcome.Key.String(), "error": err.Error()})
		}
		return outcome, true
	}
	if rec, ok := log.Incorrect(outcome.Answer); ok {
		outcome.Classification = domain.ClassificationIncorrect
		outcome.Cached = true
		outcome.Message = rec.Response
		return outcome, true
	}
	return outcome, false
}

func (e *Engine) recordCorrect(ctx context.Context, log domain.SubmissionLog, outcome domain.SubmissionOutcome) (domain.SubmissionOutcome, error) {
	key := outcome.Key
	if err := e.appendRecord(log, outcome); err != nil {
		return outcome, err
	}
	answerKey := domain.CacheKey{Year: key.Year, Day: key.Day, Part: key.Part, Kind: domain.KindAnswer}
	if err := e.Cache.Put(answerKey, outcome.Answer); err != nil {
		return outcome, fmt.Errorf("cache answer: %w", err)
	}
	if err := e.markSolved(key, domain.SourceSubmission); err != nil {
		return outcome, err
	}

	if e.ArchiveOnCorrect && e.Archiver != nil && ctx.Err() == nil {
		path, err := e.Archiver.Archive(key)
		if err != nil {
			e.Logger.Warn("archiving solution failed", map[string]interface{}{"puzzle": key.String(), "error": err.Error()})
		} else {
			outcome.Archived = path
		}
	}
	return outcome, nil
}

func (e *Engine) appendRecord(log domain.SubmissionLog, outcome domain.SubmissionOutcome) error {
	key := outcome.Key
	log.Records = append(log.Records, domain.SubmissionRecord{
		ID:             e.newID(),
		Year:           key.Year,
		Day:            key.Day,
		Part:           key.Part,
		Answer:         outcome.Answer,
		Classification: outcome.Classification,
		Response:       outcome.Message,
		SubmittedAt:    e.now().UTC(),
	})
	if err := e.Cache.Put(submissionKey(key), log); err != nil {
		return fmt.Errorf("cache submission: %w", err)
	}
	return nil
}

func (e *Engine) markSolved(key domain.PuzzleKey, source domain.SolveSource) error {
	at := e.now().UTC()
	err := e.Progress.Update(func(p domain.Progress) (bool, error) {
		return p.MarkSolved(key, at, source), nil
	})
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	return nil
}

// markAlreadyAnswered records a remote solve. The site sends the same text
// when part 2 is still locked, so part 2 only counts once part 1 is solved.
func (e *Engine) markAlreadyAnswered(key domain.PuzzleKey) error {
	at := e.now().UTC()
	err := e.Progress.Update(func(p domain.Progress) (bool, error) {
		if key.Part == domain.PartTwo {
			first := domain.PuzzleKey{Year: key.Year, Day: key.Day, Part: domain.PartOne}
			if !p.Get(first).Solved {
				e.Logger.Warn("wrong level response with part 1 unsolved, progress unchanged", map[string]interface{}{"puzzle": key.String()})
				return false, nil
			}
		}
		return p.MarkSolved(key, at, domain.SourceRemote), nil
	})
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	return nil
}

func (e *Engine) loadLog(key domain.PuzzleKey) (domain.SubmissionLog, error) {
	log, _, err := cache.Load[domain.SubmissionLog](e.Cache, submissionKey(key), e.Logger)
	if err != nil && !errors.Is(err, domain.ErrCacheCorruption) {
		return domain.SubmissionLog{}, fmt.Errorf("read submissions: %w", err)
	}
	return log, nil
}

func submissionKey(key domain.PuzzleKey) domain.CacheKey {
	return domain.CacheKey{Year: key.Year, Day: key.Day, Part: key.Part, Kind: domain.KindSubmission}
}

func (e *Engine) newID() string {
	if e.NewID != nil {
		return e.NewID()
	}
	return uuid.NewString()
}

func (e *Engine) now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock.Now()
}
