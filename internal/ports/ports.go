// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The core services (context, submission, reconcile,
// testrun, performance) depend only on these interfaces, so the puzzle site, the
// solution process and the on-disk layout can each be swapped or stubbed.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., PuzzleSite, CacheStore)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"time"

	"github.com/doeshing/aocenv/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.aocenv/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// CacheStore is the single persistence path for puzzle artifacts.
// Get never performs I/O beyond the local store; Put is atomic.
type CacheStore interface {
	Get(key domain.CacheKey) (domain.CacheEntry, bool, error)
	Put(key domain.CacheKey, payload any) error
	Invalidate(key domain.CacheKey) error
}

// CacheRepository adds the inspection operations used by the cache command.
type CacheRepository interface {
	CacheStore
	Entries() ([]domain.CacheEntry, error)
	Clear() error
	Dir() string
}

// ContextRepository persists the active puzzle context.
type ContextRepository interface {
	Load() (domain.PuzzleContext, bool, error)
	Save(domain.PuzzleContext) error
	Remove() error
}

// ProgressRepository persists solved state. Update runs fn against a freshly
// read document and writes the result once, only if fn reports a change.
type ProgressRepository interface {
	Load() (domain.Progress, error)
	Update(fn func(domain.Progress) (bool, error)) error
}

// PuzzleSite is the remote collaborator. Implementations must return
// domain.ErrAuthentication and domain.ErrTransport for the matching failures.
type PuzzleSite interface {
	FetchText(ctx context.Context, year, day int) (string, error)
	FetchInput(ctx context.Context, year, day int) (string, error)
	SubmitAnswer(ctx context.Context, year, day int, part domain.Part, answer string) (string, error)
	FetchYearOverview(ctx context.Context, year int) ([]domain.PuzzleKey, error)
}

// ResponseClassifier maps raw submission responses to classifications.
type ResponseClassifier interface {
	Classify(response string) domain.Classification
}

// SolutionRunner executes the user's solution. The mode is explicit so the
// solution never consults process-wide state to decide where input came from.
type SolutionRunner interface {
	Run(ctx context.Context, req domain.RunRequest) (domain.RunResult, error)
}

// InputSource resolves puzzle input, read-through the cache.
type InputSource interface {
	Input(ctx context.Context, year, day int, refresh bool) (string, error)
}

// Archiver stores the solution source after a correct answer.
type Archiver interface {
	Archive(key domain.PuzzleKey) (string, error)
}

// SampleHistory is the optional append-only performance log.
type SampleHistory interface {
	Append(domain.PerformanceRecord) error
	Samples(year, day int, part domain.Part) ([]domain.PerformanceRecord, error)
	Close() error
}

// Clock abstracts wall time for the release rule.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the real wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
