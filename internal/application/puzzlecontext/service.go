// Package puzzlecontext owns the single active (year, day) the commands operate on.
package puzzlecontext

import (
	"errors"
	"fmt"
	"time"

	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/ports"
)

// Origin says where a resolved context came from.
type Origin string

const (
	OriginStored  Origin = "stored"
	OriginDefault Origin = "default"
)

// Resolved is a context together with its origin.
type Resolved struct {
	Context domain.PuzzleContext
	Origin  Origin
}

// Service validates and persists the active context.
type Service struct {
	Repo   ports.ContextRepository
	Clock  ports.Clock
	Logger ports.Logger
}

// Set validates (year, day) against the release rule and persists it.
// Nothing is written when validation fails.
func (s *Service) Set(year, day int) (domain.PuzzleContext, error) {
	if err := domain.ValidatePuzzleDate(year, day, s.now()); err != nil {
		return domain.PuzzleContext{}, err
	}
	ctx := domain.PuzzleContext{Year: year, Day: day}
	if err := s.Repo.Save(ctx); err != nil {
		return domain.PuzzleContext{}, fmt.Errorf("save context: %w", err)
	}
	s.Logger.Debug("context set", map[string]interface{}{"context": ctx.String()})
	return ctx, nil
}

// Get returns the stored context, or the latest unlocked puzzle when none is
// stored or the stored one is unusable.
func (s *Service) Get() (domain.PuzzleContext, error) {
	resolved, err := s.Show()
	return resolved.Context, err
}

// Show is Get plus the origin of the value.
func (s *Service) Show() (Resolved, error) {
	now := s.now()
	fallback := Resolved{Context: domain.LatestUnlocked(now), Origin: OriginDefault}

	ctx, ok, err := s.Repo.Load()
	if err != nil {
		if errors.Is(err, domain.ErrCacheCorruption) {
			s.Logger.Warn("stored context corrupted, using default", map[string]interface{}{"error": err.Error()})
			return fallback, nil
		}
		return Resolved{}, fmt.Errorf("load context: %w", err)
	}
	if !ok {
		return fallback, nil
	}
	if err := domain.ValidatePuzzleDate(ctx.Year, ctx.Day, now); err != nil {
		s.Logger.Warn("stored context invalid, using default", map[string]interface{}{"error": err.Error()})
		return fallback, nil
	}
	return Resolved{Context: ctx, Origin: OriginStored}, nil
}

// Clear removes the stored context.
func (s *Service) Clear() error {
	if err := s.Repo.Remove(); err != nil {
		return fmt.Errorf("clear context: %w", err)
	}
	return nil
}

// Key combines the active context with part into a validated PuzzleKey.
func (s *Service) Key(part domain.Part) (domain.PuzzleKey, error) {
	if !part.Valid() {
		return domain.PuzzleKey{}, fmt.Errorf("part must be 1 or 2, got %d", part)
	}
	ctx, err := s.Get()
	if err != nil {
		return domain.PuzzleKey{}, err
	}
	return domain.PuzzleKey{Year: ctx.Year, Day: ctx.Day, Part: part}, nil
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return ports.SystemClock.Now()
	}
	return s.Clock.Now()
}
