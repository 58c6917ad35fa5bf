// Package testrun keeps example fixtures per puzzle and runs the solution
// against them. It has no remote collaborator and never touches the network.
package testrun

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/infrastructure/cache"
	"github.com/doeshing/aocenv/internal/ports"
)

// Service manages the test-set of a (year, day).
type Service struct {
	Cache  ports.CacheStore
	Runner ports.SolutionRunner
	Clock  ports.Clock
	Logger ports.Logger
}

// List returns the cases of (year, day) with their per-part indices filled in.
func (s *Service) List(year, day int) ([]domain.TestCase, error) {
	if err := s.validate(year, day); err != nil {
		return nil, err
	}
	return s.load(year, day)
}

// Add stores tc. Index 0 appends to its part; an occupied index fails with
// ErrDuplicateTestIndex and one past the next free slot with ErrNotFound.
func (s *Service) Add(year, day int, tc domain.TestCase) (domain.TestCase, error) {
	if err := s.validate(year, day); err != nil {
		return domain.TestCase{}, err
	}
	if !tc.Part.Valid() {
		return domain.TestCase{}, fmt.Errorf("part must be 1 or 2, got %d", tc.Part)
	}
	cases, err := s.load(year, day)
	if err != nil {
		return domain.TestCase{}, err
	}

	count := 0
	for _, c := range cases {
		if c.Part == tc.Part {
			count++
		}
	}
	switch {
	case tc.Index == 0:
		tc.Index = count + 1
	case tc.Index < 0 || tc.Index > count+1:
		return domain.TestCase{}, fmt.Errorf("%w: part %d has %d test cases, cannot add at %d", domain.ErrNotFound, tc.Part, count, tc.Index)
	case tc.Index <= count:
		return domain.TestCase{}, fmt.Errorf("%w: part %d case %d", domain.ErrDuplicateTestIndex, tc.Part, tc.Index)
	}

	cases = append(cases, tc)
	if err := s.save(year, day, cases); err != nil {
		return domain.TestCase{}, err
	}
	return tc, nil
}

// Delete removes case index of part. Later cases of the part shift down.
func (s *Service) Delete(year, day int, part domain.Part, index int) error {
	if err := s.validate(year, day); err != nil {
		return err
	}
	cases, err := s.load(year, day)
	if err != nil {
		return err
	}
	kept := cases[:0]
	removed := false
	for _, c := range cases {
		if c.Part == part && c.Index == index {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	if !removed {
		return fmt.Errorf("%w: part %d case %d", domain.ErrNotFound, part, index)
	}
	return s.save(year, day, kept)
}

// Run executes every case of key.Part, or of both parts for PartNone.
func (s *Service) Run(ctx context.Context, key domain.PuzzleKey) (domain.TestReport, error) {
	report := domain.TestReport{Key: key}
	cases, err := s.List(key.Year, key.Day)
	if err != nil {
		return report, err
	}

	for _, tc := range cases {
		if key.Part != domain.PartNone && tc.Part != key.Part {
			continue
		}
		result := s.runCase(ctx, key, tc)
		if result.Passed {
			report.Passed++
		} else {
			report.Failed++
		}
		report.Results = append(report.Results, result)
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
	}
	s.Logger.Debug("test run finished", map[string]interface{}{"puzzle": key.String(), "passed": report.Passed, "failed": report.Failed})
	return report, nil
}

func (s *Service) runCase(ctx context.Context, key domain.PuzzleKey, tc domain.TestCase) domain.CaseResult {
	result := domain.CaseResult{Case: tc}
	out, err := s.Runner.Run(ctx, domain.RunRequest{
		Key:   domain.PuzzleKey{Year: key.Year, Day: key.Day, Part: tc.Part},
		Mode:  domain.ModeTest,
		Input: tc.Input,
	})
	result.Output = out.Output
	if err != nil {
		result.Err = err
		return result
	}
	got := strings.TrimRight(out.Output, " \t\r\n")
	want := strings.TrimRight(tc.Expected, " \t\r\n")
	result.Passed = got == want
	if !result.Passed {
		result.Diff = cmp.Diff(want, got)
	}
	return result
}

func (s *Service) load(year, day int) ([]domain.TestCase, error) {
	cases, _, err := cache.Load[[]domain.TestCase](s.Cache, testSetKey(year, day), s.Logger)
	if err != nil {
		return nil, fmt.Errorf("read test-set: %w", err)
	}
	counters := map[domain.Part]int{}
	for i := range cases {
		counters[cases[i].Part]++
		cases[i].Index = counters[cases[i].Part]
	}
	return cases, nil
}

func (s *Service) save(year, day int, cases []domain.TestCase) error {
	if cases == nil {
		cases = []domain.TestCase{}
	}
	if err := s.Cache.Put(testSetKey(year, day), cases); err != nil {
		return fmt.Errorf("write test-set: %w", err)
	}
	return nil
}

func (s *Service) validate(year, day int) error {
	now := time.Now()
	if s.Clock != nil {
		now = s.Clock.Now()
	}
	return domain.ValidatePuzzleDate(year, day, now)
}

func testSetKey(year, day int) domain.CacheKey {
	return domain.CacheKey{Year: year, Day: day, Kind: domain.KindTestSet}
}
