// Package reconcile merges remote star snapshots into local progress.
package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/ports"
)

// Service reconciles progress against the puzzle site. It only ever adds stars.
type Service struct {
	Progress    ports.ProgressRepository
	Remote      ports.PuzzleSite
	Clock       ports.Clock
	Logger      ports.Logger
	Concurrency int
}

// Reconcile marks every star in snapshot solved and returns those that were new.
// The progress document is written at most once.
func (s *Service) Reconcile(snapshot domain.StarGrid) (domain.ProgressDiff, error) {
	var diff domain.ProgressDiff
	at := s.now().UTC()
	err := s.Progress.Update(func(p domain.Progress) (bool, error) {
		diff = domain.ProgressDiff{}
		for _, keys := range snapshot {
			for _, key := range keys {
				if !key.Part.Valid() {
					continue
				}
				if p.MarkSolved(key, at, domain.SourceRemote) {
					diff.NewlySolved = append(diff.NewlySolved, key)
				}
			}
		}
		return len(diff.NewlySolved) > 0, nil
	})
	if err != nil {
		return domain.ProgressDiff{}, fmt.Errorf("reconcile progress: %w", err)
	}
	domain.SortKeys(diff.NewlySolved)
	s.Logger.Info("progress reconciled", map[string]interface{}{"newly_solved": len(diff.NewlySolved)})
	return diff, nil
}

// Sync fetches the calendar of each year concurrently and reconciles once.
// Any fetch failure aborts the sync before anything is written.
func (s *Service) Sync(ctx context.Context, years []int) (domain.ProgressDiff, error) {
	if len(years) == 0 {
		years = s.EventYears()
	}

	var (
		mu       sync.Mutex
		snapshot = domain.StarGrid{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit())
	for _, year := range years {
		g.Go(func() error {
			keys, err := s.Remote.FetchYearOverview(gctx, year)
			if err != nil {
				return fmt.Errorf("fetch %d overview: %w", year, err)
			}
			s.Logger.Debug("fetched year overview", map[string]interface{}{"year": year, "stars": len(keys)})
			mu.Lock()
			snapshot[year] = keys
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.ProgressDiff{}, err
	}
	return s.Reconcile(snapshot)
}

// EventYears lists every year with at least one unlocked puzzle.
func (s *Service) EventYears() []int {
	latest := domain.LatestUnlocked(s.now()).Year
	years := make([]int, 0, latest-domain.FirstEventYear+1)
	for y := domain.FirstEventYear; y <= latest; y++ {
		years = append(years, y)
	}
	return years
}

func (s *Service) limit() int {
	if s.Concurrency <= 0 {
		return domain.DefaultSyncParallel
	}
	return s.Concurrency
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}
