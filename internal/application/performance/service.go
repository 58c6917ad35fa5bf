// Package performance times solutions and aggregates the cached timings.
package performance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/ports"
)

// sample is the cached payload of one performance entry.
type sample struct {
	DurationMS float64   `json:"durationMs"`
	Timestamp  time.Time `json:"timestamp"`
}

// Service measures solutions. History is optional and only written when KeepHistory is set.
type Service struct {
	Cache       ports.CacheRepository
	Inputs      ports.InputSource
	Runner      ports.SolutionRunner
	History     ports.SampleHistory
	KeepHistory bool
	Clock       ports.Clock
	Logger      ports.Logger
}

// Measure runs the solution once on the real input and stores the timing,
// replacing any previous one for key.
func (s *Service) Measure(ctx context.Context, key domain.PuzzleKey) (domain.PerformanceRecord, error) {
	if err := domain.ValidatePuzzleDate(key.Year, key.Day, s.now()); err != nil {
		return domain.PerformanceRecord{}, err
	}
	if !key.Part.Valid() {
		return domain.PerformanceRecord{}, fmt.Errorf("part must be 1 or 2, got %d", key.Part)
	}
	input, err := s.Inputs.Input(ctx, key.Year, key.Day, false)
	if err != nil {
		return domain.PerformanceRecord{}, fmt.Errorf("load input: %w", err)
	}
	result, err := s.Runner.Run(ctx, domain.RunRequest{Key: key, Mode: domain.ModePerformance, Input: input})
	if err != nil {
		return domain.PerformanceRecord{}, err
	}

	rec := domain.PerformanceRecord{
		Year:       key.Year,
		Day:        key.Day,
		Part:       key.Part,
		DurationMS: float64(result.Elapsed) / float64(time.Millisecond),
		Timestamp:  s.now().UTC(),
	}
	if err := s.Cache.Put(cacheKey(key), sample{DurationMS: rec.DurationMS, Timestamp: rec.Timestamp}); err != nil {
		return rec, fmt.Errorf("cache timing: %w", err)
	}
	if s.KeepHistory && s.History != nil {
		if err := s.History.Append(rec); err != nil {
			return rec, fmt.Errorf("append history: %w", err)
		}
	}
	s.Logger.Debug("measured solution", map[string]interface{}{
		"puzzle":   key.String(),
		"elapsed":  result.Elapsed.String(),
		"reported": result.Reported,
	})
	return rec, nil
}

// Report aggregates cached timings. With force every cached key is measured
// again first, one at a time so runs do not compete for the CPU.
func (s *Service) Report(ctx context.Context, force bool) (domain.PerformanceReport, error) {
	records, err := s.Records()
	if err != nil {
		return domain.PerformanceReport{}, err
	}
	if force {
		for _, rec := range records {
			key := domain.PuzzleKey{Year: rec.Year, Day: rec.Day, Part: rec.Part}
			if _, err := s.Measure(ctx, key); err != nil {
				return domain.PerformanceReport{}, fmt.Errorf("measure %s: %w", key, err)
			}
		}
		if records, err = s.Records(); err != nil {
			return domain.PerformanceReport{}, err
		}
	}
	return Summarize(records), nil
}

// Records lists the cached timings in calendar order.
func (s *Service) Records() ([]domain.PerformanceRecord, error) {
	entries, err := s.Cache.Entries()
	if err != nil {
		return nil, fmt.Errorf("list cache: %w", err)
	}
	var records []domain.PerformanceRecord
	for _, entry := range entries {
		if entry.Kind != domain.KindPerformance {
			continue
		}
		var smp sample
		if err := entry.Decode(&smp); err != nil {
			s.Logger.Warn("skipping undecodable timing", map[string]interface{}{"key": entry.Key().String(), "error": err.Error()})
			continue
		}
		records = append(records, domain.PerformanceRecord{
			Year:       entry.Year,
			Day:        entry.Day,
			Part:       entry.Part,
			DurationMS: smp.DurationMS,
			Timestamp:  smp.Timestamp,
		})
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.Part < b.Part
	})
	return records, nil
}

// Summarize builds per-year count, mean, min and max. records must be sorted by year.
func Summarize(records []domain.PerformanceRecord) domain.PerformanceReport {
	report := domain.PerformanceReport{Records: records}
	for _, rec := range records {
		d := rec.Duration()
		n := len(report.Years)
		if n == 0 || report.Years[n-1].Year != rec.Year {
			report.Years = append(report.Years, domain.YearPerformance{Year: rec.Year, Min: d, Max: d})
			n++
		}
		y := &report.Years[n-1]
		y.Count++
		y.Mean += d
		if d < y.Min {
			y.Min = d
		}
		if d > y.Max {
			y.Max = d
		}
	}
	for i := range report.Years {
		report.Years[i].Mean /= time.Duration(report.Years[i].Count)
	}
	return report
}

func cacheKey(key domain.PuzzleKey) domain.CacheKey {
	return domain.CacheKey{Year: key.Year, Day: key.Day, Part: key.Part, Kind: domain.KindPerformance}
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}
