package helpers

import (
	"sort"
	"time"

	"github.com/doeshing/aocenv/internal/domain"
)

// YearStars summarizes the solved stars of one event year.
type YearStars struct {
	Year       int
	Stars      int
	FullDays   int
	LastSolved time.Time
	// Days holds the star count (0-2) for days 1..25 at index day-1.
	Days [domain.LastDay]int
}

// SummarizeStars groups progress per year, newest year first.
func SummarizeStars(progress domain.Progress) []YearStars {
	byYear := make(map[int]*YearStars)
	for _, key := range progress.SolvedKeys() {
		ys, ok := byYear[key.Year]
		if !ok {
			ys = &YearStars{Year: key.Year}
			byYear[key.Year] = ys
		}
		ys.Stars++
		ys.Days[key.Day-1]++
		if ys.Days[key.Day-1] == 2 {
			ys.FullDays++
		}
		if rec := progress.Get(key); rec.SolvedAt != nil && rec.SolvedAt.After(ys.LastSolved) {
			ys.LastSolved = *rec.SolvedAt
		}
	}

	out := make([]YearStars, 0, len(byYear))
	for _, ys := range byYear {
		out = append(out, *ys)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}

// TotalStars adds up the stars across years.
func TotalStars(years []YearStars) int {
	total := 0
	for _, ys := range years {
		total += ys.Stars
	}
	return total
}

// CalculateCompletionRate returns the share of the 50 stars of a year as a percentage.
func CalculateCompletionRate(stars int) float64 {
	return float64(stars) / float64(2*domain.LastDay) * 100.0
}
