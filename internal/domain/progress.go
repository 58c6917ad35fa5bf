package domain

import (
	"sort"
	"strconv"
	"time"
)

// SolveSource records which authority confirmed a star.
type SolveSource string

const (
	SourceSubmission SolveSource = "submission"
	SourceRemote     SolveSource = "remote"
)

// ProgressRecord is the solved state of one part.
type ProgressRecord struct {
	Solved   bool        `json:"solved"`
	SolvedAt *time.Time  `json:"solvedAt,omitempty"`
	Source   SolveSource `json:"source,omitempty"`
}

// Progress maps year -> day -> part -> record. Keys are decimal strings so the
// document round-trips through JSON unchanged.
type Progress map[string]map[string]map[string]ProgressRecord

// Get returns the record for key, zero value when absent.
func (p Progress) Get(key PuzzleKey) ProgressRecord {
	days, ok := p[strconv.Itoa(key.Year)]
	if !ok {
		return ProgressRecord{}
	}
	parts, ok := days[strconv.Itoa(key.Day)]
	if !ok {
		return ProgressRecord{}
	}
	return parts[strconv.Itoa(int(key.Part))]
}

// MarkSolved sets solved = true for key. It never clears a record and keeps the
// earliest confirmation. It reports whether the record changed.
func (p Progress) MarkSolved(key PuzzleKey, at time.Time, source SolveSource) bool {
	if p.Get(key).Solved {
		return false
	}
	y, d := strconv.Itoa(key.Year), strconv.Itoa(key.Day)
	if p[y] == nil {
		p[y] = make(map[string]map[string]ProgressRecord)
	}
	if p[y][d] == nil {
		p[y][d] = make(map[string]ProgressRecord)
	}
	ts := at.UTC()
	p[y][d][strconv.Itoa(int(key.Part))] = ProgressRecord{Solved: true, SolvedAt: &ts, Source: source}
	return true
}

// SolvedKeys lists every solved part in calendar order.
func (p Progress) SolvedKeys() []PuzzleKey {
	var keys []PuzzleKey
	for ys, days := range p {
		year, err := strconv.Atoi(ys)
		if err != nil {
			continue
		}
		for ds, parts := range days {
			day, err := strconv.Atoi(ds)
			if err != nil {
				continue
			}
			for ps, rec := range parts {
				part, err := strconv.Atoi(ps)
				if err != nil || !rec.Solved {
					continue
				}
				keys = append(keys, PuzzleKey{Year: year, Day: day, Part: Part(part)})
			}
		}
	}
	SortKeys(keys)
	return keys
}

// Stars counts solved parts for (year, day).
func (p Progress) Stars(year, day int) int {
	stars := 0
	for _, part := range []Part{PartOne, PartTwo} {
		if p.Get(PuzzleKey{Year: year, Day: day, Part: part}).Solved {
			stars++
		}
	}
	return stars
}

// StarGrid is a remote snapshot: year -> solved (day, part) pairs.
type StarGrid map[int][]PuzzleKey

// ProgressDiff lists stars a reconciliation newly confirmed.
type ProgressDiff struct {
	NewlySolved []PuzzleKey
}

// SortKeys orders keys by year, day, part.
func SortKeys(keys []PuzzleKey) {
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.Part < b.Part
	})
}
