package domain

import "fmt"

// Part selects one half of a daily puzzle.
type Part int

const (
	PartNone Part = 0
	PartOne  Part = 1
	PartTwo  Part = 2
)

// Valid reports whether p names a submittable part.
func (p Part) Valid() bool {
	return p == PartOne || p == PartTwo
}

// ParsePart converts CLI input into a Part.
func ParsePart(n int) (Part, error) {
	p := Part(n)
	if !p.Valid() {
		return PartNone, fmt.Errorf("part must be 1 or 2, got %d", n)
	}
	return p, nil
}

// PuzzleContext is the (year, day) the user is working on.
type PuzzleContext struct {
	Year int `json:"year"`
	Day  int `json:"day"`
}

func (c PuzzleContext) String() string {
	return fmt.Sprintf("%d-%02d", c.Year, c.Day)
}

// PuzzleKey identifies one part of one puzzle.
type PuzzleKey struct {
	Year int
	Day  int
	Part Part
}

func (k PuzzleKey) String() string {
	return fmt.Sprintf("%d-%02d part %d", k.Year, k.Day, k.Part)
}

// RunMode tells a solution where its input came from.
type RunMode string

const (
	ModeLive        RunMode = "live"
	ModeTest        RunMode = "test"
	ModePerformance RunMode = "performance"
)
