package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/doeshing/aocenv/internal/app"
	"github.com/doeshing/aocenv/internal/domain"
)

// puzzleFlags lets a command override the active context for one invocation.
type puzzleFlags struct {
	year int
	day  int
}

func (f *puzzleFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.year, "year", "y", 0, "Event year (default from context)")
	cmd.Flags().IntVarP(&f.day, "day", "d", 0, "Puzzle day (default from context)")
}

// resolve fills unset flags from the active context and validates the result.
func (f *puzzleFlags) resolve(container *app.Container) (domain.PuzzleContext, error) {
	pc, err := container.ContextService.Get()
	if err != nil {
		return domain.PuzzleContext{}, err
	}
	if f.year == 0 && f.day == 0 {
		return pc, nil
	}
	if f.year != 0 {
		pc.Year = f.year
	}
	if f.day != 0 {
		pc.Day = f.day
	}
	if err := domain.ValidatePuzzleDate(pc.Year, pc.Day, container.Clock.Now()); err != nil {
		return domain.PuzzleContext{}, err
	}
	return pc, nil
}

// key resolves the puzzle and attaches part.
func (f *puzzleFlags) key(container *app.Container, part domain.Part) (domain.PuzzleKey, error) {
	if f.year == 0 && f.day == 0 && part.Valid() {
		return container.ContextService.Key(part)
	}
	pc, err := f.resolve(container)
	if err != nil {
		return domain.PuzzleKey{}, err
	}
	return domain.PuzzleKey{Year: pc.Year, Day: pc.Day, Part: part}, nil
}

// parsePartArg reads a required part argument ("1" or "2").
func parsePartArg(arg string) (domain.Part, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return domain.PartNone, fmt.Errorf("part must be 1 or 2, got %q", arg)
	}
	return domain.ParsePart(n)
}

// parseOptionalPart accepts 0 as "all parts".
func parseOptionalPart(n int) (domain.Part, error) {
	if n == 0 {
		return domain.PartNone, nil
	}
	return domain.ParsePart(n)
}
