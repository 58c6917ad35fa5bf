package solution

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/pkg/logger"
)

func newRunner(command string) *ShellRunner {
	return NewShellRunner(domain.SolutionSettings{Command: command, Shell: "sh"}, logger.NewNop())
}

func TestShellRunnerPassesInputAndEnvironment(t *testing.T) {
	runner := newRunner(`read line; echo "$AOC_YEAR/$AOC_DAY/$AOC_PART/$AOC_MODE:$line"`)

	result, err := runner.Run(context.Background(), domain.RunRequest{
		Key:   domain.PuzzleKey{Year: 2023, Day: 4, Part: domain.PartTwo},
		Mode:  domain.ModeTest,
		Input: "hello\n",
	})
	require.NoError(t, err)
	assert.Equal(t, "2023/4/2/test:hello\n", result.Output)
	assert.False(t, result.Reported)
}

func TestShellRunnerReportsElapsedMarker(t *testing.T) {
	runner := newRunner(`echo 42; echo "aoc:elapsed=1.5ms" >&2; echo "debug" >&2`)

	result, err := runner.Run(context.Background(), domain.RunRequest{Key: domain.PuzzleKey{Year: 2023, Day: 1, Part: domain.PartOne}, Mode: domain.ModePerformance})
	require.NoError(t, err)
	assert.True(t, result.Reported)
	assert.Equal(t, 1500*time.Microsecond, result.Elapsed)
	assert.Equal(t, "debug\n", result.Stderr)
}

func TestShellRunnerNonZeroExit(t *testing.T) {
	result, err := newRunner(`echo oops >&2; exit 3`).Run(context.Background(), domain.RunRequest{})
	require.Error(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "oops\n", result.Stderr)
}

func TestShellRunnerRequiresCommand(t *testing.T) {
	_, err := newRunner("").Run(context.Background(), domain.RunRequest{})
	assert.ErrorIs(t, err, ErrNoCommand)
}

func TestExtractElapsedAfterVeryLongLine(t *testing.T) {
	long := strings.Repeat("x", 2*1024*1024)
	stderr := long + "\naoc:elapsed=3ms\ntrace\n"

	rest, elapsed, reported := extractElapsed(stderr)
	assert.True(t, reported)
	assert.Equal(t, 3*time.Millisecond, elapsed)
	assert.Equal(t, long+"\ntrace\n", rest)
}

func TestExtractElapsedEmpty(t *testing.T) {
	rest, _, reported := extractElapsed("")
	assert.False(t, reported)
	assert.Empty(t, rest)
}
