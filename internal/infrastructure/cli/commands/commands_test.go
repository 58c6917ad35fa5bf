package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/aocenv/internal/app"
	"github.com/doeshing/aocenv/internal/application/puzzlecontext"
	"github.com/doeshing/aocenv/internal/application/testrun"
	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/infrastructure/cache"
	"github.com/doeshing/aocenv/internal/infrastructure/contextfile"
	"github.com/doeshing/aocenv/internal/infrastructure/progress"
	"github.com/doeshing/aocenv/internal/pkg/logger"
	"github.com/doeshing/aocenv/internal/ports"
)

// upperRunner echoes its input upper-cased, which is enough to drive test cases.
type upperRunner struct {
	calls []domain.RunRequest
}

func (r *upperRunner) Run(_ context.Context, req domain.RunRequest) (domain.RunResult, error) {
	r.calls = append(r.calls, req)
	return domain.RunResult{Output: strings.ToUpper(req.Input) + "\n"}, nil
}

func newTestContainer(t *testing.T, runner ports.SolutionRunner) *app.Container {
	t.Helper()
	dir := t.TempDir()
	now := time.Date(2023, 12, 10, 12, 0, 0, 0, time.UTC)
	clock := ports.ClockFunc(func() time.Time { return now })
	log := logger.NewNop()
	store := cache.NewFileCache(filepath.Join(dir, "cache"), log)

	return &app.Container{
		Clock:  clock,
		Logger: log,
		ContextService: &puzzlecontext.Service{
			Repo:   contextfile.NewStore(filepath.Join(dir, "context.json")),
			Clock:  clock,
			Logger: log,
		},
		TestService: &testrun.Service{
			Cache:  store,
			Runner: runner,
			Clock:  clock,
			Logger: log,
		},
		CacheStore:    store,
		ProgressStore: progress.NewFileStore(filepath.Join(dir, "progress.json"), log),
		Runner:        runner,
	}
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestContextCommandSetShowClear(t *testing.T) {
	c := newTestContainer(t, &upperRunner{})

	out, err := execute(t, NewContextCommand(c), "show")
	require.NoError(t, err)
	assert.Contains(t, out, "2023-10 (default")

	out, err = execute(t, NewContextCommand(c), "set", "2022", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Context set to 2022-07")

	out, err = execute(t, NewContextCommand(c))
	require.NoError(t, err)
	assert.Contains(t, out, "2022-07 (stored)")

	out, err = execute(t, NewContextCommand(c), "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "2023-10 (default")
}

func TestContextCommandRejectsLockedPuzzle(t *testing.T) {
	c := newTestContainer(t, &upperRunner{})

	_, err := execute(t, NewContextCommand(c), "set", "2023", "30")
	require.ErrorIs(t, err, domain.ErrInvalidContext)

	resolved, err := c.ContextService.Show()
	require.NoError(t, err)
	assert.Equal(t, puzzlecontext.OriginDefault, resolved.Origin)
}

func TestTestCommandAddListRun(t *testing.T) {
	runner := &upperRunner{}
	c := newTestContainer(t, runner)
	_, err := execute(t, NewContextCommand(c), "set", "2023", "1")
	require.NoError(t, err)

	out, err := execute(t, NewTestCommand(c), "add", "--part", "1", "--input", "abc", "--expected", "ABC")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 2023-01 part 1 case 1")

	_, err = execute(t, NewTestCommand(c), "add", "--part", "2", "--input", "xyz", "--expected", "nope")
	require.NoError(t, err)

	out, err = execute(t, NewTestCommand(c), "list")
	require.NoError(t, err)
	assert.Contains(t, out, `part 1 #1  expected "ABC"`)
	assert.Contains(t, out, `part 2 #1  expected "nope"`)

	out, err = execute(t, NewTestCommand(c), "--part", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed")

	out, err = execute(t, NewTestCommand(c), "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 test cases failed")
	assert.Contains(t, out, "diff (-expected +got)")

	for _, call := range runner.calls {
		assert.Equal(t, domain.ModeTest, call.Mode)
	}
}

func TestTestCommandAddRequiresInput(t *testing.T) {
	c := newTestContainer(t, &upperRunner{})

	_, err := execute(t, NewTestCommand(c), "add", "--part", "1", "--expected", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrInputRequired)
}

func TestTestCommandDeleteMissing(t *testing.T) {
	c := newTestContainer(t, &upperRunner{})

	_, err := execute(t, NewTestCommand(c), "delete", "1", "3", "--year", "2023", "--day", "2")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStatsCommand(t *testing.T) {
	c := newTestContainer(t, &upperRunner{})

	out, err := execute(t, NewStatsCommand(c))
	require.NoError(t, err)
	assert.Contains(t, out, MsgNoStars)

	at := time.Date(2023, 12, 1, 6, 0, 0, 0, time.UTC)
	require.NoError(t, c.ProgressStore.Update(func(p domain.Progress) (bool, error) {
		p.MarkSolved(domain.PuzzleKey{Year: 2023, Day: 1, Part: domain.PartOne}, at, domain.SourceSubmission)
		p.MarkSolved(domain.PuzzleKey{Year: 2023, Day: 1, Part: domain.PartTwo}, at, domain.SourceSubmission)
		return true, nil
	}))

	out, err = execute(t, NewStatsCommand(c))
	require.NoError(t, err)
	assert.Contains(t, out, "2023")
	assert.Contains(t, out, "Total: 2 stars")
}

func TestPuzzleFlagsOverrideContext(t *testing.T) {
	c := newTestContainer(t, &upperRunner{})
	_, err := c.ContextService.Set(2022, 5)
	require.NoError(t, err)

	flags := puzzleFlags{day: 9}
	pc, err := flags.resolve(c)
	require.NoError(t, err)
	assert.Equal(t, domain.PuzzleContext{Year: 2022, Day: 9}, pc)

	flags = puzzleFlags{year: 2023, day: 25}
	_, err = flags.resolve(c)
	require.ErrorIs(t, err, domain.ErrInvalidContext)

	key, err := (&puzzleFlags{}).key(c, domain.PartTwo)
	require.NoError(t, err)
	assert.Equal(t, domain.PuzzleKey{Year: 2022, Day: 5, Part: domain.PartTwo}, key)
}
