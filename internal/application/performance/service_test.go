package performance

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/infrastructure/cache"
	"github.com/doeshing/aocenv/internal/infrastructure/history"
	"github.com/doeshing/aocenv/internal/pkg/logger"
	"github.com/doeshing/aocenv/internal/ports"
)

type stubInputs struct {
	calls int
}

func (s *stubInputs) Input(context.Context, int, int, bool) (string, error) {
	s.calls++
	return "input\n", nil
}

type fixedRunner struct {
	elapsed map[domain.PuzzleKey]time.Duration
	modes   []domain.RunMode
}

func (r *fixedRunner) Run(_ context.Context, req domain.RunRequest) (domain.RunResult, error) {
	r.modes = append(r.modes, req.Mode)
	return domain.RunResult{Output: "1\n", Elapsed: r.elapsed[req.Key], Reported: true}, nil
}

func k(year, day int, part domain.Part) domain.PuzzleKey {
	return domain.PuzzleKey{Year: year, Day: day, Part: part}
}

func newService(t *testing.T) (*Service, *fixedRunner, *stubInputs) {
	t.Helper()
	runner := &fixedRunner{elapsed: map[domain.PuzzleKey]time.Duration{
		k(2022, 1, domain.PartOne): 2 * time.Millisecond,
		k(2023, 1, domain.PartOne): 1 * time.Millisecond,
		k(2023, 2, domain.PartTwo): 3 * time.Millisecond,
	}}
	inputs := &stubInputs{}
	return &Service{
		Cache:  cache.NewFileCache(t.TempDir(), logger.NewNop()),
		Inputs: inputs,
		Runner: runner,
		Clock:  ports.ClockFunc(func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }),
		Logger: logger.NewNop(),
	}, runner, inputs
}

func TestMeasureStoresReportedDuration(t *testing.T) {
	svc, runner, _ := newService(t)

	rec, err := svc.Measure(context.Background(), k(2023, 1, domain.PartOne))
	require.NoError(t, err)
	assert.Equal(t, 1.0, rec.DurationMS)
	assert.Equal(t, []domain.RunMode{domain.ModePerformance}, runner.modes)

	records, err := svc.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, time.Millisecond, records[0].Duration())
}

func TestReportAggregatesPerYear(t *testing.T) {
	svc, runner, _ := newService(t)
	for _, key := range []domain.PuzzleKey{k(2023, 2, domain.PartTwo), k(2022, 1, domain.PartOne), k(2023, 1, domain.PartOne)} {
		_, err := svc.Measure(context.Background(), key)
		require.NoError(t, err)
	}
	runs := len(runner.modes)

	report, err := svc.Report(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, runs, len(runner.modes))
	require.Len(t, report.Records, 3)
	assert.Equal(t, 2022, report.Records[0].Year)
	require.Len(t, report.Years, 2)
	assert.Equal(t, domain.YearPerformance{Year: 2022, Count: 1, Mean: 2 * time.Millisecond, Min: 2 * time.Millisecond, Max: 2 * time.Millisecond}, report.Years[0])
	assert.Equal(t, domain.YearPerformance{Year: 2023, Count: 2, Mean: 2 * time.Millisecond, Min: time.Millisecond, Max: 3 * time.Millisecond}, report.Years[1])
}

func TestReportForceRemeasures(t *testing.T) {
	svc, runner, _ := newService(t)
	_, err := svc.Measure(context.Background(), k(2023, 1, domain.PartOne))
	require.NoError(t, err)
	runner.elapsed[k(2023, 1, domain.PartOne)] = 5 * time.Millisecond

	report, err := svc.Report(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, runner.modes, 2)
	require.Len(t, report.Records, 1)
	assert.Equal(t, 5.0, report.Records[0].DurationMS)
}

func TestMeasureAppendsHistoryWhenEnabled(t *testing.T) {
	svc, _, _ := newService(t)
	store := history.NewFileStore(filepath.Join(t.TempDir(), "performance.jsonl"))
	svc.History = store

	_, err := svc.Measure(context.Background(), k(2023, 1, domain.PartOne))
	require.NoError(t, err)
	samples, err := store.Samples(0, 0, domain.PartNone)
	require.NoError(t, err)
	assert.Empty(t, samples)

	svc.KeepHistory = true
	for i := 0; i < 2; i++ {
		_, err = svc.Measure(context.Background(), k(2023, 1, domain.PartOne))
		require.NoError(t, err)
	}
	samples, err = store.Samples(2023, 1, domain.PartOne)
	require.NoError(t, err)
	assert.Len(t, samples, 2)

	records, err := svc.Records()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
