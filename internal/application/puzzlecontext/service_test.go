package puzzlecontext

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/infrastructure/contextfile"
	"github.com/doeshing/aocenv/internal/pkg/logger"
	"github.com/doeshing/aocenv/internal/ports"
)

var utcMinus5 = time.FixedZone("UTC-5", -5*60*60)

func newService(t *testing.T, now time.Time) (*Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "context.json")
	return &Service{
		Repo:   contextfile.NewStore(path),
		Clock:  ports.ClockFunc(func() time.Time { return now }),
		Logger: logger.NewNop(),
	}, path
}

func TestSetPersistsValidContext(t *testing.T) {
	svc, path := newService(t, time.Date(2024, 12, 10, 12, 0, 0, 0, utcMinus5))

	ctx, err := svc.Set(2023, 5)
	require.NoError(t, err)
	assert.Equal(t, domain.PuzzleContext{Year: 2023, Day: 5}, ctx)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"year":2023,"day":5}`, string(data))

	resolved, err := svc.Show()
	require.NoError(t, err)
	assert.Equal(t, OriginStored, resolved.Origin)
	assert.Equal(t, ctx, resolved.Context)
}

func TestSetRejectsInvalidAndWritesNothing(t *testing.T) {
	svc, path := newService(t, time.Date(2024, 12, 10, 12, 0, 0, 0, utcMinus5))

	for _, tc := range []struct{ year, day int }{{2024, 30}, {2014, 1}, {2024, 11}, {2024, 0}} {
		_, err := svc.Set(tc.year, tc.day)
		assert.ErrorIs(t, err, domain.ErrInvalidContext, "%d-%d", tc.year, tc.day)
	}
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestGetDefaultsToLatestUnlocked(t *testing.T) {
	svc, _ := newService(t, time.Date(2024, 7, 1, 0, 0, 0, 0, utcMinus5))

	resolved, err := svc.Show()
	require.NoError(t, err)
	assert.Equal(t, OriginDefault, resolved.Origin)
	assert.Equal(t, domain.PuzzleContext{Year: 2023, Day: 25}, resolved.Context)
}

func TestGetIgnoresCorruptedOrStaleContext(t *testing.T) {
	now := time.Date(2024, 12, 3, 8, 0, 0, 0, utcMinus5)
	svc, path := newService(t, now)

	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	ctx, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.PuzzleContext{Year: 2024, Day: 3}, ctx)

	require.NoError(t, os.WriteFile(path, []byte(`{"year":2024,"day":20}`), 0o644))
	ctx, err = svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.PuzzleContext{Year: 2024, Day: 3}, ctx)
}

func TestClearFallsBackToDefault(t *testing.T) {
	svc, _ := newService(t, time.Date(2024, 12, 28, 0, 0, 0, 0, utcMinus5))
	_, err := svc.Set(2022, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Clear())
	require.NoError(t, svc.Clear())

	ctx, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.PuzzleContext{Year: 2024, Day: 25}, ctx)
}

func TestKeyValidatesPart(t *testing.T) {
	svc, _ := newService(t, time.Date(2024, 12, 5, 0, 0, 0, 0, utcMinus5))

	_, err := svc.Key(domain.Part(3))
	assert.Error(t, err)

	key, err := svc.Key(domain.PartTwo)
	require.NoError(t, err)
	assert.Equal(t, domain.PuzzleKey{Year: 2024, Day: 5, Part: domain.PartTwo}, key)
}
