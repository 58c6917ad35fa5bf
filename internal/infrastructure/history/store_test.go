package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/aocenv/internal/domain"
)

func sample(year, day int, part domain.Part, ms float64, at time.Time) domain.PerformanceRecord {
	return domain.PerformanceRecord{Year: year, Day: day, Part: part, DurationMS: ms, Timestamp: at}
}

func TestStoresAppendAndFilter(t *testing.T) {
	backends := map[string]string{"sqlite": "performance.db", "jsonl": "performance.jsonl"}
	for backend, file := range backends {
		t.Run(backend, func(t *testing.T) {
			store, err := Open(backend, filepath.Join(t.TempDir(), "history", file))
			require.NoError(t, err)
			t.Cleanup(func() { _ = store.Close() })

			base := time.Date(2023, 12, 1, 5, 0, 0, 0, time.UTC)
			require.NoError(t, store.Append(sample(2023, 1, domain.PartOne, 1.5, base)))
			require.NoError(t, store.Append(sample(2023, 1, domain.PartTwo, 2.5, base.Add(time.Second))))
			require.NoError(t, store.Append(sample(2023, 1, domain.PartOne, 1.25, base.Add(2*time.Second))))
			require.NoError(t, store.Append(sample(2022, 3, domain.PartOne, 9, base.Add(3*time.Second))))

			got, err := store.Samples(2023, 1, domain.PartOne)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, 1.5, got[0].DurationMS)
			assert.Equal(t, 1.25, got[1].DurationMS)
			assert.True(t, got[1].Timestamp.Equal(base.Add(2*time.Second)))

			all, err := store.Samples(0, 0, domain.PartNone)
			require.NoError(t, err)
			assert.Len(t, all, 4)

			require.NoError(t, store.Clear())
			all, err = store.Samples(0, 0, domain.PartNone)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestSQLiteExportJSONL(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSQLiteStore(filepath.Join(dir, "performance.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Append(sample(2023, 2, domain.PartOne, 3, time.Now())))

	dest := filepath.Join(dir, "export.jsonl")
	require.NoError(t, store.ExportJSONL(dest))

	exported := NewFileStore(dest)
	got, err := exported.Samples(2023, 2, domain.PartOne)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	_, err := Open("redis", filepath.Join(t.TempDir(), "x"))
	assert.ErrorContains(t, err, "unknown history backend")
}
