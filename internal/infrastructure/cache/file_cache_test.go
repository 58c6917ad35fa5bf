package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/pkg/logger"
)

func newTestCache(t *testing.T) *FileCache {
	t.Helper()
	return NewFileCache(filepath.Join(t.TempDir(), "cache"), logger.NewNop())
}

func TestFileCachePutGet(t *testing.T) {
	c := newTestCache(t)
	key := domain.CacheKey{Year: 2023, Day: 1, Kind: domain.KindInput}

	_, found, err := c.Get(key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Put(key, "1\n2\n3\n"))

	entry, found, err := c.Get(key)
	require.NoError(t, err)
	require.True(t, found)
	var got string
	require.NoError(t, entry.Decode(&got))
	assert.Equal(t, "1\n2\n3\n", got)
	assert.False(t, entry.StoredAt.IsZero())
}

func TestFileCacheInvalidate(t *testing.T) {
	c := newTestCache(t)
	key := domain.CacheKey{Year: 2023, Day: 1, Part: domain.PartOne, Kind: domain.KindAnswer}

	require.NoError(t, c.Put(key, "42"))
	require.NoError(t, c.Invalidate(key))
	require.NoError(t, c.Invalidate(key), "invalidating a missing entry is not an error")

	_, found, err := c.Get(key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileCacheMalformedEntryIsMissAndDropped(t *testing.T) {
	c := newTestCache(t)
	key := domain.CacheKey{Year: 2023, Day: 2, Kind: domain.KindText}
	path := c.pathFor(key)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{"year": 2023, "day":`), 0o644))

	_, found, err := c.Get(key)
	require.NoError(t, err)
	assert.False(t, found)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "corrupted entry should be removed")
}

func TestFileCacheMismatchedKeyIsMiss(t *testing.T) {
	c := newTestCache(t)
	key := domain.CacheKey{Year: 2023, Day: 3, Kind: domain.KindText}
	other := domain.CacheKey{Year: 2022, Day: 3, Kind: domain.KindText}
	require.NoError(t, c.Put(other, "text"))

	require.NoError(t, os.MkdirAll(filepath.Dir(c.pathFor(key)), 0o755))
	require.NoError(t, os.Rename(c.pathFor(other), c.pathFor(key)))

	_, found, err := c.Get(key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileCacheRejectsInvalidKeys(t *testing.T) {
	c := newTestCache(t)
	tests := []domain.CacheKey{
		{Year: 2023, Day: 1, Kind: "bogus"},
		{Year: 2023, Day: 1, Kind: domain.KindSubmission},
		{Year: 2023, Day: 1, Part: domain.PartOne, Kind: domain.KindInput},
		{Year: 2023, Day: 26, Kind: domain.KindInput},
	}
	for _, key := range tests {
		assert.Error(t, c.Put(key, "x"), key.String())
	}
}

func TestFileCacheEntriesSkipsTempAndCorrupt(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Put(domain.CacheKey{Year: 2023, Day: 1, Kind: domain.KindInput}, "a"))
	require.NoError(t, c.Put(domain.CacheKey{Year: 2023, Day: 1, Part: domain.PartTwo, Kind: domain.KindPerformance}, map[string]float64{"durationMs": 1.5}))
	require.NoError(t, c.Put(domain.CacheKey{Year: 2023, Day: 4, Kind: domain.KindTestSet}, []domain.TestCase{}))

	dayDir := filepath.Join(c.Dir(), "2023", "1")
	require.NoError(t, os.WriteFile(filepath.Join(dayDir, ".input.json.123.tmp"), []byte("partial"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dayDir, "answer-part1.json"), []byte("not json"), 0o644))

	entries, err := c.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	kinds := map[domain.CacheKind]bool{}
	for _, e := range entries {
		kinds[e.Kind] = true
	}
	assert.True(t, kinds[domain.KindInput])
	assert.True(t, kinds[domain.KindPerformance])
	assert.True(t, kinds[domain.KindTestSet])
}

func TestWriteJSONLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "progress.json")
	require.NoError(t, WriteJSON(path, map[string]int{"a": 1}))
	require.NoError(t, WriteJSON(path, map[string]int{"a": 2}))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)

	var got map[string]int
	found, err := ReadJSON(path, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, got["a"])
}

func TestLoadDropsUndecodablePayload(t *testing.T) {
	c := newTestCache(t)
	key := domain.CacheKey{Year: 2023, Day: 5, Kind: domain.KindTestSet}
	require.NoError(t, c.Put(key, "not a list"))

	_, found, err := Load[[]domain.TestCase](c, key, logger.NewNop())
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = c.Get(key)
	require.NoError(t, err)
	assert.False(t, found)
}
