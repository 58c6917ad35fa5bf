package progress

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/pkg/logger"
)

func TestFileStoreUpdatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	store := NewFileStore(path, logger.NewNop())
	key := domain.PuzzleKey{Year: 2023, Day: 1, Part: domain.PartOne}

	err := store.Update(func(p domain.Progress) (bool, error) {
		return p.MarkSolved(key, time.Now(), domain.SourceSubmission), nil
	})
	require.NoError(t, err)

	reopened := NewFileStore(path, logger.NewNop())
	p, err := reopened.Load()
	require.NoError(t, err)
	assert.True(t, p.Get(key).Solved)
}

func TestFileStoreUpdateWithoutChangeDoesNotWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	store := NewFileStore(path, logger.NewNop())

	require.NoError(t, store.Update(func(domain.Progress) (bool, error) { return false, nil }))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreUpdateErrorDoesNotWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	store := NewFileStore(path, logger.NewNop())
	boom := errors.New("boom")

	err := store.Update(func(p domain.Progress) (bool, error) {
		p.MarkSolved(domain.PuzzleKey{Year: 2023, Day: 1, Part: domain.PartOne}, time.Now(), domain.SourceRemote)
		return true, boom
	})
	assert.ErrorIs(t, err, boom)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileStoreCorruptedDocumentStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0o644))

	p, err := NewFileStore(path, logger.NewNop()).Load()
	require.NoError(t, err)
	assert.Empty(t, p)
}
