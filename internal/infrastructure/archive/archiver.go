package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/pkg/filesystem"
	"github.com/doeshing/aocenv/internal/ports"
)

var (
	// ErrNoSource means solution.source is empty.
	ErrNoSource = errors.New("solution.source is not configured")
	// ErrExists means an archived copy is already present and overwrite is off.
	ErrExists = errors.New("archived solution already exists")
)

// FileArchiver copies the solution source to <dir>/<year>/<dd>/part_<N><ext>.
type FileArchiver struct {
	source    string
	dir       string
	overwrite bool
	logger    ports.Logger
}

// NewFileArchiver resolves relative paths against the solution workdir.
func NewFileArchiver(settings domain.SolutionSettings, logger ports.Logger) *FileArchiver {
	return &FileArchiver{
		source:    resolve(settings.WorkDir, settings.Source),
		dir:       resolve(settings.WorkDir, settings.ArchiveDir),
		overwrite: settings.OverwriteArchive,
		logger:    logger,
	}
}

// WithOverwrite returns a copy with the overwrite flag replaced.
func (a *FileArchiver) WithOverwrite(overwrite bool) *FileArchiver {
	clone := *a
	clone.overwrite = overwrite
	return &clone
}

// Target is the archive path for key.
func (a *FileArchiver) Target(key domain.PuzzleKey) string {
	name := fmt.Sprintf("part_%d%s", key.Part, filepath.Ext(a.source))
	return filepath.Join(a.dir, fmt.Sprintf("%d", key.Year), fmt.Sprintf("%02d", key.Day), name)
}

// Archive implements ports.Archiver.
func (a *FileArchiver) Archive(key domain.PuzzleKey) (string, error) {
	if a.source == "" {
		return "", ErrNoSource
	}
	target := a.Target(key)
	if _, err := os.Stat(target); err == nil && !a.overwrite {
		return target, fmt.Errorf("%w: %s", ErrExists, target)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	data, err := os.ReadFile(a.source)
	if err != nil {
		return "", fmt.Errorf("reading solution source: %w", err)
	}
	if err := writeAtomic(target, data); err != nil {
		return "", fmt.Errorf("archiving solution: %w", err)
	}
	a.logger.Info("solution archived", map[string]interface{}{"puzzle": key.String(), "path": target})
	return target, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, domain.FilePermissions); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}

func resolve(base, path string) string {
	if path == "" {
		return ""
	}
	path = filesystem.ExpandPath(path)
	if filepath.IsAbs(path) || base == "" {
		return path
	}
	return filepath.Join(filesystem.ExpandPath(base), path)
}

var _ ports.Archiver = (*FileArchiver)(nil)
