package progress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/infrastructure/cache"
	"github.com/doeshing/aocenv/internal/ports"
)

// FileStore keeps the progress document at a single path.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger ports.Logger
}

// NewFileStore creates a store for the document at path.
func NewFileStore(path string, logger ports.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Load reads the document; absent or corrupted documents yield empty progress.
func (s *FileStore) Load() (domain.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Update re-reads the document, applies fn and writes once when fn reports a change.
func (s *FileStore) Update(fn func(domain.Progress) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.read()
	if err != nil {
		return err
	}
	changed, err := fn(p)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := cache.WriteJSON(s.path, p); err != nil {
		return fmt.Errorf("writing progress: %w", err)
	}
	return nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) read() (domain.Progress, error) {
	p := domain.Progress{}
	found, err := cache.ReadJSON(s.path, &p)
	if err != nil {
		if errors.Is(err, domain.ErrCacheCorruption) {
			s.logger.Warn("progress document corrupted, starting empty", map[string]interface{}{"error": err.Error()})
			return domain.Progress{}, nil
		}
		return nil, err
	}
	if !found || p == nil {
		return domain.Progress{}, nil
	}
	return p, nil
}

var _ ports.ProgressRepository = (*FileStore)(nil)
