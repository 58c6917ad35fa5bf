package contextfile

import (
	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/infrastructure/cache"
	"github.com/doeshing/aocenv/internal/ports"
)

// Store persists the active context as {"year": int, "day": int}.
type Store struct {
	path string
}

// NewStore returns a store backed by the document at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the persisted context. A corrupted document is removed and
// reported as ErrCacheCorruption with ok=false.
func (s *Store) Load() (domain.PuzzleContext, bool, error) {
	var ctx domain.PuzzleContext
	found, err := cache.ReadJSON(s.path, &ctx)
	if err != nil || !found {
		return domain.PuzzleContext{}, false, err
	}
	return ctx, true, nil
}

// Save replaces the document atomically.
func (s *Store) Save(ctx domain.PuzzleContext) error {
	return cache.WriteJSON(s.path, ctx)
}

// Remove deletes the document.
func (s *Store) Remove() error {
	return cache.RemoveDocument(s.path)
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

var _ ports.ContextRepository = (*Store)(nil)
