package cache

import (
	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/ports"
)

// Load reads key from store and decodes its payload into T. A payload that
// does not decode is invalidated and reported as a miss, the same way a
// malformed document is.
func Load[T any](store ports.CacheStore, key domain.CacheKey, logger ports.Logger) (T, bool, error) {
	var zero T
	entry, found, err := store.Get(key)
	if err != nil || !found {
		return zero, false, err
	}
	var v T
	if err := entry.Decode(&v); err != nil {
		if logger != nil {
			logger.Warn("dropped undecodable cache payload", map[string]interface{}{"key": key.String(), "error": err.Error()})
		}
		if ierr := store.Invalidate(key); ierr != nil {
			return zero, false, ierr
		}
		return zero, false, nil
	}
	return v, true, nil
}
