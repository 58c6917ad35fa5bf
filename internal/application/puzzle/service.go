// Package puzzle serves puzzle text and input, read-through the local cache.
package puzzle

import (
	"context"
	"fmt"

	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/infrastructure/cache"
	"github.com/doeshing/aocenv/internal/ports"
)

// Service fetches from the remote only on a cache miss or an explicit refresh.
type Service struct {
	Cache  ports.CacheStore
	Remote ports.PuzzleSite
	Logger ports.Logger
}

// Text returns the rendered puzzle description.
func (s *Service) Text(ctx context.Context, year, day int, refresh bool) (string, error) {
	return s.readThrough(ctx, domain.CacheKey{Year: year, Day: day, Kind: domain.KindText}, refresh,
		func(ctx context.Context) (string, error) { return s.Remote.FetchText(ctx, year, day) })
}

// Input returns the personal puzzle input.
func (s *Service) Input(ctx context.Context, year, day int, refresh bool) (string, error) {
	return s.readThrough(ctx, domain.CacheKey{Year: year, Day: day, Kind: domain.KindInput}, refresh,
		func(ctx context.Context) (string, error) { return s.Remote.FetchInput(ctx, year, day) })
}

func (s *Service) readThrough(ctx context.Context, key domain.CacheKey, refresh bool, fetch func(context.Context) (string, error)) (string, error) {
	if !refresh {
		cached, found, err := cache.Load[string](s.Cache, key, s.Logger)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", key, err)
		}
		if found {
			s.Logger.Debug("cache hit", map[string]interface{}{"key": key.String()})
			return cached, nil
		}
	}
	if s.Remote == nil {
		return "", fmt.Errorf("%s is not cached and no remote is available", key)
	}

	value, err := fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", key, err)
	}
	if err := s.Cache.Put(key, value); err != nil {
		return "", fmt.Errorf("cache %s: %w", key, err)
	}
	s.Logger.Debug("cached remote artifact", map[string]interface{}{"key": key.String(), "bytes": len(value)})
	return value, nil
}

var _ ports.InputSource = (*Service)(nil)
