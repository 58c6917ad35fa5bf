package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/ports"
)

// FileCache stores puzzle artifacts as one JSON document per (year, day, part, kind).
type FileCache struct {
	dir    string
	mu     sync.Mutex
	logger ports.Logger
	now    func() time.Time
}

// NewFileCache returns a cache rooted at dir.
func NewFileCache(dir string, logger ports.Logger) *FileCache {
	return &FileCache{
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}
}

// Get retrieves a cache entry. Malformed entries are dropped and reported as a miss.
func (c *FileCache) Get(key domain.CacheKey) (domain.CacheEntry, bool, error) {
	if err := key.Validate(); err != nil {
		return domain.CacheEntry{}, false, err
	}
	path := c.pathFor(key)

	var entry domain.CacheEntry
	found, err := ReadJSON(path, &entry)
	if err != nil {
		if errors.Is(err, domain.ErrCacheCorruption) {
			c.logger.Warn("dropped corrupted cache entry", map[string]interface{}{"key": key.String(), "error": err.Error()})
			return domain.CacheEntry{}, false, nil
		}
		return domain.CacheEntry{}, false, err
	}
	if !found {
		return domain.CacheEntry{}, false, nil
	}
	if entry.Key() != key || len(entry.Payload) == 0 {
		_ = RemoveDocument(path)
		c.logger.Warn("dropped mismatched cache entry", map[string]interface{}{"key": key.String(), "stored": entry.Key().String()})
		return domain.CacheEntry{}, false, nil
	}
	return entry, true, nil
}

// Put stores payload under key.
func (c *FileCache) Put(key domain.CacheKey, payload any) error {
	if err := key.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", key, err)
	}
	entry := domain.CacheEntry{
		Year:     key.Year,
		Day:      key.Day,
		Part:     key.Part,
		Kind:     key.Kind,
		Payload:  raw,
		StoredAt: c.now().UTC(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := WriteJSON(c.pathFor(key), entry); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	c.logger.Debug("cache put", map[string]interface{}{"key": key.String()})
	return nil
}

// Invalidate removes an entry.
func (c *FileCache) Invalidate(key domain.CacheKey) error {
	if err := key.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return RemoveDocument(c.pathFor(key))
}

// Dir exposes the cache directory path.
func (c *FileCache) Dir() string {
	return c.dir
}

// Clear removes all cached entries.
func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(c.dir)
}

// Entries lists every readable entry (best-effort), dropping corrupted ones.
func (c *FileCache) Entries() ([]domain.CacheEntry, error) {
	var entries []domain.CacheEntry
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || isTempFile(d.Name()) || filepath.Ext(d.Name()) != ".json" {
			return nil
		}
		key, ok := c.keyFor(path)
		if !ok {
			return nil
		}
		entry, found, err := c.Get(key)
		if err != nil || !found {
			return nil
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *FileCache) pathFor(key domain.CacheKey) string {
	name := string(key.Kind)
	if key.Part != domain.PartNone {
		name = fmt.Sprintf("%s-part%d", key.Kind, key.Part)
	}
	return filepath.Join(c.dir, strconv.Itoa(key.Year), strconv.Itoa(key.Day), name+".json")
}

// keyFor reverses pathFor.
func (c *FileCache) keyFor(path string) (domain.CacheKey, bool) {
	rel, err := filepath.Rel(c.dir, path)
	if err != nil {
		return domain.CacheKey{}, false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 3 {
		return domain.CacheKey{}, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return domain.CacheKey{}, false
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return domain.CacheKey{}, false
	}
	key := domain.CacheKey{Year: year, Day: day}
	name := strings.TrimSuffix(parts[2], ".json")
	if i := strings.LastIndex(name, "-part"); i > 0 {
		n, err := strconv.Atoi(name[i+len("-part"):])
		if err != nil {
			return domain.CacheKey{}, false
		}
		key.Part = domain.Part(n)
		name = name[:i]
	}
	key.Kind = domain.CacheKind(name)
	return key, key.Validate() == nil
}

var _ ports.CacheStore = (*FileCache)(nil)
var _ ports.CacheRepository = (*FileCache)(nil)
