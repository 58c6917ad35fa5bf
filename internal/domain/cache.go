package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// CacheKind enumerates the artifact types the cache stores.
type CacheKind string

const (
	KindText        CacheKind = "text"
	KindInput       CacheKind = "input"
	KindAnswer      CacheKind = "answer"
	KindSubmission  CacheKind = "submission"
	KindTestSet     CacheKind = "test-set"
	KindPerformance CacheKind = "performance"
)

// CacheKinds lists every known kind in a stable order.
var CacheKinds = []CacheKind{KindText, KindInput, KindAnswer, KindSubmission, KindTestSet, KindPerformance}

// PartScoped reports whether entries of this kind are addressed per part.
func (k CacheKind) PartScoped() bool {
	switch k {
	case KindAnswer, KindSubmission, KindPerformance:
		return true
	}
	return false
}

// Known reports whether k is one of CacheKinds.
func (k CacheKind) Known() bool {
	for _, known := range CacheKinds {
		if k == known {
			return true
		}
	}
	return false
}

// CacheKey addresses one cache entry.
type CacheKey struct {
	Year int
	Day  int
	Part Part
	Kind CacheKind
}

// Validate checks the key shape for its kind.
func (k CacheKey) Validate() error {
	if !k.Kind.Known() {
		return fmt.Errorf("unknown cache kind %q", k.Kind)
	}
	if k.Year < FirstEventYear || k.Day < FirstDay || k.Day > LastDay {
		return fmt.Errorf("cache key %d-%d out of range", k.Year, k.Day)
	}
	if k.Kind.PartScoped() && !k.Part.Valid() {
		return fmt.Errorf("cache kind %s requires part 1 or 2", k.Kind)
	}
	if !k.Kind.PartScoped() && k.Part != PartNone {
		return fmt.Errorf("cache kind %s is not part scoped", k.Kind)
	}
	return nil
}

func (k CacheKey) String() string {
	if k.Part == PartNone {
		return fmt.Sprintf("%d-%02d/%s", k.Year, k.Day, k.Kind)
	}
	return fmt.Sprintf("%d-%02d/%s/part%d", k.Year, k.Day, k.Kind, k.Part)
}

// CacheEntry stores one cached artifact.
type CacheEntry struct {
	Year     int             `json:"year"`
	Day      int             `json:"day"`
	Part     Part            `json:"part,omitempty"`
	Kind     CacheKind       `json:"kind"`
	Payload  json.RawMessage `json:"payload"`
	StoredAt time.Time       `json:"storedAt"`
}

// Key returns the address the entry claims to belong to.
func (e CacheEntry) Key() CacheKey {
	return CacheKey{Year: e.Year, Day: e.Day, Part: e.Part, Kind: e.Kind}
}

// Decode unmarshals the payload into v.
func (e CacheEntry) Decode(v any) error {
	return json.Unmarshal(e.Payload, v)
}
