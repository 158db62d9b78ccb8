package local

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/websaver/internal/domain"
)

const (
	// CacheVersion tags every envelope written by this build.
	CacheVersion = "v1.2"

	// DefaultCacheMaxAge is the envelope expiry: entries older than this
	// are evicted on load and treated as a miss.
	DefaultCacheMaxAge = 7 * 24 * time.Hour
)

// ErrCacheExpired means the envelope exceeded its max age. The entry is
// already evicted when this is returned; callers treat it as a miss.
var ErrCacheExpired = errors.New("cache envelope expired")

// envelope is the versioned, timestamped snapshot stored separately
// from the raw working copy.
type envelope struct {
	Version   string            `json:"version"`
	Timestamp int64             `json:"timestamp"` // epoch ms
	Data      domain.Collection `json:"data"`
}

// CacheInfo describes the current envelope for status displays.
type CacheInfo struct {
	Version  string
	Age      time.Duration
	Groups   int
	Keywords int
}

// SaveToCache writes a cache envelope with the current timestamp and
// the fixed version tag.
func (s *Store) SaveToCache(c domain.Collection) error {
	cl := c.Clone()
	cl.Normalize()
	data, err := json.Marshal(envelope{
		Version:   CacheVersion,
		Timestamp: s.now().UnixMilli(),
		Data:      cl,
	})
	if err != nil {
		return fmt.Errorf("%w: marshal envelope: %v", ErrStorageUnavailable, err)
	}
	return s.setKV(KeyCache, string(data))
}

// LoadFromCache returns the cached collection if the envelope is within
// maxAge. An expired envelope is evicted and ErrCacheExpired is
// returned; a corrupt one is evicted and reported as a miss.
func (s *Store) LoadFromCache(maxAge time.Duration) (domain.Collection, bool, error) {
	if maxAge <= 0 {
		maxAge = DefaultCacheMaxAge
	}

	raw, ok, err := s.getKV(KeyCache)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		_ = s.deleteKV(KeyCache)
		return nil, false, nil
	}

	if s.now().UnixMilli()-env.Timestamp > maxAge.Milliseconds() {
		if err := s.deleteKV(KeyCache); err != nil {
			return nil, false, err
		}
		return nil, false, ErrCacheExpired
	}

	env.Data.Normalize()
	if err := env.Data.Validate(); err != nil {
		_ = s.deleteKV(KeyCache)
		return nil, false, nil
	}
	return env.Data, true, nil
}

// ClearCache unconditionally evicts the envelope.
func (s *Store) ClearCache() error {
	return s.deleteKV(KeyCache)
}

// CacheStatus returns metadata about the stored envelope, or false when
// none exists.
func (s *Store) CacheStatus() (CacheInfo, bool, error) {
	raw, ok, err := s.getKV(KeyCache)
	if err != nil || !ok {
		return CacheInfo{}, false, err
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return CacheInfo{}, false, nil
	}
	return CacheInfo{
		Version:  env.Version,
		Age:      time.Duration(s.now().UnixMilli()-env.Timestamp) * time.Millisecond,
		Groups:   len(env.Data),
		Keywords: env.Data.KeywordCount(),
	}, true, nil
}
