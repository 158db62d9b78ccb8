package local

import (
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/websaver/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sample() domain.Collection {
	return domain.Collection{
		{Name: "Popular Sites", Keywords: []string{"www.youtube.com", "fb"}},
		{Name: "Work", Keywords: []string{"jira"}},
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save(sample()))

	got, ok, err := s.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, sample().Equal(got), "round trip changed collection: %+v", got)
}

func TestLoadAbsent(t *testing.T) {
	s := newTestStore(t)

	got, ok, err := s.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestLoadCorruptJSON(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.setKV(KeyGroups, "{not json"))

	_, _, err := s.Load()
	assert.ErrorIs(t, err, ErrStorageCorrupt)
}

func TestLoadInvalidCollection(t *testing.T) {
	s := newTestStore(t)
	// Parses fine but violates the invariants (empty group name).
	require.NoError(t, s.setKV(KeyGroups, `[{"name":"","keywords":["x"]}]`))

	_, _, err := s.Load()
	assert.ErrorIs(t, err, ErrStorageCorrupt)
}

func TestLoadNormalizesNilKeywords(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.setKV(KeyGroups, `[{"name":"A","keywords":null}]`))

	got, ok, err := s.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.NotNil(t, got[0].Keywords)
}

func TestIsAvailable(t *testing.T) {
	s := newTestStore(t)
	assert.True(t, s.IsAvailable())

	// Probe must not leave residue.
	_, ok, err := s.getKV(probeKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsAvailableAfterClose(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.False(t, s.IsAvailable())
}

func TestSaveFullOverwrite(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save(sample()))
	smaller := domain.Collection{{Name: "Only", Keywords: []string{}}}
	require.NoError(t, s.Save(smaller))

	got, ok, err := s.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, smaller.Equal(got), "Save must replace the whole collection")
}

func TestThemeRoundTrip(t *testing.T) {
	s := newTestStore(t)

	theme, err := s.LoadTheme()
	require.NoError(t, err)
	assert.Equal(t, "light", theme, "default theme")

	require.NoError(t, s.SaveTheme("dark"))
	theme, err = s.LoadTheme()
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)

	assert.Error(t, s.SaveTheme("neon"))
}

func TestCacheRoundTrip(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveToCache(sample()))

	got, ok, err := s.LoadFromCache(DefaultCacheMaxAge)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, sample().Equal(got))
}

func TestCacheMiss(t *testing.T) {
	s := newTestStore(t)

	got, ok, err := s.LoadFromCache(DefaultCacheMaxAge)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestCacheExpiryEvicts(t *testing.T) {
	s := newTestStore(t)

	// Write an envelope 8 days in the past.
	s.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	require.NoError(t, s.SaveToCache(sample()))
	s.now = time.Now

	_, ok, err := s.LoadFromCache(DefaultCacheMaxAge)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, ErrCacheExpired), "want ErrCacheExpired, got %v", err)

	// Expired load must evict the entry as a side effect.
	_, present, err := s.getKV(KeyCache)
	require.NoError(t, err)
	assert.False(t, present, "expired envelope not evicted")
}

func TestCacheFreshWithinMaxAge(t *testing.T) {
	s := newTestStore(t)

	// 3-day-old envelope is still a hit with a 7-day max age.
	s.now = func() time.Time { return time.Now().Add(-3 * 24 * time.Hour) }
	require.NoError(t, s.SaveToCache(sample()))
	s.now = time.Now

	got, ok, err := s.LoadFromCache(DefaultCacheMaxAge)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, sample().Equal(got))
}

func TestCacheCorruptEnvelopeIsMiss(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.setKV(KeyCache, "garbage"))

	_, ok, err := s.LoadFromCache(DefaultCacheMaxAge)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClearCache(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveToCache(sample()))
	require.NoError(t, s.ClearCache())

	_, ok, err := s.LoadFromCache(DefaultCacheMaxAge)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheStatus(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.CacheStatus()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SaveToCache(sample()))

	info, ok, err := s.CacheStatus()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, CacheVersion, info.Version)
	assert.Equal(t, 2, info.Groups)
	assert.Equal(t, 3, info.Keywords)
}
