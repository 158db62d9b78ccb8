package sync

import (
	"context"
	"testing"
	"time"

	"github.com/MrSnakeDoc/websaver/internal/domain"
	"github.com/MrSnakeDoc/websaver/internal/logger"
	"github.com/MrSnakeDoc/websaver/internal/store/local"
	"github.com/MrSnakeDoc/websaver/internal/store/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	docs  map[string]domain.Collection
	fail  bool
	loads int
	saves int

	// onLoad runs inside LoadUserData, before returning. Used to
	// simulate a mutation racing an in-flight load.
	onLoad func()
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{docs: make(map[string]domain.Collection)}
}

func (f *fakeRemote) SaveUserData(_ context.Context, accountID string, c domain.Collection, _ *string) error {
	f.saves++
	if f.fail {
		return remote.ErrRemoteUnavailable
	}
	f.docs[accountID] = c.Clone()
	return nil
}

func (f *fakeRemote) LoadUserData(_ context.Context, accountID string) (*remote.Document, error) {
	f.loads++
	if f.onLoad != nil {
		f.onLoad()
	}
	if f.fail {
		return nil, remote.ErrRemoteUnavailable
	}
	doc, ok := f.docs[accountID]
	if !ok {
		return nil, remote.ErrDocumentAbsent
	}
	return &remote.Document{Groups: doc.Clone(), UserID: accountID}, nil
}

func newCoordinator(t *testing.T, rs RemoteStore) (*Coordinator, *local.Store) {
	t.Helper()
	ls, err := local.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { ls.Close() })

	c := New(Options{
		Local:  ls,
		Remote: rs,
		Logger: logger.NewNop(),
	})
	return c, ls
}

func TestNewSeedsDefaults(t *testing.T) {
	c, ls := newCoordinator(t, nil)

	snap := c.Snapshot()
	assert.True(t, domain.Default().Equal(snap), "empty store must seed defaults")

	stored, ok, err := ls.Load()
	require.NoError(t, err)
	require.True(t, ok, "seeded defaults must be persisted")
	assert.True(t, domain.Default().Equal(stored))
}

// corruptLocal reports a corrupt durable record on every Load.
type corruptLocal struct {
	saved domain.Collection
}

func (f *corruptLocal) IsAvailable() bool { return true }

func (f *corruptLocal) Save(c domain.Collection) error {
	f.saved = c.Clone()
	return nil
}

func (f *corruptLocal) Load() (domain.Collection, bool, error) {
	return nil, false, local.ErrStorageCorrupt
}

func (f *corruptLocal) SaveToCache(domain.Collection) error { return nil }

func (f *corruptLocal) LoadFromCache(time.Duration) (domain.Collection, bool, error) {
	return nil, false, nil
}

func (f *corruptLocal) ClearCache() error { return nil }

func TestNewReseedsOnCorruptStore(t *testing.T) {
	fl := &corruptLocal{}
	c := New(Options{Local: fl, Logger: logger.NewNop()})

	assert.True(t, domain.Default().Equal(c.Snapshot()), "corrupt store must fall back to defaults")
	assert.True(t, domain.Default().Equal(fl.saved), "reseeded defaults must be persisted")
}

func TestUnauthenticatedPrefersCacheAndSkipsRemote(t *testing.T) {
	rs := newFakeRemote()
	c, ls := newCoordinator(t, rs)

	cached := domain.Collection{{Name: "Cached", Keywords: []string{"x"}}}
	require.NoError(t, ls.SaveToCache(cached))

	c.OnAuthChanged(context.Background(), nil)

	assert.True(t, cached.Equal(c.Snapshot()))
	assert.Zero(t, rs.loads, "unauthenticated load must never consult remote")
}

func TestUnauthenticatedNoCacheShowsDefaults(t *testing.T) {
	rs := newFakeRemote()
	c, ls := newCoordinator(t, rs)
	require.NoError(t, ls.ClearCache())

	c.OnAuthChanged(context.Background(), nil)

	assert.True(t, domain.Default().Equal(c.Snapshot()))
	assert.Zero(t, rs.loads)
}

func TestUnauthenticatedLoadKeepsDurableRecord(t *testing.T) {
	c, ls := newCoordinator(t, nil)

	mine := domain.Collection{{Name: "Mine", Keywords: []string{"example.org"}}}
	require.NoError(t, c.ReplaceAll(context.Background(), mine))

	// Expired envelope: signing out falls back to in-memory defaults,
	// but the durable record must stay untouched.
	require.NoError(t, ls.ClearCache())
	c.OnAuthChanged(context.Background(), nil)

	assert.True(t, domain.Default().Equal(c.Snapshot()), "cache miss must show defaults in memory")

	stored, ok, err := ls.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mine.Equal(stored), "unauthenticated load must not overwrite the durable record")
}

func TestAuthenticatedRemoteWinsOnDifference(t *testing.T) {
	rs := newFakeRemote()
	cloud := domain.Collection{{Name: "Cloud", Keywords: []string{"c1"}}}
	rs.docs["acct-1"] = cloud

	c, ls := newCoordinator(t, rs)

	c.OnAuthChanged(context.Background(), &User{ID: "acct-1"})

	assert.True(t, cloud.Equal(c.Snapshot()), "remote must win on structural difference")

	// Remote copy is re-persisted to both local tiers.
	stored, ok, err := ls.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, cloud.Equal(stored))

	cachedBack, ok, err := ls.LoadFromCache(local.DefaultCacheMaxAge)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, cloud.Equal(cachedBack))
}

func TestAuthenticatedRemoteEqualCacheNoRewrite(t *testing.T) {
	rs := newFakeRemote()
	same := domain.Collection{{Name: "Same", Keywords: []string{"x"}}}
	rs.docs["acct-1"] = same

	c, ls := newCoordinator(t, rs)
	require.NoError(t, ls.SaveToCache(same))

	c.OnAuthChanged(context.Background(), &User{ID: "acct-1"})

	assert.True(t, same.Equal(c.Snapshot()))
	assert.Equal(t, 1, rs.loads)
}

func TestAuthenticatedRemoteFailureKeepsCache(t *testing.T) {
	rs := newFakeRemote()
	rs.fail = true

	c, ls := newCoordinator(t, rs)
	cached := domain.Collection{{Name: "Cached", Keywords: []string{}}}
	require.NoError(t, ls.SaveToCache(cached))

	c.OnAuthChanged(context.Background(), &User{ID: "acct-1"})

	assert.True(t, cached.Equal(c.Snapshot()), "remote failure must keep cached copy")
}

func TestAuthenticatedRemoteAbsentFallsBackToLocal(t *testing.T) {
	rs := newFakeRemote()
	c, ls := newCoordinator(t, rs)
	require.NoError(t, ls.ClearCache())

	localCopy := domain.Collection{{Name: "Local", Keywords: []string{"l1"}}}
	require.NoError(t, ls.Save(localCopy))

	c.OnAuthChanged(context.Background(), &User{ID: "newbie"})

	assert.True(t, localCopy.Equal(c.Snapshot()))
	assert.Zero(t, rs.saves, "first cloud write is deferred to the next mutation")

	// The next mutation performs the first cloud write.
	require.NoError(t, c.AddGroup(context.Background(), "First"))
	assert.Equal(t, 1, rs.saves)
	assert.Len(t, rs.docs["newbie"], 2)
}

func TestMutationPersistsAllTiers(t *testing.T) {
	rs := newFakeRemote()
	c, ls := newCoordinator(t, rs)
	c.OnAuthChanged(context.Background(), &User{ID: "acct-1"})

	require.NoError(t, c.AddGroup(context.Background(), "New Group"))

	snap := c.Snapshot()
	assert.Equal(t, "New Group", snap[len(snap)-1].Name)

	stored, ok, err := ls.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, snap.Equal(stored))

	cached, ok, err := ls.LoadFromCache(local.DefaultCacheMaxAge)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, snap.Equal(cached))

	assert.True(t, snap.Equal(rs.docs["acct-1"]))
}

func TestMutationSkipsRemoteWhenUnauthenticated(t *testing.T) {
	rs := newFakeRemote()
	c, _ := newCoordinator(t, rs)
	c.OnAuthChanged(context.Background(), nil)

	require.NoError(t, c.AddGroup(context.Background(), "Offline Group"))
	assert.Zero(t, rs.saves)
}

func TestRemotePushFailureDoesNotRollBack(t *testing.T) {
	rs := newFakeRemote()
	c, ls := newCoordinator(t, rs)
	c.OnAuthChanged(context.Background(), &User{ID: "acct-1"})

	rs.fail = true
	require.NoError(t, c.AddGroup(context.Background(), "Survives"), "cloud failure must not fail the mutation")

	snap := c.Snapshot()
	assert.Equal(t, "Survives", snap[len(snap)-1].Name)

	stored, _, err := ls.Load()
	require.NoError(t, err)
	assert.True(t, snap.Equal(stored), "local tiers persist even when cloud push fails")
}

func TestInvalidMutationRejectedBeforePersist(t *testing.T) {
	rs := newFakeRemote()
	c, _ := newCoordinator(t, rs)
	c.OnAuthChanged(context.Background(), &User{ID: "acct-1"})
	before := c.Snapshot()
	savesBefore := rs.saves

	assert.Error(t, c.MoveGroup(context.Background(), 0, 99))
	assert.True(t, before.Equal(c.Snapshot()), "rejected mutation must not touch the model")
	assert.Equal(t, savesBefore, rs.saves)
}

func TestImportMergesAndPersists(t *testing.T) {
	c, _ := newCoordinator(t, nil)
	require.NoError(t, c.ReplaceAll(context.Background(), domain.Collection{
		{Name: "A", Keywords: []string{"x"}},
	}))

	require.NoError(t, c.Import(context.Background(), []byte(`[{"name":"A","keywords":["x","y"]}]`)))

	snap := c.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, []string{"x", "y"}, snap[0].Keywords)
}

func TestImportInvalidRejectedWholesale(t *testing.T) {
	c, _ := newCoordinator(t, nil)
	before := c.Snapshot()

	err := c.Import(context.Background(), []byte(`[{"name":"ok","keywords":[]},{"bad":true}]`))
	assert.ErrorIs(t, err, domain.ErrImportValidation)
	assert.True(t, before.Equal(c.Snapshot()), "no partial application on invalid import")
}

func TestStaleLoadDiscardedAfterMutation(t *testing.T) {
	rs := newFakeRemote()
	rs.docs["acct-1"] = domain.Collection{{Name: "Stale Cloud", Keywords: []string{}}}

	c, _ := newCoordinator(t, rs)
	c.mu.Lock()
	c.user = &User{ID: "acct-1"}
	c.mu.Unlock()

	// The mutation lands while the remote load is in flight.
	rs.onLoad = func() {
		rs.onLoad = nil
		require.NoError(t, c.AddGroup(context.Background(), "Fresh Edit"))
	}

	c.LoadWithCache(context.Background())

	snap := c.Snapshot()
	found := false
	for _, g := range snap {
		require.NotEqual(t, "Stale Cloud", g.Name, "stale remote result must be discarded")
		if g.Name == "Fresh Edit" {
			found = true
		}
	}
	assert.True(t, found, "the racing edit must survive")
}

func TestExportSnapshotRoundTrip(t *testing.T) {
	c, _ := newCoordinator(t, nil)

	data, err := c.Export()
	require.NoError(t, err)

	back, err := domain.ParseImport(data)
	require.NoError(t, err)
	assert.True(t, c.Snapshot().Equal(back))
}

func TestSearchFiltersSnapshot(t *testing.T) {
	c, _ := newCoordinator(t, nil)
	require.NoError(t, c.ReplaceAll(context.Background(), domain.Collection{
		{Name: "Videos", Keywords: []string{"www.youtube.com"}},
		{Name: "Work", Keywords: []string{"jira"}},
	}))

	assert.Len(t, c.Search("youtube"), 1)
	assert.Len(t, c.Search(""), 2)
	assert.Len(t, c.Search("zzz"), 0)
}
