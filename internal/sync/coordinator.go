// Package sync holds the coordinator that converges the in-memory
// working copy, the durable local store, the cache envelope and the
// remote document onto a single collection, across offline/online and
// auth transitions.
package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"time"

	"github.com/MrSnakeDoc/websaver/internal/domain"
	"github.com/MrSnakeDoc/websaver/internal/logger"
	"github.com/MrSnakeDoc/websaver/internal/store/local"
	"github.com/MrSnakeDoc/websaver/internal/store/remote"
)

// User identifies an authenticated account. A nil *User means the
// session is unauthenticated.
type User struct {
	ID    string
	Email string // empty => stored as null in the remote document
}

// LocalStore is the durable local tier consumed by the coordinator.
// *local.Store satisfies it.
type LocalStore interface {
	IsAvailable() bool
	Save(domain.Collection) error
	Load() (domain.Collection, bool, error)
	SaveToCache(domain.Collection) error
	LoadFromCache(maxAge time.Duration) (domain.Collection, bool, error)
	ClearCache() error
}

// RemoteStore is the cloud document tier. *remote.Store satisfies it.
// A nil RemoteStore disables cloud sync entirely (local-only mode).
type RemoteStore interface {
	SaveUserData(ctx context.Context, accountID string, c domain.Collection, email *string) error
	LoadUserData(ctx context.Context, accountID string) (*remote.Document, error)
}

// Coordinator owns the working copy. All mutations and loads go through
// it; everything else only ever sees clones.
//
// Persistence is best-effort: a mutation is applied to the working
// copy first and storage-tier failures never roll it back. Local state
// is always the most current state.
type Coordinator struct {
	mu      stdsync.Mutex
	working domain.Collection
	user    *User

	// loadSeq counts mutations. A load snapshot records it when it
	// starts; a remote result that lands after a newer mutation is
	// discarded instead of overwriting the edit.
	loadSeq uint64

	local       LocalStore
	remote      RemoteStore
	cacheMaxAge time.Duration

	storageOK     bool
	storageWarned bool

	logger logger.Logger
	notify Notifier
}

// Options configures a Coordinator.
type Options struct {
	Local       LocalStore
	Remote      RemoteStore // nil = local-only mode
	CacheMaxAge time.Duration
	Logger      logger.Logger
	Notifier    Notifier
}

// New creates a Coordinator and performs the startup storage probe and
// initial local load. With no stored data (or corrupt data) the
// built-in defaults are seeded and persisted.
func New(opts Options) *Coordinator {
	if opts.CacheMaxAge <= 0 {
		opts.CacheMaxAge = local.DefaultCacheMaxAge
	}
	if opts.Notifier == nil {
		opts.Notifier = NopNotifier{}
	}
	c := &Coordinator{
		local:       opts.Local,
		remote:      opts.Remote,
		cacheMaxAge: opts.CacheMaxAge,
		logger:      opts.Logger,
		notify:      opts.Notifier,
	}

	c.storageOK = c.local.IsAvailable()
	if !c.storageOK {
		c.warnStorageOnce()
	}

	c.working = c.loadLocalOrDefault()
	return c
}

// loadLocalOrDefault reads the durable working copy, reseeding and
// persisting defaults when it is absent or corrupt.
func (c *Coordinator) loadLocalOrDefault() domain.Collection {
	if c.storageOK {
		stored, ok, err := c.local.Load()
		if err != nil {
			if errors.Is(err, local.ErrStorageCorrupt) {
				c.logger.Warn("stored collection corrupt, reseeding defaults", logger.Error(err))
				c.notify.Notify("⚠️ Stored data was unreadable, defaults restored")
			} else {
				c.warnStorageOnce()
			}
		} else if ok {
			return stored
		}
	}
	def := domain.Default()
	c.persistLocal(def)
	return def
}

func (c *Coordinator) warnStorageOnce() {
	if c.storageWarned {
		return
	}
	c.storageWarned = true
	c.storageOK = false
	c.logger.Warn("local storage unavailable, operating memory-only")
	c.notify.Notify("⚠️ Local storage is not available. Your data may not be saved on this device.")
}

// persistLocal writes both local tiers (durable record + cache
// envelope). Best effort: a failure flips the session to memory-only
// with a one-time warning.
func (c *Coordinator) persistLocal(col domain.Collection) {
	if !c.storageOK {
		return
	}
	if err := c.local.Save(col); err != nil {
		c.logger.Error("failed to persist working copy", logger.Error(err))
		c.warnStorageOnce()
		return
	}
	if err := c.local.SaveToCache(col); err != nil {
		c.logger.Error("failed to persist cache envelope", logger.Error(err))
	}
}

// pushRemote upserts the account document. Failure notifies but never
// rolls anything back.
func (c *Coordinator) pushRemote(ctx context.Context, user *User, col domain.Collection) {
	if c.remote == nil || user == nil {
		return
	}
	var email *string
	if user.Email != "" {
		e := user.Email
		email = &e
	}
	if err := c.remote.SaveUserData(ctx, user.ID, col, email); err != nil {
		c.logger.Error("failed to save to cloud",
			logger.String("account", user.ID),
			logger.Error(err))
		c.notify.Notify("⚠️ Failed to save to cloud")
		return
	}
	c.logger.Debug("collection saved to cloud", logger.String("account", user.ID))
}

// User returns the current account, nil when unauthenticated.
func (c *Coordinator) User() *User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// Snapshot returns a deep copy of the working copy for rendering.
func (c *Coordinator) Snapshot() domain.Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.working.Clone()
}

// Search returns the groups matching term (case-insensitive substring
// over names and keywords).
func (c *Coordinator) Search(term string) domain.Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.working.Filter(term)
}

// OnAuthChanged is the external auth-state notification. It swaps the
// session account and runs the matching load protocol.
func (c *Coordinator) OnAuthChanged(ctx context.Context, user *User) {
	c.mu.Lock()
	c.user = user
	c.mu.Unlock()

	if user == nil {
		c.loadUnauthenticated()
		return
	}
	c.LoadWithCache(ctx)
}

// loadUnauthenticated prefers the cache envelope, else the built-in
// defaults. The remote tier is never consulted: signed-out users get
// local/offline data only. Defaults stay in memory and are not written
// to storage; the durable record keeps whatever the user last saved,
// and the next mutation persists as usual.
func (c *Coordinator) loadUnauthenticated() {
	if cached, ok := c.loadCache(); ok {
		c.mu.Lock()
		c.working = cached
		c.mu.Unlock()
		c.notify.Notify("📱 Loaded from cache")
		return
	}
	c.mu.Lock()
	c.working = domain.Default()
	c.mu.Unlock()
	c.notify.Notify("👋 Showing default groups.")
}

func (c *Coordinator) loadCache() (domain.Collection, bool) {
	if !c.storageOK {
		return nil, false
	}
	cached, ok, err := c.local.LoadFromCache(c.cacheMaxAge)
	if err != nil {
		if errors.Is(err, local.ErrCacheExpired) {
			c.logger.Debug("cache envelope expired, evicted")
		} else {
			c.logger.Warn("failed to load cache envelope", logger.Error(err))
		}
		return nil, false
	}
	if !ok || len(cached) == 0 {
		return nil, false
	}
	return cached, true
}

// LoadWithCache is the authenticated load protocol. Sequence:
//
//  1. Cache envelope first: a hit becomes the working copy immediately
//     so the user sees something before any network round trip.
//  2. Remote document next. On failure the cached/local copy stands.
//  3. A present remote document that differs structurally from the
//     cached copy wins unconditionally and is re-persisted locally.
//     An absent document defers the first cloud write to the next
//     mutation.
//
// A remote result is discarded when a mutation landed after the load
// began, so a slow load cannot clobber a newer edit.
func (c *Coordinator) LoadWithCache(ctx context.Context) {
	c.mu.Lock()
	user := c.user
	seq := c.loadSeq
	c.mu.Unlock()

	if user == nil {
		c.loadUnauthenticated()
		return
	}

	cached, cacheHit := c.loadCache()
	if cacheHit {
		c.mu.Lock()
		if c.loadSeq == seq {
			c.working = cached
		}
		c.mu.Unlock()
		c.notify.Notify("📱 Loaded from cache")
	}

	doc, err := c.remoteLoad(ctx, user.ID)
	if err != nil {
		if errors.Is(err, remote.ErrDocumentAbsent) {
			// First-time cloud use for this account: local-or-default
			// stands, the first cloud write happens on the next mutation.
			c.logger.Info("no remote document yet", logger.String("account", user.ID))
			if !cacheHit {
				col := c.loadLocalOrDefault()
				c.mu.Lock()
				if c.loadSeq == seq {
					c.working = col
				}
				c.mu.Unlock()
			}
			return
		}
		c.logger.Warn("cloud sync failed, local copy stands", logger.Error(err))
		c.notify.Notify("⚠️ Cloud sync failed, using local data")
		return
	}

	if cacheHit && doc.Groups.Equal(cached) {
		c.logger.Debug("remote matches cache, nothing to do")
		return
	}

	c.mu.Lock()
	if c.loadSeq != seq {
		// A mutation happened while the load was in flight. Local state
		// is newer; drop the remote result.
		c.mu.Unlock()
		c.logger.Info("discarding stale remote load, local edit is newer")
		return
	}
	c.working = doc.Groups.Clone()
	col := c.working.Clone()
	c.mu.Unlock()

	c.persistLocal(col)
	c.notify.Notify("☁️ Synced with cloud")
}

func (c *Coordinator) remoteLoad(ctx context.Context, accountID string) (*remote.Document, error) {
	if c.remote == nil {
		return nil, remote.ErrDocumentAbsent
	}
	return c.remote.LoadUserData(ctx, accountID)
}

// mutate runs fn against the working copy under the mutation protocol:
// apply in memory, bump the sequence, persist both local tiers
// unconditionally, push to the cloud when authenticated. fn returns the
// (possibly reallocated) collection; returning an error rejects the
// mutation before anything is touched downstream.
func (c *Coordinator) mutate(ctx context.Context, fn func(domain.Collection) (domain.Collection, error)) error {
	c.mu.Lock()
	next, err := fn(c.working)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.working = next
	c.loadSeq++
	user := c.user
	col := c.working.Clone()
	c.mu.Unlock()

	c.persistLocal(col)
	c.pushRemote(ctx, user, col)
	return nil
}

// AddGroup appends a new empty group.
func (c *Coordinator) AddGroup(ctx context.Context, name string) error {
	return c.mutate(ctx, func(col domain.Collection) (domain.Collection, error) {
		return col.AddGroup(name)
	})
}

// RenameGroup renames the group at index.
func (c *Coordinator) RenameGroup(ctx context.Context, index int, name string) error {
	return c.mutate(ctx, func(col domain.Collection) (domain.Collection, error) {
		return col, col.RenameGroup(index, name)
	})
}

// DeleteGroup removes the group at index.
func (c *Coordinator) DeleteGroup(ctx context.Context, index int) error {
	return c.mutate(ctx, func(col domain.Collection) (domain.Collection, error) {
		return col.DeleteGroup(index)
	})
}

// MoveGroup reorders the collection: one atomic mutation per drop.
func (c *Coordinator) MoveGroup(ctx context.Context, from, to int) error {
	return c.mutate(ctx, func(col domain.Collection) (domain.Collection, error) {
		return col, col.MoveGroup(from, to)
	})
}

// AddKeyword appends a keyword to the group at index.
func (c *Coordinator) AddKeyword(ctx context.Context, index int, keyword string) error {
	return c.mutate(ctx, func(col domain.Collection) (domain.Collection, error) {
		return col, col.AddKeyword(index, keyword)
	})
}

// EditKeyword replaces a keyword in place.
func (c *Coordinator) EditKeyword(ctx context.Context, index, kw int, keyword string) error {
	return c.mutate(ctx, func(col domain.Collection) (domain.Collection, error) {
		return col, col.EditKeyword(index, kw, keyword)
	})
}

// DeleteKeyword removes a keyword.
func (c *Coordinator) DeleteKeyword(ctx context.Context, index, kw int) error {
	return c.mutate(ctx, func(col domain.Collection) (domain.Collection, error) {
		return col, col.DeleteKeyword(index, kw)
	})
}

// Import validates payload all-or-nothing, merges it (keyword union on
// name-matched groups, wholesale append otherwise) and runs the result
// through the mutation protocol.
func (c *Coordinator) Import(ctx context.Context, payload []byte) error {
	imported, err := domain.ParseImport(payload)
	if err != nil {
		c.notify.Notify("Import failed: Invalid format.")
		return err
	}
	err = c.mutate(ctx, func(col domain.Collection) (domain.Collection, error) {
		return col.Merge(imported), nil
	})
	if err == nil {
		c.notify.Notify("Groups imported successfully!")
	}
	return err
}

// ReplaceAll swaps the whole collection (seeding, tests).
func (c *Coordinator) ReplaceAll(ctx context.Context, col domain.Collection) error {
	if err := col.Validate(); err != nil {
		return err
	}
	return c.mutate(ctx, func(domain.Collection) (domain.Collection, error) {
		return col.Clone(), nil
	})
}

// Export serializes the working copy as the pretty-printed export file.
func (c *Coordinator) Export() ([]byte, error) {
	return c.Snapshot().Export()
}
