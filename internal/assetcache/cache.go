// Package assetcache fronts the static-asset origin with a versioned
// in-process cache so the app shell keeps rendering when the origin is
// unreachable. Navigation requests are network-first with a cached
// fallback; other same-origin assets are cache-first with a background
// refresh.
package assetcache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/websaver/internal/logger"
)

// ErrNoOrigin is returned when the cache is constructed without an
// upstream asset origin.
var ErrNoOrigin = errors.New("asset origin not configured")

const (
	fetchTimeout   = 10 * time.Second
	refreshTimeout = 15 * time.Second
	maxBodySize    = 8 << 20 // 8 MiB per asset
)

type entry struct {
	body        []byte
	contentType string
	fetchedAt   time.Time
}

// Cache stores asset bodies per generation. Bumping the generation name
// invalidates everything older on the next Activate.
type Cache struct {
	mu          sync.RWMutex
	generations map[string]map[string]*entry // generation -> path -> entry

	current  string
	origin   *url.URL
	precache []string
	client   *http.Client
	logger   logger.Logger
}

// Options configures a Cache.
type Options struct {
	Origin    string   // upstream base URL, ex: http://127.0.0.1:9000
	CacheName string   // current generation name, ex: ws-cache-v1
	Precache  []string // paths fetched eagerly on Install
	Client    *http.Client
	Logger    logger.Logger
}

// New creates a Cache for the given origin.
func New(opts Options) (*Cache, error) {
	if opts.Origin == "" {
		return nil, ErrNoOrigin
	}
	origin, err := url.Parse(opts.Origin)
	if err != nil {
		return nil, fmt.Errorf("invalid asset origin %q: %w", opts.Origin, err)
	}
	if opts.CacheName == "" {
		opts.CacheName = "ws-cache-v1"
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: fetchTimeout}
	}
	return &Cache{
		generations: map[string]map[string]*entry{opts.CacheName: {}},
		current:     opts.CacheName,
		origin:      origin,
		precache:    opts.Precache,
		client:      opts.Client,
		logger:      opts.Logger,
	}, nil
}

// Install precaches the configured paths into the current generation.
// Individual fetch failures are logged and skipped so one missing asset
// never blocks startup.
func (c *Cache) Install(ctx context.Context) {
	for _, path := range c.precache {
		if err := c.refresh(ctx, path); err != nil {
			c.logger.Warn("precache failed, skipping asset",
				logger.String("path", path),
				logger.Error(err))
		}
	}
	c.logger.Info("asset precache complete",
		logger.String("generation", c.current),
		logger.Int("assets", c.Count()))
}

// Activate drops every generation that does not match the current name.
// Called once after Install and periodically by the janitor.
func (c *Cache) Activate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for name := range c.generations {
		if name != c.current {
			delete(c.generations, name)
			c.logger.Info("pruned stale asset generation", logger.String("generation", name))
		}
	}
	if c.generations[c.current] == nil {
		c.generations[c.current] = map[string]*entry{}
	}
}

// Generation returns the current generation name.
func (c *Cache) Generation() string {
	return c.current
}

// Count returns the number of cached assets in the current generation.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.generations[c.current])
}

// Generations lists every generation currently held, stale ones included.
func (c *Cache) Generations() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.generations))
	for name := range c.generations {
		names = append(names, name)
	}
	return names
}

func (c *Cache) get(path string) (*entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.generations[c.current][path]
	return e, ok
}

func (c *Cache) put(path string, e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.generations[c.current]
	if gen == nil {
		gen = map[string]*entry{}
		c.generations[c.current] = gen
	}
	gen[path] = e
}

// fetch retrieves path from the origin and caches the body on success.
func (c *Cache) fetch(ctx context.Context, path string) (*entry, error) {
	target := c.origin.JoinPath(path).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("origin returned %s for %s", resp.Status, path)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}

	e := &entry{
		body:        body,
		contentType: resp.Header.Get("Content-Type"),
		fetchedAt:   time.Now(),
	}
	c.put(path, e)
	return e, nil
}

func (c *Cache) refresh(ctx context.Context, path string) error {
	_, err := c.fetch(ctx, path)
	return err
}

// isNavigation mirrors the app-shell rule: the root path or anything the
// client asks for as an HTML document.
func isNavigation(r *http.Request) bool {
	if r.URL.Path == "/" || r.URL.Path == "" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// ServeHTTP serves assets with the offline-first policy. Non-GET
// requests are proxied straight through without touching the cache.
func (c *Cache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		c.proxy(w, r)
		return
	}
	if isNavigation(r) {
		c.serveNavigation(w, r)
		return
	}
	c.serveAsset(w, r)
}

// serveNavigation is network-first: the freshest shell when online, the
// cached shell when not.
func (c *Cache) serveNavigation(w http.ResponseWriter, r *http.Request) {
	path := normalizePath(r.URL.Path)

	e, err := c.fetch(r.Context(), path)
	if err == nil {
		writeEntry(w, r, e, "network")
		return
	}
	c.logger.Debug("navigation fetch failed, trying cache",
		logger.String("path", path),
		logger.Error(err))

	for _, candidate := range []string{path, "/", "/index.html"} {
		if cached, ok := c.get(candidate); ok {
			writeEntry(w, r, cached, "cache")
			return
		}
	}
	http.Error(w, "asset origin unreachable", http.StatusServiceUnavailable)
}

// serveAsset is cache-first: a hit is served immediately and refreshed
// in the background, a miss is fetched and cached on the way through.
func (c *Cache) serveAsset(w http.ResponseWriter, r *http.Request) {
	path := normalizePath(r.URL.Path)

	if cached, ok := c.get(path); ok {
		writeEntry(w, r, cached, "cache")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
			defer cancel()
			if err := c.refresh(ctx, path); err != nil {
				c.logger.Debug("background refresh failed",
					logger.String("path", path),
					logger.Error(err))
			}
		}()
		return
	}

	e, err := c.fetch(r.Context(), path)
	if err != nil {
		c.logger.Warn("asset fetch failed",
			logger.String("path", path),
			logger.Error(err))
		http.Error(w, "asset unavailable", http.StatusBadGateway)
		return
	}
	writeEntry(w, r, e, "network")
}

// proxy forwards the request to the origin untouched. Used for methods
// the cache never intercepts.
func (c *Cache) proxy(w http.ResponseWriter, r *http.Request) {
	target := c.origin.JoinPath(r.URL.Path).String()
	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	req.Header = r.Header.Clone()

	resp, err := c.client.Do(req)
	if err != nil {
		http.Error(w, "asset origin unreachable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		c.logger.Debug("proxy copy interrupted", logger.Error(err))
	}
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}

func writeEntry(w http.ResponseWriter, r *http.Request, e *entry, source string) {
	if e.contentType != "" {
		w.Header().Set("Content-Type", e.contentType)
	}
	w.Header().Set("X-Asset-Source", source)
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	if _, err := w.Write(e.body); err != nil {
		// Client went away mid-write, nothing to do.
		_ = err
	}
}
