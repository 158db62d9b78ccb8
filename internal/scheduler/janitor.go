package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/MrSnakeDoc/websaver/internal/domain"
	"github.com/MrSnakeDoc/websaver/internal/logger"
	"github.com/MrSnakeDoc/websaver/internal/store/local"
)

const (
	// DefaultJanitorInterval is the default delay between sweeps
	DefaultJanitorInterval = time.Hour
)

// EnvelopeStore is the slice of the local store the janitor sweeps.
// Loading an expired envelope evicts it as a side effect.
type EnvelopeStore interface {
	LoadFromCache(maxAge time.Duration) (domain.Collection, bool, error)
}

// AssetPruner prunes stale asset-cache generations.
type AssetPruner interface {
	Activate()
}

// CacheJanitor periodically evicts the expired cache envelope and
// prunes stale asset-cache generations.
type CacheJanitor struct {
	store    EnvelopeStore
	assets   AssetPruner
	logger   logger.Logger
	interval time.Duration
	maxAge   time.Duration
	stopCh   chan struct{}
}

// NewCacheJanitor creates a new cache janitor. assets may be nil when
// the asset cache is disabled.
func NewCacheJanitor(
	store EnvelopeStore,
	assets AssetPruner,
	log logger.Logger,
	interval time.Duration,
	maxAge time.Duration,
) *CacheJanitor {
	if interval == 0 {
		interval = DefaultJanitorInterval
	}
	if maxAge == 0 {
		maxAge = local.DefaultCacheMaxAge
	}

	return &CacheJanitor{
		store:    store,
		assets:   assets,
		logger:   log,
		interval: interval,
		maxAge:   maxAge,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep process
func (cj *CacheJanitor) Start(ctx context.Context) error {
	// Run immediately on start
	cj.Sweep(ctx)

	ticker := time.NewTicker(cj.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cj.Sweep(ctx)
			case <-cj.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the janitor
func (cj *CacheJanitor) Stop() {
	close(cj.stopCh)
}

// Sweep evicts the envelope when expired and prunes asset generations.
func (cj *CacheJanitor) Sweep(_ context.Context) {
	if cj.store != nil {
		_, _, err := cj.store.LoadFromCache(cj.maxAge)
		switch {
		case err == nil:
			cj.logger.Debug("cache envelope fresh, nothing to sweep")
		case errors.Is(err, local.ErrCacheExpired):
			cj.logger.Info("evicted expired cache envelope")
		default:
			cj.logger.Warn("cache sweep failed", logger.Error(err))
		}
	}

	if cj.assets != nil {
		cj.assets.Activate()
	}
}
