package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/websaver/internal/logger"
)

// Coordinator is the slice of the sync layer the syncer drives.
type Coordinator interface {
	LoadWithCache(ctx context.Context)
}

// CloudSyncer re-runs the authenticated load protocol on an interval,
// or immediately when the manual trigger fires (the "Sync with Cloud"
// action).
type CloudSyncer struct {
	coordinator   Coordinator
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCloudSyncer creates a new cloud syncer
func NewCloudSyncer(
	coordinator Coordinator,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CloudSyncer {
	return &CloudSyncer{
		coordinator:   coordinator,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic sync process
func (cs *CloudSyncer) Start(ctx context.Context) error {
	ticker := time.NewTicker(cs.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cs.logger.Debug("periodic cloud sync")
				cs.coordinator.LoadWithCache(ctx)
			case <-cs.manualTrigger:
				cs.logger.Info("manual cloud sync triggered")
				cs.coordinator.LoadWithCache(ctx)
			case <-cs.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the syncer
func (cs *CloudSyncer) Stop() {
	close(cs.stopCh)
}
