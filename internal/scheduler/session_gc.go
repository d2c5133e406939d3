package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/netcompare/internal/logger"
	"github.com/MrSnakeDoc/netcompare/internal/store"
)

const (
	// DefaultGCThreshold is how long an untouched session snapshot is kept.
	DefaultGCThreshold = 30 * 24 * time.Hour // 30 days
)

// GarbageCollector sweeps stale session snapshots from backends that have
// no native expiry.
type GarbageCollector struct {
	sweeper   store.Sweeper
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	now       func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewGarbageCollector creates a new garbage collector
func NewGarbageCollector(
	sweeper store.Sweeper,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *GarbageCollector {
	if threshold == 0 {
		threshold = DefaultGCThreshold
	}

	return &GarbageCollector{
		sweeper:   sweeper,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		now:       time.Now,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs one collection and then collects every interval. An
// interval <= 0 leaves only the initial collection.
func (gc *GarbageCollector) Start(ctx context.Context) error {
	if _, err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial garbage collection failed",
			logger.Error(err))
	}

	if gc.interval <= 0 {
		gc.logger.Info("periodic garbage collection disabled",
			logger.Duration("interval", gc.interval))
		close(gc.doneCh)
		return nil
	}

	ticker := time.NewTicker(gc.interval)
	go func() {
		defer close(gc.doneCh)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := gc.Collect(ctx); err != nil {
					gc.logger.Error("garbage collection failed",
						logger.Error(err))
				}
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the garbage collector and waits for it to exit.
func (gc *GarbageCollector) Stop() {
	gc.stopOnce.Do(func() { close(gc.stopCh) })
	<-gc.doneCh
}

// Collect removes snapshots last read or written more than threshold ago.
func (gc *GarbageCollector) Collect(ctx context.Context) (int, error) {
	cutoff := gc.now().Add(-gc.threshold)
	removed, err := gc.sweeper.Sweep(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		gc.logger.Info("garbage collection completed",
			logger.Int("entries_deleted", removed),
			logger.String("cutoff", cutoff.Format(time.RFC3339)))
	} else {
		gc.logger.Debug("no session snapshots to garbage collect")
	}
	return removed, nil
}
