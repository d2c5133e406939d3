package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/netcompare/internal/catalog"
	"github.com/MrSnakeDoc/netcompare/internal/logger"
)

const watchDebounce = 250 * time.Millisecond

// CatalogReloader re-reads the filter catalog on a ticker, on manual
// trigger and when the catalog file changes on disk.
type CatalogReloader struct {
	loader        *catalog.Loader
	holder        *catalog.Holder
	logger        logger.Logger
	interval      time.Duration
	manualTrigger chan struct{}

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewCatalogReloader creates a reloader. interval <= 0 disables the ticker;
// an empty file disables both ticker and watcher since the built-in
// catalog never changes.
func NewCatalogReloader(
	file string,
	holder *catalog.Holder,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CatalogReloader {
	return &CatalogReloader{
		loader:        catalog.NewLoader(file),
		holder:        holder,
		logger:        log,
		interval:      interval,
		manualTrigger: manualTrigger,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

// Start loads the catalog once and then runs in the background until Stop
// or ctx is done.
func (cr *CatalogReloader) Start(ctx context.Context) error {
	if err := cr.Reload(); err != nil {
		close(cr.doneCh)
		return fmt.Errorf("initial reload failed: %w", err)
	}

	var watcher *fsnotify.Watcher
	if path := cr.loader.Path(); path != "" {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			cr.logger.Warn("catalog watcher unavailable, relying on ticker", logger.Error(err))
		} else if err := w.Add(filepath.Dir(path)); err != nil {
			cr.logger.Warn("failed to watch catalog directory", logger.String("dir", filepath.Dir(path)), logger.Error(err))
			_ = w.Close()
		} else {
			watcher = w
		}
	}

	go cr.run(ctx, watcher)
	return nil
}

func (cr *CatalogReloader) run(ctx context.Context, watcher *fsnotify.Watcher) {
	defer close(cr.doneCh)

	var tick <-chan time.Time
	if cr.interval > 0 && cr.loader.Path() != "" {
		ticker := time.NewTicker(cr.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var events <-chan fsnotify.Event
	var watchErrs <-chan error
	if watcher != nil {
		defer func() { _ = watcher.Close() }()
		events = watcher.Events
		watchErrs = watcher.Errors
	}

	// Editors write in several steps; reload once things settle.
	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()
	defer debounce.Stop()

	target := filepath.Clean(cr.loader.Path())

	for {
		select {
		case <-tick:
			cr.reloadLogged("ticker")
		case <-cr.manualTrigger:
			cr.logger.Info("manual reload triggered")
			cr.reloadLogged("manual")
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			debounce.Reset(watchDebounce)
		case <-debounce.C:
			cr.reloadLogged("file change")
		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			cr.logger.Warn("catalog watcher error", logger.Error(err))
		case <-cr.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop stops the reloader and waits for its goroutine to exit.
func (cr *CatalogReloader) Stop() {
	cr.stopOnce.Do(func() { close(cr.stopCh) })
	<-cr.doneCh
}

// Reload loads the catalog and installs it. On error the previous catalog
// stays active.
func (cr *CatalogReloader) Reload() error {
	c, err := cr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	cr.holder.Set(c)
	cr.logger.Info("catalog loaded",
		logger.String("file", cr.loader.Path()),
		logger.Int("speed_tiers", len(c.SpeedTiers)),
		logger.Int("data_tiers", len(c.DataTiers)))
	return nil
}

func (cr *CatalogReloader) reloadLogged(reason string) {
	if err := cr.Reload(); err != nil {
		cr.logger.Error("failed to reload catalog",
			logger.String("reason", reason),
			logger.Error(err))
	}
}
