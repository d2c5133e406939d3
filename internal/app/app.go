// Package app wires the web front: store backend, offer client, filter
// catalog, background jobs and the HTTP server.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/netcompare/internal/catalog"
	"github.com/MrSnakeDoc/netcompare/internal/config"
	"github.com/MrSnakeDoc/netcompare/internal/httpserver"
	"github.com/MrSnakeDoc/netcompare/internal/httpserver/deps"
	"github.com/MrSnakeDoc/netcompare/internal/httpserver/views"
	"github.com/MrSnakeDoc/netcompare/internal/logger"
	"github.com/MrSnakeDoc/netcompare/internal/offerapi"
	"github.com/MrSnakeDoc/netcompare/internal/scheduler"
	"github.com/MrSnakeDoc/netcompare/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	server   *httpserver.Server
	backend  *Backend
	reloader *scheduler.CatalogReloader
	gc       *scheduler.GarbageCollector // nil for redis, which expires keys itself
}

// New opens the store and builds the server. Nothing runs until Run.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	backend, err := OpenStore(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}
	loggerClient.Info("session store ready", logger.String("backend", backend.Name))

	renderer, err := views.New()
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	api := offerapi.New(offerapi.Options{
		BaseURL: cfg.APIURL,
		Timeout: cfg.APITimeout,
	}, loggerClient)

	holder := catalog.NewHolder(catalog.Default())
	reloadTrigger := make(chan struct{}, 1)
	reloader := scheduler.NewCatalogReloader(
		cfg.CatalogFile,
		holder,
		loggerClient,
		cfg.CatalogReloadInterval,
		reloadTrigger,
	)

	var gc *scheduler.GarbageCollector
	if backend.Sweeper != nil {
		gc = scheduler.NewGarbageCollector(
			backend.Sweeper,
			loggerClient,
			cfg.GCInterval,
			cfg.SessionTTL,
		)
	}

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		API:           api,
		Store:         backend.KV,
		StoreBackend:  backend.Name,
		Catalog:       holder,
		Views:         renderer,
		PublicURL:     cfg.PublicURL,
		CookieName:    cfg.CookieName,
		CookieSecure:  cfg.CookieSecure,
		SessionTTL:    cfg.SessionTTL,
		ReloadTrigger: reloadTrigger,
	}
	if backend.Pinger != nil {
		d.StorePinger = backend.Pinger
	}

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		server:   httpserver.New(cfg, loggerClient, d),
		backend:  backend,
		reloader: reloader,
		gc:       gc,
	}, nil
}

// Run starts the background jobs and the server and blocks until ctx is
// cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	defer a.backend.Close()

	a.logger.Infof("🚀 Starting netcompare %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("netcompare %s", version.String())

	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start catalog reloader: %w", err)
	}
	defer a.reloader.Stop()
	a.logger.Info("catalog reloader started",
		logger.String("file", a.cfg.CatalogFile),
		logger.Duration("interval", a.cfg.CatalogReloadInterval))

	if a.gc != nil {
		if err := a.gc.Start(ctx); err != nil {
			return fmt.Errorf("failed to start garbage collector: %w", err)
		}
		defer a.gc.Stop()
		a.logger.Info("garbage collector started",
			logger.Duration("interval", a.cfg.GCInterval),
			logger.Duration("threshold", a.cfg.SessionTTL))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ netcompare stopped cleanly")
	return nil
}
