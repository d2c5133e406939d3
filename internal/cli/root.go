// Package cli is the netcompare command line: a terminal front over the
// same controller the web front uses, plus the serve command.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/netcompare/internal/app"
	"github.com/MrSnakeDoc/netcompare/internal/catalog"
	"github.com/MrSnakeDoc/netcompare/internal/config"
	"github.com/MrSnakeDoc/netcompare/internal/logger"
	"github.com/MrSnakeDoc/netcompare/internal/offerapi"
	"github.com/MrSnakeDoc/netcompare/internal/persist"
	"github.com/MrSnakeDoc/netcompare/internal/session"
	"github.com/MrSnakeDoc/netcompare/internal/store"
	"github.com/MrSnakeDoc/netcompare/internal/version"
)

// cliScope is the store namespace of the terminal session.
const cliScope = "cli"

type globalOptions struct {
	apiURL   string
	backend  string
	dbPath   string
	logLevel string
	timeout  time.Duration
}

// runtime is what every command needs once flags are parsed.
type runtime struct {
	opts globalOptions
	cfg  *config.Config
	log  logger.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:           "netcompare",
		Short:         "Compare internet offers available at an address",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&rt.opts.apiURL, "api-url", "", "offer backend base URL (overrides NETCOMPARE_API_URL)")
	pf.StringVar(&rt.opts.backend, "store", "", "snapshot store: sqlite, redis or memory (overrides NETCOMPARE_STORE_BACKEND)")
	pf.StringVar(&rt.opts.dbPath, "db", "", "sqlite database file (overrides NETCOMPARE_SQLITE_PATH)")
	pf.StringVar(&rt.opts.logLevel, "log-level", "", "debug, info, warn or error")
	pf.DurationVar(&rt.opts.timeout, "timeout", 0, "backend request timeout (overrides NETCOMPARE_API_TIMEOUT)")

	root.AddCommand(
		newServeCmd(rt),
		newSearchCmd(rt),
		newFilterCmd(rt),
		newShowCmd(rt),
		newShareCmd(rt),
		newSharedCmd(rt),
		newForgetCmd(rt),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("❌ "+err.Error()))
		return 1
	}
	return 0
}

func (rt *runtime) init(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if rt.opts.apiURL != "" {
		cfg.APIURL = strings.TrimRight(rt.opts.apiURL, "/")
	}
	if rt.opts.backend != "" {
		cfg.StoreBackend = strings.ToLower(rt.opts.backend)
	}
	if rt.opts.dbPath != "" {
		cfg.SQLitePath = rt.opts.dbPath
	}
	if rt.opts.timeout > 0 {
		cfg.APITimeout = rt.opts.timeout
	}
	switch {
	case rt.opts.logLevel != "":
		cfg.LogLevel = rt.opts.logLevel
	case cmd.Name() != "serve":
		// keep stderr quiet for one-shot commands
		cfg.LogLevel = "warn"
	}

	rt.cfg = cfg
	rt.log = logger.New(cfg.LogLevel, cfg.PrettyLog)
	return nil
}

// loadConfig turns the loader's startup panics into an error.
func loadConfig() (cfg *config.Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return config.Load(), nil
}

func (rt *runtime) api() *offerapi.Client {
	return offerapi.New(offerapi.Options{
		BaseURL: rt.cfg.APIURL,
		Timeout: rt.cfg.APITimeout,
	}, rt.log)
}

// controller opens the store and restores the terminal session. The
// returned func closes the store.
func (rt *runtime) controller(ctx context.Context) (*session.Controller, func(), error) {
	backend, err := app.OpenStore(ctx, rt.cfg, rt.log)
	if err != nil {
		return nil, nil, err
	}
	c := session.New(rt.api(), persist.New(store.Scope(backend.KV, cliScope), rt.log), rt.log)
	c.Restore(ctx)
	return c, backend.Close, nil
}

// catalog loads the filter catalog for labels. A broken catalog file falls
// back to the built-in one.
func (rt *runtime) catalog() *catalog.Catalog {
	c, err := catalog.NewLoader(rt.cfg.CatalogFile).Load()
	if err != nil {
		rt.log.Warn("failed to load catalog, using built-in", logger.Error(err))
		return catalog.Default()
	}
	return c
}

func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
