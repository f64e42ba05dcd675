package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/five82/shopfront/internal/catalog"
	"github.com/five82/shopfront/internal/config"
	"github.com/five82/shopfront/internal/kvstore"
	"github.com/five82/shopfront/internal/logging"
	"github.com/five82/shopfront/internal/metrics"
	"github.com/five82/shopfront/internal/persist"
	"github.com/five82/shopfront/internal/prefs"
	"github.com/five82/shopfront/internal/selectors"
	"github.com/five82/shopfront/internal/state"
	"github.com/five82/shopfront/internal/ui"
)

const shutdownTimeout = 5 * time.Second

// Options configure the shopfront application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/shopfront/prefs.toml
	Storage    string // overrides the configured backend when set

	// Headless fetches once, prints the product list to Out and exits
	// instead of starting the TUI.
	Headless bool
	Out      io.Writer
}

// Run boots shopfront until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Storage != "" {
		kind, err := kvstore.ParseKind(opts.Storage)
		if err != nil {
			return err
		}
		cfg.Storage = kind
	}

	logger, logCloser, err := logging.Open(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	kv, err := kvstore.Open(ctx, cfg.KVOptions())
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage, err)
	}
	defer kv.Close()

	client, err := catalog.NewClient(cfg.APIBase)
	if err != nil {
		return fmt.Errorf("init catalog client: %w", err)
	}

	fields, err := persistFields(cfg)
	if err != nil {
		return err
	}

	m := metrics.New()
	saver := persist.New(kv, persist.Options{
		Fields:   fields,
		Debounce: cfg.SaveDebounce,
		Logger:   logger,
		Observer: m,
	})
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := saver.Close(closeCtx); err != nil {
			logger.Warn("persistence did not drain", "error", err)
		}
	}()

	store, restored := saver.Boot(ctx, client,
		state.WithLogger(logger),
		state.WithHook(m.Hook()),
	)
	logger.Info("shopfront started",
		"storage", string(cfg.Storage),
		"api", client.BaseURL(),
		"restored", restored,
		"favorites", len(store.GetState().Favorites),
	)

	if opts.Headless {
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		return printProducts(ctx, store, out)
	}

	if cfg.MetricsAddr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.MetricsAddr, logger); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}
	StartRefresher(ctx, store, cfg.RefreshEvery, logger)

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("load prefs failed; using defaults", "error", err)
	}

	return ui.Run(ctx, ui.Options{
		Store:     store,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Logger:    logger,
	})
}

// persistFields maps the config onto the persistence whitelist.
func persistFields(cfg config.Config) (persist.Whitelist, error) {
	var names []string
	if cfg.PersistItems {
		names = append(names, string(persist.FieldItems))
	}
	fields, err := persist.ParseWhitelist(names)
	if err != nil {
		return nil, fmt.Errorf("persist fields: %w", err)
	}
	return fields, nil
}

// printProducts loads the list once and writes it as a table, marking
// favorites with '*'.
func printProducts(ctx context.Context, store *state.Store, out io.Writer) error {
	if res := store.FetchAll(ctx); !res.OK() {
		return fmt.Errorf("fetch products: %w", res.Err)
	}

	s := store.GetState()
	favs := selectors.FavoriteIDs(s).Lookup()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FAV\tID\tTITLE\tPRICE\tCATEGORY")
	for _, item := range selectors.Items(s) {
		mark := ""
		if _, ok := favs[item.ID]; ok {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", mark, item.ID, item.Title, item.PriceLabel(), item.CategoryLabel())
	}
	return tw.Flush()
}

