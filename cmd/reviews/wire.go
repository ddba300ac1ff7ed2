package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/redis/go-redis/v9"

	"github.com/glabrego/reviews-feed/internal/app"
	"github.com/glabrego/reviews-feed/internal/assets"
	"github.com/glabrego/reviews-feed/internal/config"
	"github.com/glabrego/reviews-feed/internal/enrich"
	"github.com/glabrego/reviews-feed/internal/feed"
	"github.com/glabrego/reviews-feed/internal/layout"
	"github.com/glabrego/reviews-feed/internal/rating"
	"github.com/glabrego/reviews-feed/internal/reviews"
	"github.com/glabrego/reviews-feed/internal/storage"
)

// runtime is the wired feed: provider, asset tiers, coordinator, state
// machine and list adapter.
type runtime struct {
	machine *feed.Machine
	adapter *feed.Adapter
	cache   *assets.Cache
	closers []io.Closer
}

func (r *runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i].Close())
	}
	return errors.Join(errs...)
}

func build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*runtime, error) {
	store, closer, err := openStore(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	rt := &runtime{}
	if closer != nil {
		rt.closers = append(rt.closers, closer)
	}

	cache, err := assets.New(assets.NewHTTPSource(nil), store, assets.Options{
		MemoryEntries: cfg.Cache.MemoryEntries,
		Dedupe:        cfg.Cache.Dedupe,
		FetchTimeout:  cfg.FetchTimeout,
		Logger:        logger,
	})
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("asset cache: %w", err)
	}
	rt.cache = cache

	truncate := cfg.TruncateLines
	if truncate == 0 {
		truncate = -1
	}
	styles := layout.TerminalStyles()
	coordinator := enrich.New(cache, enrich.Options{
		Styles:        styles,
		Rating:        rating.Terminal(),
		TruncateLines: truncate,
		MaxConcurrent: cfg.Cache.MaxConcurrent,
		AssetTimeout:  cfg.FetchTimeout,
		Logger:        logger,
	})

	service := app.NewService(reviews.NewClient(cfg.APIBaseURL, nil), logger)
	rt.machine = feed.NewMachine(service, coordinator, feed.Options{
		PageSize:     cfg.PageSize,
		FetchTimeout: cfg.FetchTimeout,
		CountFont:    styles.Count,
		Logger:       logger,
	})
	engine := layout.NewEngine(layout.TerminalMetrics(), layout.Cells(), styles)
	rt.adapter = feed.NewAdapter(rt.machine, engine, cfg.PrefetchScreens)
	return rt, nil
}

// openStore builds the persistent asset tier for the configured backend.
// The closer is nil when the store holds no resources.
func openStore(ctx context.Context, cfg config.CacheConfig) (assets.Store, io.Closer, error) {
	switch cfg.Backend {
	case "file":
		return assets.NewFileStore(cfg.Dir), nil, nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		store, err := storage.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("storage init error: %w", err)
		}
		initCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		if err := store.Init(initCtx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("storage schema error: %w", err)
		}
		return store, store, nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := storage.NewRedisStore(rdb, cfg.Redis.TTL)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// drive runs cmd and every command it leads to, feeding each message back
// into the machine. It is the headless stand-in for the bubbletea loop.
func drive(ctx context.Context, m *feed.Machine, cmd tea.Cmd) error {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			queue = append(queue, m.Update(msg))
		}
	}
	return nil
}
