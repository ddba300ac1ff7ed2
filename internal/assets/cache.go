package assets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultMemoryEntries = 256
	DefaultFetchTimeout  = 10 * time.Second
)

var errNoImage = errors.New("no image")

type Options struct {
	// MemoryEntries bounds the memory tier. Zero means DefaultMemoryEntries.
	MemoryEntries int
	// Dedupe coalesces concurrent lookups of one URL into a single fetch.
	Dedupe       bool
	FetchTimeout time.Duration
	Logger       *slog.Logger
}

// Cache resolves asset URLs through the memory tier, the persistent store,
// and finally the network source. It is safe for concurrent use.
type Cache struct {
	memory  *lru.Cache[string, *Image]
	store   Store
	source  Source
	flights singleflight.Group
	dedupe  bool
	timeout time.Duration
	logger  *slog.Logger
}

// New builds a cache. store may be nil to run memory-only.
func New(source Source, store Store, opts Options) (*Cache, error) {
	if source == nil {
		return nil, fmt.Errorf("asset source is required")
	}
	size := opts.MemoryEntries
	if size <= 0 {
		size = DefaultMemoryEntries
	}
	memory, err := lru.New[string, *Image](size)
	if err != nil {
		return nil, fmt.Errorf("create memory tier: %w", err)
	}
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		memory:  memory,
		store:   store,
		source:  source,
		dedupe:  opts.Dedupe,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Peek consults the memory tier only.
func (c *Cache) Peek(url string) (*Image, bool) {
	return c.memory.Get(url)
}

// Len is the number of images held in memory.
func (c *Cache) Len() int {
	return c.memory.Len()
}

// Get resolves url. It blocks and is meant to run off the UI loop. A false
// result means the asset is unavailable; failures are logged, not returned.
func (c *Cache) Get(ctx context.Context, url string) (*Image, bool) {
	if img, ok := c.memory.Get(url); ok {
		return img, true
	}
	if !c.dedupe {
		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		img := c.resolve(ctx, url)
		return img, img != nil
	}

	// The shared lookup outlives any single waiter.
	shared := context.WithoutCancel(ctx)
	results := c.flights.DoChan(url, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(shared, c.timeout)
		defer cancel()
		if img := c.resolve(fetchCtx, url); img != nil {
			return img, nil
		}
		return nil, errNoImage
	})

	select {
	case <-ctx.Done():
		return nil, false
	case res := <-results:
		if res.Err != nil {
			return nil, false
		}
		return res.Val.(*Image), true
	}
}

func (c *Cache) resolve(ctx context.Context, url string) *Image {
	if img, ok := c.memory.Get(url); ok {
		return img
	}
	if img := c.loadStored(ctx, url); img != nil {
		c.memory.Add(url, img)
		return img
	}

	data, err := c.source.Fetch(ctx, url)
	if err != nil {
		c.logger.Debug("asset fetch failed", "url", url, "error", err)
		return nil
	}
	img, err := Decode(url, data)
	if err != nil {
		c.logger.Debug("asset decode failed", "url", url, "error", err)
		return nil
	}
	c.memory.Add(url, img)
	c.logger.Debug("asset fetched", "url", url, "format", img.Format, "size", humanize.Bytes(uint64(len(data))))

	if c.store != nil {
		if err := c.store.Save(ctx, url, data); err != nil {
			c.logger.Debug("asset persist failed", "url", url, "error", err)
		}
	}
	return img
}

func (c *Cache) loadStored(ctx context.Context, url string) *Image {
	if c.store == nil {
		return nil
	}
	data, err := c.store.Load(ctx, url)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.logger.Warn("asset store read failed", "url", url, "error", err)
		}
		return nil
	}
	img, err := Decode(url, data)
	if err != nil {
		c.logger.Debug("stored asset is corrupt", "url", url, "error", err)
		return nil
	}
	return img
}
