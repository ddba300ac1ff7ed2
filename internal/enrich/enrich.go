// Package enrich turns decoded review records into feed rows and resolves
// their images in the background.
package enrich

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/glabrego/reviews-feed/internal/assets"
	"github.com/glabrego/reviews-feed/internal/feed"
	"github.com/glabrego/reviews-feed/internal/layout"
	"github.com/glabrego/reviews-feed/internal/rating"
	"github.com/glabrego/reviews-feed/internal/reviews"
)

const (
	DefaultTruncateLines = 3
	DefaultMaxConcurrent = 6
	DefaultAssetTimeout  = 10 * time.Second
)

// AssetLoader is the asset cache as seen by the coordinator.
type AssetLoader interface {
	Get(ctx context.Context, url string) (*assets.Image, bool)
	Peek(url string) (*assets.Image, bool)
}

type Options struct {
	Styles layout.Styles
	Rating rating.Renderer

	// TruncateLines is the collapsed body length. Zero picks the default;
	// a negative value shows every body in full.
	TruncateLines int
	MaxConcurrent int
	AssetTimeout  time.Duration

	AvatarPlaceholder *assets.Image
	PhotoPlaceholder  *assets.Image

	Logger *slog.Logger
}

type Coordinator struct {
	loader        AssetLoader
	styles        layout.Styles
	rating        rating.Renderer
	truncateLines int
	maxConcurrent int
	timeout       time.Duration
	avatar        *assets.Image
	photo         *assets.Image
	logger        *slog.Logger
}

func New(loader AssetLoader, opts Options) *Coordinator {
	c := &Coordinator{
		loader:        loader,
		styles:        opts.Styles,
		rating:        opts.Rating,
		truncateLines: opts.TruncateLines,
		maxConcurrent: opts.MaxConcurrent,
		timeout:       opts.AssetTimeout,
		avatar:        opts.AvatarPlaceholder,
		photo:         opts.PhotoPlaceholder,
		logger:        opts.Logger,
	}
	switch {
	case c.truncateLines == 0:
		c.truncateLines = DefaultTruncateLines
	case c.truncateLines < 0:
		c.truncateLines = 0
	}
	if c.maxConcurrent < 1 {
		c.maxConcurrent = DefaultMaxConcurrent
	}
	if c.timeout <= 0 {
		c.timeout = DefaultAssetTimeout
	}
	if c.avatar == nil {
		c.avatar = assets.NewPlaceholder("avatar", 36, 36)
	}
	if c.photo == nil {
		c.photo = assets.NewPlaceholder("photo", 55, 66)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

type job struct {
	row  uuid.UUID
	slot int
	url  string
}

// EnrichPage builds rows with placeholders, filling in anything already in
// memory. The command delivers the remaining assets for generation.
func (c *Coordinator) EnrichPage(generation uint64, records []reviews.Record) ([]feed.RowItem, tea.Cmd) {
	rows := make([]feed.RowItem, 0, len(records))
	var jobs []job

	for _, rec := range records {
		row := c.newRow(rec)
		if u, ok := ValidURL(rec.AvatarURL); ok {
			if img, hit := c.loader.Peek(u); hit {
				row.Avatar = img
			} else {
				jobs = append(jobs, job{row: row.ID, slot: feed.AvatarSlot, url: u})
			}
		}
		for i, raw := range rec.PhotoURLs {
			u, ok := ValidURL(raw)
			if !ok {
				continue
			}
			if img, hit := c.loader.Peek(u); hit {
				row.Photos[i] = img
			} else {
				jobs = append(jobs, job{row: row.ID, slot: i, url: u})
			}
		}
		rows = append(rows, row)
	}

	if len(jobs) == 0 {
		return rows, nil
	}
	c.logger.Debug("enriching page", "generation", generation, "rows", len(rows), "assets", len(jobs))
	return rows, c.dispatch(generation, jobs)
}

func (c *Coordinator) newRow(rec reviews.Record) feed.RowItem {
	photos := make([]*assets.Image, len(rec.PhotoURLs))
	for i := range photos {
		photos[i] = c.photo
	}
	return feed.RowItem{
		ID:        uuid.New(),
		Username:  layout.Text{Content: rec.Username(), Font: c.styles.Username, Role: layout.RoleUsername},
		Body:      layout.Text{Content: reviews.BodyText(rec.Text), Font: c.styles.Body, Role: layout.RoleBody},
		Created:   layout.Text{Content: rec.Created, Font: c.styles.Created, Role: layout.RoleCreated},
		Rating:    c.rating.Glyph(rec.Rating),
		Avatar:    c.avatar,
		Photos:    photos,
		AvatarURL: rec.AvatarURL,
		PhotoURLs: rec.PhotoURLs,
		MaxLines:  c.truncateLines,
	}
}

// dispatch fans the jobs out on a bounded group. The result channel holds
// every message of the page, so workers never block on a listener that has
// stopped reading.
func (c *Coordinator) dispatch(generation uint64, jobs []job) tea.Cmd {
	results := make(chan tea.Msg, len(jobs)+1)

	go func() {
		var g errgroup.Group
		g.SetLimit(c.maxConcurrent)
		for _, j := range jobs {
			g.Go(func() error {
				ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
				defer cancel()
				img, ok := c.loader.Get(ctx, j.url)
				if !ok {
					c.logger.Debug("asset unavailable, keeping placeholder", "url", j.url)
					img = nil
				}
				results <- feed.AssetResolvedMsg{Generation: generation, RowID: j.row, Slot: j.slot, Image: img}
				return nil
			})
		}
		_ = g.Wait()
		results <- feed.PageSettledMsg{Generation: generation}
		close(results)
	}()

	return listen(results)
}

func listen(results <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-results
		if !ok {
			return nil
		}
		if resolved, isAsset := msg.(feed.AssetResolvedMsg); isAsset {
			resolved.Next = listen(results)
			return resolved
		}
		return msg
	}
}

// ValidURL accepts absolute http and https URLs with a host.
func ValidURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.Host == "" {
		return "", false
	}
	return raw, true
}
