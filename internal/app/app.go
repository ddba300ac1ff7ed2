package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/glabrego/reviews-feed/internal/reviews"
)

// Provider returns raw page payloads; *reviews.Client is the production one.
type Provider interface {
	FetchPage(ctx context.Context, offset, limit int) ([]byte, error)
}

type Service struct {
	provider Provider
	logger   *slog.Logger
}

func NewService(provider Provider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{provider: provider, logger: logger}
}

// LoadPage fetches and decodes one page. It satisfies feed.PageLoader.
func (s *Service) LoadPage(ctx context.Context, offset, limit int) (reviews.Page, error) {
	data, err := s.provider.FetchPage(ctx, offset, limit)
	if err != nil {
		return reviews.Page{}, fmt.Errorf("fetch reviews page: %w", err)
	}

	page, err := reviews.Decode(data)
	if err != nil {
		s.logger.Warn("app: malformed page", "offset", offset, "limit", limit, "bytes", len(data), "error", err)
		return reviews.Page{}, fmt.Errorf("decode reviews page: %w", err)
	}

	s.logger.Debug("app: page loaded", "offset", offset, "limit", limit, "items", len(page.Items), "count", page.Count)
	return page, nil
}
