package feed

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/glabrego/reviews-feed/internal/assets"
	"github.com/glabrego/reviews-feed/internal/reviews"
)

// PageLoader fetches and decodes one page of reviews.
type PageLoader interface {
	LoadPage(ctx context.Context, offset, limit int) (reviews.Page, error)
}

// Enricher turns records into rows right away and resolves their assets in the
// background. The returned command delivers one AssetResolvedMsg per pending
// asset and then a PageSettledMsg. A nil command means nothing is pending.
type Enricher interface {
	EnrichPage(generation uint64, records []reviews.Record) ([]RowItem, tea.Cmd)
}

type PageFetchedMsg struct {
	Generation uint64
	Offset     int
	Page       reviews.Page
}

type PageFailedMsg struct {
	Generation uint64
	Offset     int
	Err        error
}

// AssetResolvedMsg reports one finished asset lookup. Image is nil when the
// asset is unavailable. Next keeps listening for the rest of the page.
type AssetResolvedMsg struct {
	Generation uint64
	RowID      uuid.UUID
	Slot       int
	Image      *assets.Image
	Next       tea.Cmd
}

// PageSettledMsg is sent once every asset of a page has resolved or failed.
type PageSettledMsg struct {
	Generation uint64
}

type ExpandMsg struct {
	RowID uuid.UUID
}
