// Package feed owns the review list state and projects it for a virtualized list.
package feed

import (
	"github.com/google/uuid"

	"github.com/glabrego/reviews-feed/internal/assets"
	"github.com/glabrego/reviews-feed/internal/layout"
	"github.com/glabrego/reviews-feed/internal/rating"
)

// AvatarSlot addresses a row's avatar in AssetResolvedMsg. Photo slots are 0-based.
const AvatarSlot = -1

// RowItem is a renderable review. Rows are patched only by ID.
type RowItem struct {
	ID       uuid.UUID
	Username layout.Text
	Body     layout.Text
	Created  layout.Text
	Rating   rating.Glyph
	Avatar   *assets.Image
	Photos   []*assets.Image

	AvatarURL string
	PhotoURLs []string

	// MaxLines limits the body. 0 shows it in full.
	MaxLines int
}

func (r RowItem) Expanded() bool {
	return r.MaxLines == 0
}

// Content is the part of the row that decides its geometry.
func (r RowItem) Content() layout.ReviewContent {
	return layout.ReviewContent{
		Username:   r.Username,
		Rating:     r.Rating.Size,
		PhotoCount: len(r.Photos),
		Body:       r.Body,
		MaxLines:   r.MaxLines,
		Created:    r.Created,
	}
}

// CountRow is the trailing summary row shown once every review is listed.
type CountRow struct {
	Total int
	Label layout.Text
}
