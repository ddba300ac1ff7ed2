package view

import (
	"math"

	"github.com/glabrego/reviews-feed/internal/feed"
	"github.com/glabrego/reviews-feed/internal/layout"
	tuitheme "github.com/glabrego/reviews-feed/internal/tui/theme"
)

const focusMarker = '▌'

type ReviewParams struct {
	Row     feed.RowItem
	Frames  layout.ReviewFrames
	Top     int
	Focused bool
	// Wrap breaks text into lines of at most width columns.
	Wrap func(text string, width int) []string
}

// RenderReview draws one review row whose origin is canvas line p.Top.
func RenderReview(c *Canvas, p ReviewParams, th tuitheme.Theme) {
	f := p.Frames
	if p.Focused {
		marker := c.Style(th.Focus)
		for y := 0; y < cells(f.Height); y++ {
			c.Set(0, p.Top+y, focusMarker, marker)
		}
	}

	box := func(r layout.Rect) (int, int, int, int) {
		return cells(r.X), p.Top + cells(r.Y), cells(r.W), cells(r.H)
	}

	x, y, w, h := box(f.Avatar)
	DrawImage(c, x, y, w, h, p.Row.Avatar, th.Placeholder)

	drawText(c, f.Username, p.Top, p.Row.Username, 0, p.Wrap, th)
	drawRating(c, f.Rating, p.Top, p, th)

	for i, frame := range f.Photos {
		if i >= len(p.Row.Photos) {
			break
		}
		x, y, w, h := box(frame)
		DrawImage(c, x, y, w, h, p.Row.Photos[i], th.Placeholder)
	}

	if !f.Body.IsZero() {
		drawText(c, f.Body, p.Top, p.Row.Body, p.Row.MaxLines, p.Wrap, th)
	}
	if f.ShowMoreVisible {
		label := layout.Text{Content: layout.ShowMoreLabel, Role: layout.RoleShowMore}
		drawText(c, f.ShowMore, p.Top, label, 1, p.Wrap, th)
	}
	drawText(c, f.Created, p.Top, p.Row.Created, 0, p.Wrap, th)
}

// RenderCount draws the trailing "N отзывов" row.
func RenderCount(c *Canvas, row feed.CountRow, frames layout.CountFrames, top int, th tuitheme.Theme) {
	style := c.Style(th.ForRole(row.Label.Role))
	r := frames.Label
	c.Text(cells(r.X), top+cells(r.Y), row.Label.Content, style, cells(r.W))
}

func drawText(c *Canvas, frame layout.Rect, top int, t layout.Text, maxLines int, wrap func(string, int) []string, th tuitheme.Theme) {
	width := cells(frame.W)
	height := cells(frame.H)
	if width <= 0 || height <= 0 || t.Content == "" {
		return
	}
	lines := wrap(t.Content, width)
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	style := c.Style(th.ForRole(t.Role))
	for i, line := range lines {
		c.Text(cells(frame.X), top+cells(frame.Y)+i, line, style, width)
	}
}

func drawRating(c *Canvas, frame layout.Rect, top int, p ReviewParams, th tuitheme.Theme) {
	g := p.Row.Rating
	filled := c.Style(th.StarFilled)
	empty := c.Style(th.StarEmpty)
	x := cells(frame.X)
	y := top + cells(frame.Y)
	limit := cells(frame.W)
	for i, star := range []rune(g.Text) {
		if i >= limit {
			return
		}
		style := empty
		if i < g.Value {
			style = filled
		}
		c.Set(x+i, y, star, style)
	}
}

func cells(v float64) int {
	return int(math.Round(v))
}
