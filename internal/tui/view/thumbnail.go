package view

import (
	"fmt"
	"image"

	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/reviews-feed/internal/assets"
)

const (
	upperHalf = '▀'
	shade     = '░'
)

// DrawImage draws img into a w by h cell box. Each cell shows two pixels as
// an upper half block. Placeholders and undecoded images are shaded.
func DrawImage(c *Canvas, x, y, w, h int, img *assets.Image, placeholder lipgloss.Style) {
	if w <= 0 || h <= 0 {
		return
	}
	if img == nil || img.Placeholder || img.Decoded == nil {
		c.Fill(x, y, w, h, shade, c.Style(placeholder))
		return
	}

	src := img.Decoded
	bounds := src.Bounds()
	if bounds.Empty() {
		c.Fill(x, y, w, h, shade, c.Style(placeholder))
		return
	}
	for cy := 0; cy < h; cy++ {
		for cx := 0; cx < w; cx++ {
			top := sample(src, bounds, cx, cy*2, w, h*2)
			bottom := sample(src, bounds, cx, cy*2+1, w, h*2)
			style := lipgloss.NewStyle().Foreground(top).Background(bottom)
			c.Set(x+cx, y+cy, upperHalf, c.Style(style))
		}
	}
}

// sample picks the nearest source pixel for grid position (gx, gy) of a gw by gh grid.
func sample(src image.Image, b image.Rectangle, gx, gy, gw, gh int) lipgloss.Color {
	px := b.Min.X + (gx*b.Dx()+b.Dx()/2)/gw
	py := b.Min.Y + (gy*b.Dy()+b.Dy()/2)/gh
	r, g, bl, _ := src.At(px, py).RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, bl>>8))
}
