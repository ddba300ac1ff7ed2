// Package rating renders a numeric review score as a row of star glyphs.
package rating

import (
	"strings"

	"github.com/glabrego/reviews-feed/internal/layout"
)

// Glyph is a pre-rendered rating. Size is what the layout engine reserves for it.
type Glyph struct {
	Value int
	Max   int
	Text  string
	Size  layout.Size
}

type Renderer struct {
	Max     int
	Filled  rune
	Empty   rune
	Star    layout.Size
	Spacing float64
}

// Default renders 16pt stars with 1pt spacing.
func Default() Renderer {
	return Renderer{Max: 5, Filled: '★', Empty: '☆', Star: layout.Size{W: 16, H: 16}, Spacing: 1}
}

// Terminal renders one cell per star.
func Terminal() Renderer {
	return Renderer{Max: 5, Filled: '★', Empty: '☆', Star: layout.Size{W: 1, H: 1}}
}

// Glyph clamps value to [1, Max] and renders it.
func (r Renderer) Glyph(value int) Glyph {
	n := r.Max
	if n < 1 {
		n = 5
	}
	if value < 1 {
		value = 1
	}
	if value > n {
		value = n
	}

	var b strings.Builder
	for i := 0; i < n; i++ {
		if i < value {
			b.WriteRune(r.Filled)
		} else {
			b.WriteRune(r.Empty)
		}
	}

	return Glyph{
		Value: value,
		Max:   n,
		Text:  b.String(),
		Size: layout.Size{
			W: float64(n)*r.Star.W + float64(n-1)*r.Spacing,
			H: r.Star.H,
		},
	}
}
