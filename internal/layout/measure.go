package layout

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Measurer is the text measuring capability the engine sizes text with.
type Measurer interface {
	// Measure returns the bounding size of t wrapped to width. maxLines == 0 means unbounded.
	Measure(t Text, width float64, maxLines int) Size
	LineHeight(f Font) float64
}

// Monospace measures text on a fixed-advance grid: every terminal column is
// Font.Size*Advance wide and every line Font.Size*Leading tall.
type Monospace struct {
	Advance float64
	Leading float64
}

// Cells measures in terminal cells: one column per column, one row per line.
func Cells() Monospace {
	return Monospace{Advance: 1, Leading: 1}
}

// Points approximates a proportional UI font in points.
func Points() Monospace {
	return Monospace{Advance: 0.55, Leading: 1.2}
}

const maxColumns = 1 << 16

func (m Monospace) Measure(t Text, width float64, maxLines int) Size {
	cols := m.Columns(t.Font, width)
	if cols < 1 || t.Content == "" {
		return Size{}
	}
	lines := m.Wrap(t.Content, cols)
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	widest := 0
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w > widest {
			widest = w
		}
	}
	return Size{
		W: float64(widest) * m.advance(t.Font),
		H: float64(len(lines)) * m.LineHeight(t.Font),
	}
}

func (m Monospace) LineHeight(f Font) float64 {
	return fontScale(f) * m.Leading
}

// Columns is the number of whole columns of font f that fit in width.
func (m Monospace) Columns(f Font, width float64) int {
	adv := m.advance(f)
	if adv <= 0 || width <= 0 {
		return 0
	}
	cols := math.Floor(width/adv + 1e-9)
	if cols > maxColumns {
		return maxColumns
	}
	return int(cols)
}

func (m Monospace) advance(f Font) float64 {
	return fontScale(f) * m.Advance
}

func fontScale(f Font) float64 {
	if f.Size <= 0 {
		return 1
	}
	return f.Size
}

// Wrap breaks text into lines no wider than width columns. Paragraph breaks
// are kept; words longer than a line are split.
func (m Monospace) Wrap(text string, width int) []string {
	if width < 1 {
		return []string{text}
	}
	paragraphs := strings.Split(text, "\n")
	out := make([]string, 0, len(paragraphs))

	for _, p := range paragraphs {
		words := strings.Fields(p)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		lineWidth := 0
		for _, word := range words {
			wordWidth := runewidth.StringWidth(word)
			for wordWidth > width {
				if line != "" {
					out = append(out, line)
					line, lineWidth = "", 0
				}
				head, tail := splitAtWidth(word, width)
				out = append(out, head)
				word = tail
				wordWidth = runewidth.StringWidth(word)
			}
			if word == "" {
				continue
			}

			if line == "" {
				line, lineWidth = word, wordWidth
				continue
			}
			if lineWidth+1+wordWidth <= width {
				line += " " + word
				lineWidth += 1 + wordWidth
				continue
			}
			out = append(out, line)
			line, lineWidth = word, wordWidth
		}
		if line != "" {
			out = append(out, line)
		}
	}

	return out
}

// splitAtWidth cuts s after at most width columns, always taking at least one rune.
func splitAtWidth(s string, width int) (string, string) {
	used := 0
	for i, r := range s {
		w := runewidth.RuneWidth(r)
		if used+w > width && i > 0 {
			return s[:i], s[i:]
		}
		used += w
	}
	return s, ""
}
