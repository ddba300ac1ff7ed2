package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type cell struct {
	ch    rune
	style int
	// wide marks the right half of a double-width rune.
	wide bool
}

// Canvas is a fixed grid of styled terminal cells. Drawing outside the grid
// is clipped, so rows can be drawn at negative offsets while scrolling.
type Canvas struct {
	width  int
	height int
	cells  [][]cell
	styles []lipgloss.Style
}

func NewCanvas(width, height int) *Canvas {
	width = max(width, 0)
	height = max(height, 0)
	cells := make([][]cell, height)
	for y := range cells {
		cells[y] = make([]cell, width)
		for x := range cells[y] {
			cells[y][x].ch = ' '
		}
	}
	return &Canvas{
		width:  width,
		height: height,
		cells:  cells,
		styles: []lipgloss.Style{lipgloss.NewStyle()},
	}
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Style registers s and returns the handle cells refer to it by.
func (c *Canvas) Style(s lipgloss.Style) int {
	c.styles = append(c.styles, s)
	return len(c.styles) - 1
}

func (c *Canvas) Set(x, y int, ch rune, style int) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y][x] = cell{ch: ch, style: style}
}

// Text draws s from (x, y) and returns the columns it occupied, clipped to limit.
func (c *Canvas) Text(x, y int, s string, style, limit int) int {
	used := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if used+w > limit {
			break
		}
		c.Set(x+used, y, r, style)
		if w == 2 && x+used+1 >= 0 && x+used+1 < c.width && y >= 0 && y < c.height {
			c.cells[y][x+used+1] = cell{style: style, wide: true}
		}
		used += w
	}
	return used
}

// Fill paints a w by h block with ch.
func (c *Canvas) Fill(x, y, w, h int, ch rune, style int) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			c.Set(x+dx, y+dy, ch, style)
		}
	}
}

// Lines returns the canvas without styling, trailing spaces trimmed.
func (c *Canvas) Lines() []string {
	out := make([]string, c.height)
	for y, row := range c.cells {
		var b strings.Builder
		for _, cl := range row {
			if !cl.wide {
				b.WriteRune(cl.ch)
			}
		}
		out[y] = strings.TrimRight(b.String(), " ")
	}
	return out
}

// String renders the canvas, styling each run of equally styled cells once.
func (c *Canvas) String() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		current := 0
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if current == 0 {
				b.WriteString(run.String())
			} else {
				b.WriteString(c.styles[current].Render(run.String()))
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.wide {
				continue
			}
			if cl.style != current {
				flush()
				current = cl.style
			}
			run.WriteRune(cl.ch)
		}
		flush()
	}
	return b.String()
}
