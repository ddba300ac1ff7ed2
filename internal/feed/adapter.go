package feed

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/glabrego/reviews-feed/internal/layout"
)

// DefaultPrefetchScreens is how many viewports from the end of content the
// next page is requested.
const DefaultPrefetchScreens = 2.5

// Row is either a review or the trailing count row.
type Row struct {
	Review *RowItem
	Count  *CountRow
}

// Adapter projects a Machine into row count, row and height lookups.
type Adapter struct {
	machine *Machine
	engine  *layout.Engine
	screens float64

	heights     map[heightKey]float64
	heightWidth float64
	heightGen   uint64
}

type heightKey struct {
	id       uuid.UUID
	maxLines int
}

func NewAdapter(machine *Machine, engine *layout.Engine, screens float64) *Adapter {
	if screens <= 0 {
		screens = DefaultPrefetchScreens
	}
	return &Adapter{
		machine: machine,
		engine:  engine,
		screens: screens,
		heights: make(map[heightKey]float64),
	}
}

func (a *Adapter) Engine() *layout.Engine {
	return a.engine
}

// RowCount includes the count row only once the feed is complete.
func (a *Adapter) RowCount() int {
	n := a.machine.Len()
	if !a.machine.Complete() || a.machine.count == nil {
		return n
	}
	return min(n, a.machine.total) + 1
}

func (a *Adapter) RowAt(i int) (Row, bool) {
	if i < 0 || i >= a.RowCount() {
		return Row{}, false
	}
	if row, ok := a.machine.Row(i); ok && i < a.reviewCount() {
		return Row{Review: &row}, true
	}
	return Row{Count: a.machine.Count()}, true
}

func (a *Adapter) reviewCount() int {
	n := a.machine.Len()
	if a.machine.totalKnown && n > a.machine.total {
		return a.machine.total
	}
	return n
}

// HeightAt sizes row i for a list width wide. Review heights are cached per
// row identity and truncation state.
func (a *Adapter) HeightAt(i int, width float64) float64 {
	row, ok := a.RowAt(i)
	if !ok {
		return 0
	}
	if row.Count != nil {
		return a.engine.Count(row.Count.Label, width).Height
	}

	if width != a.heightWidth || a.machine.generation != a.heightGen {
		clear(a.heights)
		a.heightWidth = width
		a.heightGen = a.machine.generation
	}
	key := heightKey{id: row.Review.ID, maxLines: row.Review.MaxLines}
	if h, ok := a.heights[key]; ok {
		return h
	}
	h := a.engine.Review(row.Review.Content(), width).Height
	a.heights[key] = h
	return h
}

func (a *Adapter) ContentHeight(width float64) float64 {
	total := 0.0
	for i := 0; i < a.RowCount(); i++ {
		total += a.HeightAt(i, width)
	}
	return total
}

// ShouldLoadNextPage reports whether the projected scroll position is within
// the prefetch distance of the end of content.
func (a *Adapter) ShouldLoadNextPage(contentHeight, viewportHeight, targetOffset float64) bool {
	remaining := contentHeight - viewportHeight - targetOffset
	return remaining <= viewportHeight*a.screens
}

// DragEnded is called when a scroll gesture settles on targetOffset.
func (a *Adapter) DragEnded(contentHeight, viewportHeight, targetOffset float64) tea.Cmd {
	if !a.ShouldLoadNextPage(contentHeight, viewportHeight, targetOffset) {
		return nil
	}
	return a.machine.LoadNextPage()
}
