package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/reviews-feed/internal/feed"
	"github.com/glabrego/reviews-feed/internal/layout"
	"github.com/glabrego/reviews-feed/internal/tui/actions"
	"github.com/glabrego/reviews-feed/internal/tui/platform"
	tuistate "github.com/glabrego/reviews-feed/internal/tui/state"
	tuitheme "github.com/glabrego/reviews-feed/internal/tui/theme"
	"github.com/glabrego/reviews-feed/internal/tui/view"
)

const (
	// headerLines is the title plus a blank line; footerLines the blank
	// separator, message, footer and toolbar.
	headerLines = 2
	footerLines = 4

	defaultWidth  = 80
	defaultHeight = 24
)

type Model struct {
	machine *feed.Machine
	adapter *feed.Adapter
	theme   tuitheme.Theme
	keys    actions.KeyMap
	spinner spinner.Model
	wrap    func(string, int) []string

	width    int
	height   int
	cursor   int
	scroll   int
	showHelp bool
	status   string

	openURLFn func(string) error
	copyURLFn func(string) error
}

func NewModel(machine *feed.Machine, adapter *feed.Adapter) Model {
	th := tuitheme.Default()
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = th.StateLoad

	return Model{
		machine:   machine,
		adapter:   adapter,
		theme:     th,
		keys:      actions.DefaultKeyMap(),
		spinner:   s,
		wrap:      layout.Cells().Wrap,
		openURLFn: platform.OpenInBrowser,
		copyURLFn: platform.CopyToClipboard,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.machine.LoadFirstPage())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampScroll()
		return m, m.dragEnded()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case feed.PageFetchedMsg, feed.PageFailedMsg, feed.AssetResolvedMsg, feed.PageSettledMsg, feed.ExpandMsg:
		cmd := m.machine.Update(msg)
		m.cursor = tuistate.ClampCursor(m.cursor, m.adapter.RowCount())
		m.clampScroll()
		return m, cmd
	case actions.OpenURLSuccessMsg:
		m.status = msg.Status
		return m, nil
	case actions.OpenURLErrorMsg:
		m.status = msg.Err.Error()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help, m.keys.Close):
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Down):
		return m.moveCursorBy(1)
	case key.Matches(msg, m.keys.Up):
		return m.moveCursorBy(-1)
	case key.Matches(msg, m.keys.PageDown):
		return m.scrollBy(tuistate.PageStep(m.listHeight()))
	case key.Matches(msg, m.keys.PageUp):
		return m.scrollBy(-tuistate.PageStep(m.listHeight()))
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.scroll = 0
		return m, m.dragEnded()
	case key.Matches(msg, m.keys.Bottom):
		return m.moveCursorBy(m.adapter.RowCount())
	case key.Matches(msg, m.keys.Expand):
		if row, ok := m.focusedReview(); ok && !row.Expanded() {
			return m, m.machine.RequestExpand(row.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.Open):
		row, ok := m.focusedReview()
		if !ok {
			return m, nil
		}
		url, err := platform.PhotoURL(row.AvatarURL, row.PhotoURLs)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		return m, actions.OpenURLCmd(url, m.openURLFn, m.copyURLFn)
	case key.Matches(msg, m.keys.Refresh):
		m.cursor = 0
		m.scroll = 0
		m.status = ""
		return m, m.machine.Refresh()
	}
	return m, nil
}

func (m Model) moveCursorBy(delta int) (tea.Model, tea.Cmd) {
	n := m.adapter.RowCount()
	if n == 0 {
		return m, m.dragEnded()
	}
	m.cursor = tuistate.ClampCursor(m.cursor+delta, n)
	tops := m.rowTops()
	m.scroll = tuistate.Reveal(m.scroll, tops[m.cursor], tops[m.cursor+1], m.listHeight())
	m.clampScroll()
	return m, m.dragEnded()
}

func (m Model) scrollBy(delta int) (tea.Model, tea.Cmd) {
	m.scroll += delta
	m.clampScroll()
	if n := m.adapter.RowCount(); n > 0 {
		tops := m.rowTops()
		m.cursor = tuistate.RowAtOffset(tops, m.scroll)
		if tops[m.cursor] < m.scroll && m.cursor+1 < n {
			m.cursor++
		}
	}
	return m, m.dragEnded()
}

// dragEnded treats every scroll as a finished drag gesture so the adapter can
// ask for the next page.
func (m Model) dragEnded() tea.Cmd {
	tops := m.rowTops()
	content := tops[len(tops)-1]
	return m.adapter.DragEnded(float64(content), float64(m.listHeight()), float64(m.scroll))
}

func (m *Model) clampScroll() {
	tops := m.rowTops()
	m.scroll = tuistate.ClampScroll(m.scroll, tops[len(tops)-1], m.listHeight())
}

func (m Model) rowTops() []int {
	n := m.adapter.RowCount()
	width := float64(m.listWidth())
	heights := make([]int, n)
	for i := range heights {
		heights[i] = int(m.adapter.HeightAt(i, width) + 0.5)
	}
	return tuistate.Offsets(heights)
}

func (m Model) focusedReview() (feed.RowItem, bool) {
	row, ok := m.adapter.RowAt(m.cursor)
	if !ok || row.Review == nil {
		return feed.RowItem{}, false
	}
	return *row.Review, true
}

func (m Model) listWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m Model) listHeight() int {
	height := m.height
	if height <= 0 {
		height = defaultHeight
	}
	return max(height-headerLines-footerLines, 1)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render(view.Title))
	b.WriteString("\n\n")

	switch {
	case m.showHelp:
		b.WriteString(view.Help())
	case m.adapter.RowCount() == 0:
		b.WriteString(m.emptyView())
	default:
		b.WriteString(m.listView())
	}

	b.WriteString("\n\n")
	message := view.Message(m.machine.Loading(), m.machine.LastError(), m.status, m.theme)
	if m.machine.Loading() {
		message = m.spinner.View() + " " + message
	}
	b.WriteString(message)
	b.WriteString("\n")
	b.WriteString(view.Footer(m.machine.Snapshot(), m.cursor, m.theme))
	b.WriteString("\n")
	b.WriteString(view.Toolbar(m.showHelp))
	b.WriteString("\n")
	return b.String()
}

func (m Model) emptyView() string {
	switch {
	case m.machine.Loading() && !m.machine.Loaded():
		return m.spinner.View() + " Загрузка отзывов..."
	case m.machine.LastError() != nil:
		return "Не удалось загрузить отзывы. Нажмите r, чтобы повторить."
	case m.machine.Loaded():
		return "Отзывов пока нет."
	default:
		return ""
	}
}

func (m Model) listView() string {
	width := m.listWidth()
	height := m.listHeight()
	canvas := view.NewCanvas(width, height)
	engine := m.adapter.Engine()
	tops := m.rowTops()

	for i := 0; i < len(tops)-1; i++ {
		if tops[i+1] <= m.scroll {
			continue
		}
		if tops[i] >= m.scroll+height {
			break
		}
		row, ok := m.adapter.RowAt(i)
		if !ok {
			break
		}
		top := tops[i] - m.scroll
		switch {
		case row.Review != nil:
			view.RenderReview(canvas, view.ReviewParams{
				Row:     *row.Review,
				Frames:  engine.Review(row.Review.Content(), float64(width)),
				Top:     top,
				Focused: i == m.cursor,
				Wrap:    m.wrap,
			}, m.theme)
		case row.Count != nil:
			view.RenderCount(canvas, *row.Count, engine.Count(row.Count.Label, float64(width)), top, m.theme)
		}
	}
	return canvas.String()
}
