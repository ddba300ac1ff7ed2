package tui

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/reviews-feed/internal/assets"
	"github.com/glabrego/reviews-feed/internal/enrich"
	"github.com/glabrego/reviews-feed/internal/feed"
	"github.com/glabrego/reviews-feed/internal/layout"
	"github.com/glabrego/reviews-feed/internal/rating"
	"github.com/glabrego/reviews-feed/internal/reviews"
)

var ansiScreenStrip = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type pageLoader struct {
	mu      sync.Mutex
	records []reviews.Record
	fail    int
	calls   int
}

func (p *pageLoader) LoadPage(_ context.Context, offset, limit int) (reviews.Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.fail > 0 {
		p.fail--
		return reviews.Page{}, errors.New("network down")
	}
	end := min(offset+limit, len(p.records))
	return reviews.Page{Count: len(p.records), Items: p.records[min(offset, end):end]}, nil
}

type noAssets struct{}

func (noAssets) Get(context.Context, string) (*assets.Image, bool) { return nil, false }
func (noAssets) Peek(string) (*assets.Image, bool)                 { return nil, false }

func testRecords(n int) []reviews.Record {
	records := make([]reviews.Record, n)
	for i := range records {
		records[i] = reviews.Record{
			FirstName: "Гость",
			LastName:  fmt.Sprint(i),
			Rating:    i%5 + 1,
			Text:      fmt.Sprintf("отзыв номер %d", i),
			Created:   "1 мая",
			AvatarURL: fmt.Sprintf("https://cdn.example.com/a/%d.png", i),
		}
	}
	records[0].Text = strings.TrimSpace(strings.Repeat("очень длинный отзыв ", 30))
	return records
}

func newTestModel(loader *pageLoader) Model {
	coordinator := enrich.New(noAssets{}, enrich.Options{Styles: layout.TerminalStyles(), Rating: rating.Terminal()})
	machine := feed.NewMachine(loader, coordinator, feed.Options{PageSize: 20})
	engine := layout.NewEngine(layout.TerminalMetrics(), layout.Cells(), layout.TerminalStyles())
	m := NewModel(machine, feed.NewAdapter(machine, engine, 0))
	m.openURLFn = nil
	m.copyURLFn = nil
	return m
}

// drain runs cmd and every command that follows from it, skipping spinner
// ticks so the loop terminates.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 10000 {
			t.Fatal("command queue did not drain")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil, spinner.TickMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			updated, c := m.Update(msg)
			m = updated.(Model)
			queue = append(queue, c)
		}
	}
	return m
}

func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	return drain(t, updated.(Model), cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func startModel(t *testing.T, loader *pageLoader) Model {
	t.Helper()
	m := newTestModel(loader)
	m = drain(t, m, m.Init())
	updated, cmd := m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	return drain(t, updated.(Model), cmd)
}

func screen(m Model) string {
	return ansiScreenStrip.ReplaceAllString(m.View(), "")
}

func TestModel_InitLoadsFirstPage(t *testing.T) {
	m := startModel(t, &pageLoader{records: testRecords(45)})

	if m.machine.Len() != 20 {
		t.Fatalf("expected first page of 20 rows, got %d", m.machine.Len())
	}
	view := screen(m)
	for _, want := range []string{"Отзывы", "Гость 0", "★☆☆☆☆", layout.ShowMoreLabel, "shown 20/45"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view, got:\n%s", want, view)
		}
	}
}

func TestModel_LoadingViewBeforeFirstPage(t *testing.T) {
	m := newTestModel(&pageLoader{records: testRecords(3)})
	m.machine.LoadFirstPage()

	view := screen(m)
	if !strings.Contains(view, "Загрузка отзывов...") {
		t.Fatalf("expected loading indicator, got:\n%s", view)
	}
}

func TestModel_ScrollingToBottomLoadsAllPagesAndShowsCount(t *testing.T) {
	loader := &pageLoader{records: testRecords(45)}
	m := startModel(t, loader)

	for i := 0; i < 5 && !m.machine.Complete(); i++ {
		m = press(t, m, runes("G"))
	}
	if m.machine.Len() != 45 || !m.machine.Complete() {
		t.Fatalf("expected all 45 reviews, got %d (complete=%v)", m.machine.Len(), m.machine.Complete())
	}

	m = press(t, m, runes("G"))
	if m.cursor != 45 {
		t.Fatalf("expected cursor on the count row, got %d", m.cursor)
	}
	view := screen(m)
	if !strings.Contains(view, "45 отзывов") || !strings.Contains(view, "end of feed") {
		t.Fatalf("expected count row at the bottom, got:\n%s", view)
	}

	calls := loader.calls
	m = press(t, m, runes("G"))
	if loader.calls != calls {
		t.Fatalf("expected no fetch once the feed is complete, got %d more", loader.calls-calls)
	}
}

func TestModel_CursorMovesAndScrollFollows(t *testing.T) {
	m := startModel(t, &pageLoader{records: testRecords(45)})

	m = press(t, m, runes("j"))
	if m.cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", m.cursor)
	}
	m = press(t, m, runes("k"))
	m = press(t, m, runes("k"))
	if m.cursor != 0 || m.scroll != 0 {
		t.Fatalf("expected cursor and scroll at top, got %d/%d", m.cursor, m.scroll)
	}

	for i := 0; i < 10; i++ {
		m = press(t, m, runes("j"))
	}
	tops := m.rowTops()
	if tops[m.cursor] < m.scroll || tops[m.cursor+1] > m.scroll+m.listHeight() {
		t.Fatalf("focused row [%d, %d) not inside viewport at %d", tops[m.cursor], tops[m.cursor+1], m.scroll)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	if m.scroll == 0 {
		t.Fatal("expected page down to scroll")
	}
	m = press(t, m, runes("g"))
	if m.cursor != 0 || m.scroll != 0 {
		t.Fatalf("expected g to jump to top, got %d/%d", m.cursor, m.scroll)
	}
}

func TestModel_EnterExpandsFocusedReview(t *testing.T) {
	m := startModel(t, &pageLoader{records: testRecords(5)})

	before := m.adapter.HeightAt(0, float64(m.listWidth()))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	row, _ := m.machine.Row(0)
	if !row.Expanded() {
		t.Fatal("expected the focused review to expand")
	}
	if after := m.adapter.HeightAt(0, float64(m.listWidth())); after <= before {
		t.Fatalf("expected expanded row to grow, %v -> %v", before, after)
	}
	if strings.Contains(screen(m), layout.ShowMoreLabel) {
		t.Fatal("expected show more label to disappear")
	}
}

func TestModel_RefreshResetsPosition(t *testing.T) {
	loader := &pageLoader{records: testRecords(45)}
	m := startModel(t, loader)
	m = press(t, m, runes("G"))
	gen := m.machine.Generation()

	m = press(t, m, runes("r"))
	if m.machine.Generation() == gen {
		t.Fatal("expected refresh to bump the generation")
	}
	if m.cursor != 0 || m.scroll != 0 {
		t.Fatalf("expected position reset, got %d/%d", m.cursor, m.scroll)
	}
	if m.machine.Len() != 20 {
		t.Fatalf("expected first page after refresh, got %d rows", m.machine.Len())
	}
}

func TestModel_FailedFirstPageIsRetriedByScrolling(t *testing.T) {
	loader := &pageLoader{records: testRecords(10), fail: 1}
	m := newTestModel(loader)
	m = drain(t, m, m.Init())

	view := screen(m)
	if !strings.Contains(view, "Не удалось загрузить отзывы") || !strings.Contains(view, "network down") {
		t.Fatalf("expected error state, got:\n%s", view)
	}

	m = press(t, m, runes("j"))
	if m.machine.Len() != 10 || m.machine.LastError() != nil {
		t.Fatalf("expected retry to load the feed, got %d rows (%v)", m.machine.Len(), m.machine.LastError())
	}
}

func TestModel_OpenWithoutBrowserReportsStatus(t *testing.T) {
	m := startModel(t, &pageLoader{records: testRecords(3)})

	m = press(t, m, runes("o"))
	if !strings.Contains(m.status, "could not open") {
		t.Fatalf("expected open failure status, got %q", m.status)
	}

	var opened string
	m.openURLFn = func(u string) error { opened = u; return nil }
	m = press(t, m, runes("o"))
	if opened != "https://cdn.example.com/a/0.png" || !strings.Contains(m.status, "Opened") {
		t.Fatalf("unexpected open result %q / %q", opened, m.status)
	}
}

func TestModel_HelpAndQuit(t *testing.T) {
	m := startModel(t, &pageLoader{records: testRecords(3)})

	m = press(t, m, runes("?"))
	if !m.showHelp || !strings.Contains(screen(m), "Navigation:") {
		t.Fatal("expected help view")
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp {
		t.Fatal("expected esc to close help")
	}

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}
