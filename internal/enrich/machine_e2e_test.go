package enrich

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/reviews-feed/internal/feed"
	"github.com/glabrego/reviews-feed/internal/layout"
	"github.com/glabrego/reviews-feed/internal/reviews"
)

type slicePages struct {
	records []reviews.Record
}

func (p slicePages) LoadPage(_ context.Context, offset, limit int) (reviews.Page, error) {
	end := min(offset+limit, len(p.records))
	return reviews.Page{Count: len(p.records), Items: p.records[min(offset, end):end]}, nil
}

func run(m *feed.Machine, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			queue = append(queue, m.Update(msg))
		}
	}
}

func TestFeed_FortyFiveReviewsInPagesOfTwenty(t *testing.T) {
	records := make([]reviews.Record, 45)
	for i := range records {
		records[i] = reviews.Record{
			FirstName: "User",
			LastName:  fmt.Sprint(i),
			Rating:    5,
			Text:      fmt.Sprintf("review number %d", i),
			AvatarURL: fmt.Sprintf("https://cdn.example.com/avatars/%d.png", i%7),
			PhotoURLs: []string{fmt.Sprintf("https://cdn.example.com/photos/%d.png", i)},
		}
	}
	loader := newFakeAssets()
	m := feed.NewMachine(slicePages{records: records}, testCoordinator(loader), feed.Options{PageSize: 20})
	engine := layout.NewEngine(layout.TerminalMetrics(), layout.Cells(), layout.TerminalStyles())
	adapter := feed.NewAdapter(m, engine, 0)

	maxRowCount := 0
	m.Subscribe(func(s feed.Snapshot) {
		if n := adapter.RowCount(); n > maxRowCount {
			maxRowCount = n
		}
		if s.TotalKnown && len(s.Rows) > s.Total {
			t.Errorf("observer saw %d rows for total %d", len(s.Rows), s.Total)
		}
	})

	for _, want := range []int{20, 40, 45} {
		run(m, m.LoadNextPage())
		if m.Len() != want {
			t.Fatalf("expected %d rows, got %d", want, m.Len())
		}
		if m.Loading() {
			t.Fatal("expected page to be settled")
		}
	}

	if adapter.RowCount() != 46 || maxRowCount != 46 {
		t.Fatalf("expected 46 list rows, got %d (max seen %d)", adapter.RowCount(), maxRowCount)
	}
	last, _ := adapter.RowAt(45)
	if last.Count == nil || last.Count.Label.Content != "45 отзывов" {
		t.Fatalf("unexpected trailing row: %+v", last)
	}

	for i := 0; i < m.Len(); i++ {
		row, _ := m.Row(i)
		if row.Avatar == nil || row.Avatar.Placeholder || row.Avatar.URL != row.AvatarURL {
			t.Fatalf("row %d avatar not resolved: %+v", i, row.Avatar)
		}
		if row.Photos[0] == nil || row.Photos[0].URL != row.PhotoURLs[0] {
			t.Fatalf("row %d photo not resolved into its own slot", i)
		}
	}
}
