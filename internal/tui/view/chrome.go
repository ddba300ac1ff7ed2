package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/reviews-feed/internal/feed"
	tuitheme "github.com/glabrego/reviews-feed/internal/tui/theme"
)

// Title is the screen title.
const Title = "Отзывы"

func Toolbar(showHelp bool) string {
	if showHelp {
		return "esc/?: close help | q: quit"
	}
	return "j/k move | pgup/pgdown jump | g/G top/bottom | enter expand | r refresh | ? help | q quit"
}

func Help() string {
	lines := []string{
		"Navigation:",
		"  j/k or arrows move between reviews, g/G jump top/bottom, pgup/pgdown scroll a screen",
		"  the next page loads automatically as you approach the end of the list",
		"Reviews:",
		"  enter or e shows the full text of a truncated review",
		"  r reloads the feed from the first page",
		"General:",
		"  ? toggles this help, q or ctrl+c quits",
	}
	return strings.Join(lines, "\n")
}

// Footer summarises the feed position: rows shown out of the known total.
func Footer(s feed.Snapshot, cursor int, th tuitheme.Theme) string {
	total := "?"
	if s.TotalKnown {
		total = fmt.Sprintf("%d", s.Total)
	}
	parts := []string{
		th.MetaLabel.Render("phase") + " " + th.MetaValue.Render(s.Phase.String()),
		th.MetaLabel.Render("shown") + " " + th.MetaValue.Render(fmt.Sprintf("%d/%s", len(s.Rows), total)),
	}
	if len(s.Rows) > 0 {
		parts = append(parts, th.MetaLabel.Render("at")+" "+th.MetaValue.Render(fmt.Sprintf("%d", cursor+1)))
	}
	if s.Complete {
		parts = append(parts, th.MetaValue.Render("end of feed"))
	}
	return strings.Join(parts, " • ")
}

// Message is the state line: loading, warning, or the last status.
func Message(loading bool, err error, status string, th tuitheme.Theme) string {
	state := "idle"
	stateLabel := th.StateIdle.Render("state")
	if loading {
		state = "loading"
		stateLabel = th.StateLoad.Render("state")
	}
	main := "Ready"
	if status != "" {
		main = status
	}
	if err != nil {
		state = "warning"
		stateLabel = th.StateWarn.Render("state")
		main = err.Error()
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}
