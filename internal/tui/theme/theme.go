package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/reviews-feed/internal/layout"
	"github.com/glabrego/reviews-feed/internal/rating"
)

type Theme struct {
	Title       lipgloss.Style
	Username    lipgloss.Style
	Body        lipgloss.Style
	Created     lipgloss.Style
	ShowMore    lipgloss.Style
	Count       lipgloss.Style
	StarFilled  lipgloss.Style
	StarEmpty   lipgloss.Style
	Focus       lipgloss.Style
	Placeholder lipgloss.Style
	MetaLabel   lipgloss.Style
	MetaValue   lipgloss.Style
	StateIdle   lipgloss.Style
	StateWarn   lipgloss.Style
	StateLoad   lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpBlue := lipgloss.Color("#89b4fa")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay0 := lipgloss.Color("#6c7086")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface1 := lipgloss.Color("#45475a")

	return Theme{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		Username:    lipgloss.NewStyle().Bold(true).Foreground(cpText),
		Body:        lipgloss.NewStyle().Foreground(cpSubtext1),
		Created:     lipgloss.NewStyle().Foreground(cpOverlay1),
		ShowMore:    lipgloss.NewStyle().Foreground(cpBlue),
		Count:       lipgloss.NewStyle().Foreground(cpSubtext0),
		StarFilled:  lipgloss.NewStyle().Foreground(cpYellow),
		StarEmpty:   lipgloss.NewStyle().Foreground(cpOverlay0),
		Focus:       lipgloss.NewStyle().Foreground(cpLavender),
		Placeholder: lipgloss.NewStyle().Foreground(cpSurface1),
		MetaLabel:   lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:   lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle:   lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:   lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:   lipgloss.NewStyle().Foreground(cpPeach),
	}
}

// ForRole is the style text of the given layout role is drawn with.
func (t Theme) ForRole(role layout.Role) lipgloss.Style {
	switch role {
	case layout.RoleUsername:
		return t.Username
	case layout.RoleBody:
		return t.Body
	case layout.RoleCreated:
		return t.Created
	case layout.RoleShowMore:
		return t.ShowMore
	case layout.RoleCount:
		return t.Count
	default:
		return lipgloss.NewStyle()
	}
}

// StyleRating colours the filled and empty stars of g separately.
func (t Theme) StyleRating(g rating.Glyph) string {
	stars := []rune(g.Text)
	filled := min(max(g.Value, 0), len(stars))
	out := ""
	if filled > 0 {
		out += t.StarFilled.Render(string(stars[:filled]))
	}
	if filled < len(stars) {
		out += t.StarEmpty.Render(string(stars[filled:]))
	}
	return out
}
