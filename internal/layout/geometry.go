// Package layout computes row geometry for the review list.
package layout

// Rect is an axis-aligned rectangle in layout units (points or terminal cells).
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MaxY() float64 { return r.Y + r.H }

func (r Rect) IsZero() bool { return r == Rect{} }

type Size struct {
	W, H float64
}

type Insets struct {
	Top, Left, Bottom, Right float64
}

type Font struct {
	Name string
	Size float64
}

// Role tells the renderer which style a piece of text is drawn with.
type Role string

const (
	RoleUsername Role = "username"
	RoleBody     Role = "body"
	RoleCreated  Role = "created"
	RoleShowMore Role = "show_more"
	RoleCount    Role = "count"
)

// Text is pre-styled content: the string plus everything needed to measure and draw it.
type Text struct {
	Content string
	Font    Font
	Role    Role
}

func rectAt(x, y float64, s Size) Rect {
	return Rect{X: x, Y: y, W: s.W, H: s.H}
}
