package layout

import "math"

// Engine sizes review rows. It keeps no state between calls.
type Engine struct {
	Metrics  Metrics
	Measurer Measurer
	ShowMore Text
}

func NewEngine(metrics Metrics, measurer Measurer, styles Styles) *Engine {
	return &Engine{
		Metrics:  metrics,
		Measurer: measurer,
		ShowMore: Text{Content: ShowMoreLabel, Font: styles.ShowMore, Role: RoleShowMore},
	}
}

// ReviewContent is everything about a review row that affects its geometry.
type ReviewContent struct {
	Username   Text
	Rating     Size
	PhotoCount int
	Body       Text
	MaxLines   int
	Created    Text
}

// ReviewFrames are the computed sub-element rectangles of a review row.
type ReviewFrames struct {
	Avatar          Rect
	Username        Rect
	Rating          Rect
	Photos          []Rect
	Body            Rect
	ShowMore        Rect
	ShowMoreVisible bool
	Created         Rect
	Height          float64
}

// TextWidth is the width of the text column for a row maxWidth wide.
func (e *Engine) TextWidth(maxWidth float64) float64 {
	return math.Max(0, maxWidth-e.Metrics.Insets.Right-e.textLeft())
}

func (e *Engine) textLeft() float64 {
	m := e.Metrics
	return m.Insets.Left + m.Avatar.W + m.AvatarToUsername
}

func (e *Engine) Review(c ReviewContent, maxWidth float64) ReviewFrames {
	m := e.Metrics
	left := e.textLeft()
	width := e.TextWidth(maxWidth)

	var f ReviewFrames
	f.Avatar = Rect{X: m.Insets.Left, Y: m.Insets.Top, W: m.Avatar.W, H: m.Avatar.H}
	f.Username = rectAt(left, m.Insets.Top, e.Measurer.Measure(c.Username, width, 0))
	f.Rating = rectAt(left, f.Username.MaxY()+m.UsernameToRating, c.Rating)

	y := f.Rating.MaxY()
	if c.PhotoCount > 0 {
		f.Photos = make([]Rect, c.PhotoCount)
		x := left
		for i := range f.Photos {
			f.Photos[i] = Rect{X: x, Y: y + m.RatingToPhotos, W: m.Photo.W, H: m.Photo.H}
			x = f.Photos[i].MaxX() + m.PhotoSpacing
		}
		y = f.Photos[0].MaxY() + m.PhotosToText
	} else {
		y += m.RatingToText
	}

	if c.Body.Content != "" {
		shown := e.Measurer.Measure(c.Body, width, c.MaxLines)
		actual := shown
		if c.MaxLines > 0 {
			actual = e.Measurer.Measure(c.Body, width, 0)
		}
		f.ShowMoreVisible = c.MaxLines > 0 && actual.H > shown.H
		f.Body = rectAt(left, y, shown)
		y = f.Body.MaxY() + m.TextToCreated
	}

	if f.ShowMoreVisible {
		f.ShowMore = rectAt(left, y, e.Measurer.Measure(e.ShowMore, width, 1))
		y = f.ShowMore.MaxY() + m.ShowMoreToCreated
	}

	f.Created = rectAt(left, y, e.Measurer.Measure(c.Created, width, 0))
	f.Height = f.Created.MaxY() + m.Insets.Bottom
	return f
}

// CountFrames is the geometry of the trailing total-count row.
type CountFrames struct {
	Label  Rect
	Height float64
}

func (e *Engine) Count(label Text, maxWidth float64) CountFrames {
	offset := e.Metrics.CountOffset
	size := e.Measurer.Measure(label, maxWidth, 0)
	x := math.Max(0, (maxWidth-size.W)/2)
	frame := rectAt(x, offset, size)
	return CountFrames{Label: frame, Height: frame.MaxY() + offset}
}
