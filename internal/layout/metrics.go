package layout

// Metrics holds the fixed sizes and spacings of a review row.
type Metrics struct {
	Insets Insets
	Avatar Size
	Photo  Size

	AvatarToUsername  float64
	UsernameToRating  float64
	RatingToText      float64
	RatingToPhotos    float64
	PhotoSpacing      float64
	PhotosToText      float64
	TextToCreated     float64
	ShowMoreToCreated float64

	// CountOffset is the space above and below the total-count label.
	CountOffset float64
}

// DefaultMetrics are the row metrics in points.
func DefaultMetrics() Metrics {
	return Metrics{
		Insets:            Insets{Top: 9, Left: 12, Bottom: 9, Right: 12},
		Avatar:            Size{W: 36, H: 36},
		Photo:             Size{W: 55, H: 66},
		AvatarToUsername:  10,
		UsernameToRating:  6,
		RatingToText:      6,
		RatingToPhotos:    10,
		PhotoSpacing:      8,
		PhotosToText:      10,
		TextToCreated:     6,
		ShowMoreToCreated: 6,
		CountOffset:       10,
	}
}

// TerminalMetrics are the row metrics in terminal cells.
func TerminalMetrics() Metrics {
	return Metrics{
		Insets:           Insets{Top: 1, Left: 1, Bottom: 0, Right: 1},
		Avatar:           Size{W: 4, H: 2},
		Photo:            Size{W: 6, H: 2},
		AvatarToUsername: 1,
		PhotoSpacing:     1,
		CountOffset:      1,
	}
}

// Styles are the fonts each text role is set in.
type Styles struct {
	Username Font
	Body     Font
	Created  Font
	ShowMore Font
	Count    Font
}

func DefaultStyles() Styles {
	return Styles{
		Username: Font{Name: "system-bold", Size: 16},
		Body:     Font{Name: "system", Size: 16},
		Created:  Font{Name: "system", Size: 14},
		ShowMore: Font{Name: "system", Size: 16},
		Count:    Font{Name: "system", Size: 15},
	}
}

func TerminalStyles() Styles {
	cell := Font{Name: "cell", Size: 1}
	return Styles{Username: cell, Body: cell, Created: cell, ShowMore: cell, Count: cell}
}

// ShowMoreLabel is the caption of the control that reveals the full review text.
const ShowMoreLabel = "Показать полностью..."
