// Package plural picks the grammatical form of a noun that follows a count.
package plural

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Forms are the three noun forms selected by the East Slavic rule table.
type Forms struct {
	One  string
	Few  string
	Many string
}

// ReviewForms declines "review".
var ReviewForms = Forms{One: "отзыв", Few: "отзыва", Many: "отзывов"}

// Category is the plural category of a count.
type Category int

const (
	One Category = iota
	Few
	Many
)

// Of classifies n. The teens (11..14 mod 100) always take Many.
func Of(n int) Category {
	if n < 0 {
		n = -n
	}
	if mod100 := n % 100; mod100 >= 11 && mod100 <= 14 {
		return Many
	}
	switch mod10 := n % 10; {
	case mod10 == 1:
		return One
	case mod10 >= 2 && mod10 <= 4:
		return Few
	default:
		return Many
	}
}

func (f Forms) For(n int) string {
	switch Of(n) {
	case One:
		return f.One
	case Few:
		return f.Few
	default:
		return f.Many
	}
}

var printer = message.NewPrinter(language.Russian)

// Count renders "<n> <form>" with the number grouped for the Russian locale.
func Count(n int, forms Forms) string {
	return printer.Sprintf("%d %s", n, forms.For(n))
}
