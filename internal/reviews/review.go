// Package reviews holds the review wire format and the HTTP provider that serves it.
package reviews

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedPage is returned by Decode for payloads that are not a review page.
var ErrMalformedPage = errors.New("malformed review page")

// Record is one decoded review. It is never mutated after Decode.
type Record struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Rating    int      `json:"rating"`
	Text      string   `json:"text"`
	Created   string   `json:"created"`
	AvatarURL string   `json:"avatar_url"`
	PhotoURLs []string `json:"photo_urls"`
}

// Username is "First Last", collapsing missing parts.
func (r Record) Username() string {
	return strings.Join(strings.Fields(r.FirstName+" "+r.LastName), " ")
}

// Page is one provider response. Count is the total number of reviews, not len(Items).
type Page struct {
	Count int      `json:"count"`
	Items []Record `json:"items"`
}

// Decode parses a page payload. Any structural problem wraps ErrMalformedPage.
func Decode(data []byte) (Page, error) {
	var raw struct {
		Count *int            `json:"count"`
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrMalformedPage, err)
	}
	if raw.Count == nil {
		return Page{}, fmt.Errorf("%w: missing count", ErrMalformedPage)
	}
	if *raw.Count < 0 {
		return Page{}, fmt.Errorf("%w: negative count %d", ErrMalformedPage, *raw.Count)
	}

	page := Page{Count: *raw.Count}
	if items := bytes.TrimSpace(raw.Items); len(items) > 0 && !bytes.Equal(items, []byte("null")) {
		if err := json.Unmarshal(items, &page.Items); err != nil {
			return Page{}, fmt.Errorf("%w: items: %v", ErrMalformedPage, err)
		}
	}
	return page, nil
}
