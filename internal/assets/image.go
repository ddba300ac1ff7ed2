// Package assets fetches, decodes and caches review images in a memory tier
// backed by a persistent store.
package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/chai2010/webp"
)

// Image is a decoded asset. Cached images are shared by pointer and must not be modified.
type Image struct {
	URL     string
	Format  string
	Width   int
	Height  int
	Data    []byte
	Decoded image.Image

	Placeholder bool
}

// NewPlaceholder returns a stand-in shown until the real asset resolves.
func NewPlaceholder(name string, width, height int) *Image {
	return &Image{URL: name, Width: width, Height: height, Placeholder: true}
}

// Decode turns fetched bytes into an Image.
func Decode(url string, data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("decode %s: empty data", url)
	}
	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	bounds := decoded.Bounds()
	return &Image{
		URL:     url,
		Format:  format,
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Data:    data,
		Decoded: decoded,
	}, nil
}
