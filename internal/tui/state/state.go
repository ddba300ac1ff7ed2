// Package state holds the pure cursor and scroll arithmetic of the review list.
package state

import "sort"

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// ClampScroll keeps a scroll offset inside [0, content-viewport].
func ClampScroll(scroll, content, viewport int) int {
	maxScroll := content - viewport
	if maxScroll < 0 {
		maxScroll = 0
	}
	if scroll > maxScroll {
		return maxScroll
	}
	if scroll < 0 {
		return 0
	}
	return scroll
}

// Reveal returns the smallest scroll change that brings the row spanning
// [top, bottom) into view. Rows taller than the viewport are aligned to their top.
func Reveal(scroll, top, bottom, viewport int) int {
	if viewport <= 0 {
		return top
	}
	if top < scroll || bottom-top > viewport {
		return top
	}
	if bottom > scroll+viewport {
		return bottom - viewport
	}
	return scroll
}

// Offsets turns row heights into row tops. The extra last element is the
// total content height.
func Offsets(heights []int) []int {
	tops := make([]int, len(heights)+1)
	for i, h := range heights {
		tops[i+1] = tops[i] + h
	}
	return tops
}

// RowAtOffset is the index of the row covering offset, given tops from Offsets.
func RowAtOffset(tops []int, offset int) int {
	rows := len(tops) - 1
	if rows <= 0 {
		return 0
	}
	i := sort.Search(rows, func(i int) bool { return tops[i+1] > offset })
	return ClampCursor(i, rows)
}

// PageStep is how far pgup/pgdown scroll: one viewport minus a line of overlap.
func PageStep(viewport int) int {
	if viewport <= 0 {
		return 10
	}
	if viewport <= 3 {
		return viewport
	}
	return viewport - 1
}
