package state

import (
	"reflect"
	"testing"
)

func TestClampCursor(t *testing.T) {
	if got := ClampCursor(-1, 3); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
	if got := ClampCursor(3, 3); got != 2 {
		t.Fatalf("expected clamp to 2, got %d", got)
	}
	if got := ClampCursor(1, 3); got != 1 {
		t.Fatalf("expected keep 1, got %d", got)
	}
	if got := ClampCursor(5, 0); got != 0 {
		t.Fatalf("expected 0 for empty list, got %d", got)
	}
}

func TestClampScroll(t *testing.T) {
	cases := []struct {
		scroll, content, viewport, want int
	}{
		{scroll: -4, content: 100, viewport: 20, want: 0},
		{scroll: 90, content: 100, viewport: 20, want: 80},
		{scroll: 10, content: 100, viewport: 20, want: 10},
		{scroll: 10, content: 5, viewport: 20, want: 0},
	}
	for _, tc := range cases {
		if got := ClampScroll(tc.scroll, tc.content, tc.viewport); got != tc.want {
			t.Fatalf("ClampScroll(%d, %d, %d) = %d, want %d", tc.scroll, tc.content, tc.viewport, got, tc.want)
		}
	}
}

func TestReveal(t *testing.T) {
	cases := []struct {
		name                                string
		scroll, top, bottom, viewport, want int
	}{
		{name: "visible", scroll: 10, top: 12, bottom: 18, viewport: 20, want: 10},
		{name: "above", scroll: 10, top: 4, bottom: 8, viewport: 20, want: 4},
		{name: "below", scroll: 10, top: 28, bottom: 35, viewport: 20, want: 15},
		{name: "taller than viewport", scroll: 0, top: 30, bottom: 80, viewport: 20, want: 30},
	}
	for _, tc := range cases {
		if got := Reveal(tc.scroll, tc.top, tc.bottom, tc.viewport); got != tc.want {
			t.Fatalf("%s: Reveal = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestOffsetsAndRowAtOffset(t *testing.T) {
	tops := Offsets([]int{5, 3, 7})
	if want := []int{0, 5, 8, 15}; !reflect.DeepEqual(tops, want) {
		t.Fatalf("Offsets = %v, want %v", tops, want)
	}

	for offset, want := range map[int]int{0: 0, 4: 0, 5: 1, 7: 1, 8: 2, 14: 2, 99: 2} {
		if got := RowAtOffset(tops, offset); got != want {
			t.Fatalf("RowAtOffset(%d) = %d, want %d", offset, got, want)
		}
	}
	if got := RowAtOffset([]int{0}, 3); got != 0 {
		t.Fatalf("expected 0 for empty list, got %d", got)
	}
}

func TestPageStep(t *testing.T) {
	if got := PageStep(0); got != 10 {
		t.Fatalf("expected default step 10, got %d", got)
	}
	if got := PageStep(12); got != 11 {
		t.Fatalf("expected step 11, got %d", got)
	}
	if got := PageStep(2); got != 2 {
		t.Fatalf("expected step 2 for tiny viewport, got %d", got)
	}
}
