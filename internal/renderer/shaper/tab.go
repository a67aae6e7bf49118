package shaper

import "github.com/dshills/textgeom/internal/renderer/core"

// TabStops places tab stops every width space advances.
type TabStops struct {
	width int
}

// NewTabStops creates tab stops with the given width in spaces.
func NewTabStops(width int) *TabStops {
	if width < 1 {
		width = DefaultTabWidth
	}
	return &TabStops{width: width}
}

// Width returns the tab width in spaces.
func (t *TabStops) Width() int {
	return t.width
}

// NextStop returns the first tab stop strictly after x.
func (t *TabStops) NextStop(x, space core.Pixels) core.Pixels {
	stride := space * core.Pixels(t.width)
	if stride <= 0 {
		return x
	}
	n := (x / stride).Floor() + 1
	return n * stride
}

// Advance returns the advance of a tab starting at x.
func (t *TabStops) Advance(x, space core.Pixels) core.Pixels {
	return t.NextStop(x, space) - x
}
