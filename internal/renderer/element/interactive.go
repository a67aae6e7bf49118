package element

import (
	"sync"

	"github.com/dshills/textgeom/internal/renderer/core"
)

// Range is a half-open byte range.
type Range struct {
	Start int
	End   int
}

// Contains returns true if ix is in the range.
func (r Range) Contains(ix int) bool {
	return ix >= r.Start && ix < r.End
}

// ClickFunc is called with the index of the clicked range.
type ClickFunc func(rangeIndex int)

// HoverFunc is called when the hovered byte index changes. ok is false when the
// pointer is not over a glyph.
type HoverFunc func(index int, ok bool)

// InteractiveText wraps a StyledText with click and hover handling.
// Mouse methods may be called from an input goroutine.
type InteractiveText struct {
	*StyledText

	mu        sync.Mutex
	clickable []Range
	onClick   ClickFunc
	onHover   HoverFunc
	downIndex int
	pressed   bool
	hovered   int
	hovering  bool
}

// NewInteractiveText makes text interactive.
func NewInteractiveText(text *StyledText) *InteractiveText {
	return &InteractiveText{StyledText: text}
}

// OnClick registers fn for clicks in ranges. A click fires when mouse down and mouse
// up land in the same range.
func (t *InteractiveText) OnClick(ranges []Range, fn ClickFunc) *InteractiveText {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clickable = append([]Range(nil), ranges...)
	t.onClick = fn
	return t
}

// OnHover registers fn for hover changes.
func (t *InteractiveText) OnHover(fn HoverFunc) *InteractiveText {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onHover = fn
	return t
}

// hit returns the exactly-hit byte index under p.
func (t *InteractiveText) hit(p core.Point) (int, bool) {
	bounds, err := t.layout.Bounds()
	if err != nil || !bounds.Contains(p) {
		return 0, false
	}
	return t.layout.IndexForPosition(p)
}

func (t *InteractiveText) rangeAt(ix int) (int, bool) {
	for i, r := range t.clickable {
		if r.Contains(ix) {
			return i, true
		}
	}
	return 0, false
}

// MouseDown records a press at p. It reports whether the press landed on a
// clickable range.
func (t *InteractiveText) MouseDown(p core.Point) bool {
	ix, ok := t.hit(p)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.pressed = false
	if !ok {
		return false
	}
	if _, in := t.rangeAt(ix); !in {
		return false
	}
	t.downIndex, t.pressed = ix, true
	return true
}

// MouseUp completes a press at p and fires the click handler when the press and the
// release are in the same range. It reports whether a click fired.
func (t *InteractiveText) MouseUp(p core.Point) bool {
	ix, ok := t.hit(p)

	t.mu.Lock()
	pressed, down := t.pressed, t.downIndex
	t.pressed = false
	fn := t.onClick
	var upRange, downRange int
	var same bool
	if pressed && ok {
		var upIn, downIn bool
		upRange, upIn = t.rangeAt(ix)
		downRange, downIn = t.rangeAt(down)
		same = upIn && downIn && upRange == downRange
	}
	t.mu.Unlock()

	if !same || fn == nil {
		return false
	}
	fn(upRange)
	return true
}

// MouseMove updates the hovered index and fires the hover handler when it changes.
func (t *InteractiveText) MouseMove(p core.Point) {
	ix, ok := t.hit(p)

	t.mu.Lock()
	changed := ok != t.hovering || (ok && ix != t.hovered)
	t.hovered, t.hovering = ix, ok
	fn := t.onHover
	t.mu.Unlock()

	if changed && fn != nil {
		fn(ix, ok)
	}
}

// PointerAt reports whether p is over a clickable range.
func (t *InteractiveText) PointerAt(p core.Point) bool {
	ix, ok := t.hit(p)
	if !ok {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, in := t.rangeAt(ix)
	return in
}
