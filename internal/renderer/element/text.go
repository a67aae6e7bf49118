package element

import (
	"cmp"
	"slices"

	"github.com/dshills/textgeom/internal/renderer/core"
	"github.com/dshills/textgeom/internal/renderer/layout"
)

// Highlight styles the bytes [Start, End) of a text.
type Highlight struct {
	Start int
	End   int
	Style core.HighlightStyle
}

// StyledText is text with optional explicit runs. Without runs the text is laid out
// in the window's current style.
type StyledText struct {
	text   string
	runs   []core.TextRun
	layout *layout.TextLayout
}

// NewStyledText creates a styled text element.
func NewStyledText(text string) *StyledText {
	return &StyledText{text: text, layout: layout.New()}
}

// Text creates an element for a plain string in the window's current style.
func Text(text string) *StyledText {
	return NewStyledText(text)
}

// WithRuns sets explicit runs. Their lengths should add up to the text length.
func (t *StyledText) WithRuns(runs []core.TextRun) *StyledText {
	t.runs = runs
	return t
}

// WithHighlights builds runs from base with each highlight laid over its range.
// Bytes not covered by a highlight use base. Ranges are clamped to the text and
// overlapping parts of later highlights are dropped.
func (t *StyledText) WithHighlights(base core.TextStyle, highlights []Highlight) *StyledText {
	t.runs = spliceHighlights(len(t.text), base, highlights)
	return t
}

func spliceHighlights(n int, base core.TextStyle, highlights []Highlight) []core.TextRun {
	sorted := slices.Clone(highlights)
	slices.SortStableFunc(sorted, func(a, b Highlight) int {
		return cmp.Compare(a.Start, b.Start)
	})

	runs := make([]core.TextRun, 0, 2*len(sorted)+1)
	ix := 0
	for _, h := range sorted {
		start := max(h.Start, ix)
		end := min(h.End, n)
		if start >= end {
			continue
		}
		if ix < start {
			runs = append(runs, base.ToRun(start-ix))
		}
		runs = append(runs, base.Highlight(h.Style).ToRun(end-start))
		ix = end
	}
	if ix < n {
		runs = append(runs, base.ToRun(n-ix))
	}
	return runs
}

// Text returns the source text.
func (t *StyledText) Text() string {
	return t.text
}

// Runs returns the explicit runs, or nil.
func (t *StyledText) Runs() []core.TextRun {
	return t.runs
}

// Layout returns the element's text layout for geometry queries.
func (t *StyledText) Layout() *layout.TextLayout {
	return t.layout
}

// RequestLayout implements Element.
func (t *StyledText) RequestLayout(win *Window) layout.LayoutID {
	return t.layout.Layout(t.text, t.runs, win)
}

// Prepaint implements Element.
func (t *StyledText) Prepaint(bounds core.Bounds) error {
	return t.layout.Prepaint(bounds)
}

// Paint implements Element.
func (t *StyledText) Paint(win *Window) error {
	canvas := win.Canvas()
	if canvas == nil {
		return ErrNoCanvas
	}
	return t.layout.Paint(canvas)
}
