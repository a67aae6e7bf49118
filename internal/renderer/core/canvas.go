package core

// TextSpan is a single-style stretch of glyphs positioned on one visual row.
type TextSpan struct {
	// Origin is the top-left corner of the span's line box.
	Origin Point
	// Size is the advance width of the span and the line height.
	Size Size
	// Text is the source text of the glyphs.
	Text string
	// FontSize is the resolved font size.
	FontSize Pixels
	// Run carries the paint style. Len is not meaningful here.
	Run TextRun
}

// Bounds returns the line box of the span.
func (s TextSpan) Bounds() Bounds {
	return NewBounds(s.Origin, s.Size)
}

// Canvas is a paint target for laid-out text.
// Implementations paint the background (if any) before the glyphs.
type Canvas interface {
	PaintText(span TextSpan) error
}
