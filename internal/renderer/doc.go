// Package renderer groups the text geometry layers of textgeom.
//
// The renderer is responsible for:
//   - Shaping text into wrapped lines with tab expansion and Unicode clusters
//   - Caching the layout of a piece of text across frames
//   - Answering geometry queries (point to byte offset and back)
//   - Grouping and merging selections by display row
//   - Painting styled spans onto cell grids, terminals and images
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│   element (Window, StyledText, Draw)    │
//	├─────────────────────────────────────────┤
//	│  layout (TextLayout) │ selection        │
//	│  shaper (lines, fonts, line cache)      │
//	├─────────────────────────────────────────┤
//	│  core (units, styles, Canvas)           │
//	├─────────────────────────────────────────┤
//	│  backend: Buffer │ Terminal │ Image     │
//	└─────────────────────────────────────────┘
//
// highlight turns source text into highlight ranges that element splices into
// text runs.
//
// Usage:
//
//	ts := shaper.New(shaper.NewGoFonts())
//	win := element.NewWindow(ts, element.WithCanvas(canvas))
//	text := element.Text("hello\nworld")
//	size, err := element.Draw(text, win, core.Pt(0, 0), available)
//	ix, exact := text.Layout().IndexForPosition(p)
package renderer
