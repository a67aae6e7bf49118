package shaper

import (
	"sort"
	"strings"

	"github.com/dshills/textgeom/internal/renderer/core"
)

// Glyph is one shaped grapheme cluster of a line.
type Glyph struct {
	// Index is the byte offset of the cluster within the line.
	Index int
	// Len is the byte length of the cluster.
	Len int
	// X is the offset of the glyph from the start of its visual row.
	X core.Pixels
	// Advance is the horizontal advance.
	Advance core.Pixels
	// Run indexes the line's runs.
	Run int
	// Whitespace is set for spaces and tabs, which hang past the wrap width.
	Whitespace bool
}

// End returns the byte offset just past the cluster.
func (g Glyph) End() int {
	return g.Index + g.Len
}

// WrappedLine is one hard line of text shaped into one or more visual rows.
// A WrappedLine is immutable once returned by the shaper.
type WrappedLine struct {
	text     string
	glyphs   []Glyph
	rowStart []int // glyph index of the first glyph of each row after the first
	runs     []core.TextRun
	fontSize core.Pixels
}

// Text returns the source text of the line without its separator.
func (l *WrappedLine) Text() string {
	return l.text
}

// Len returns the byte length of the line.
func (l *WrappedLine) Len() int {
	return len(l.text)
}

// Glyphs returns the shaped clusters. The slice must not be modified.
func (l *WrappedLine) Glyphs() []Glyph {
	return l.glyphs
}

// Runs returns the style runs of the line.
func (l *WrappedLine) Runs() []core.TextRun {
	return l.runs
}

// FontSize returns the size the line was shaped at.
func (l *WrappedLine) FontSize() core.Pixels {
	return l.fontSize
}

// Rows returns the number of visual rows. An empty line still occupies one row.
func (l *WrappedLine) Rows() int {
	return len(l.rowStart) + 1
}

// WrapBoundaries returns the byte offsets at which wrapped rows start.
func (l *WrappedLine) WrapBoundaries() []int {
	out := make([]int, len(l.rowStart))
	for i, g := range l.rowStart {
		out[i] = l.glyphs[g].Index
	}
	return out
}

// rowGlyphs returns the glyph range [start, end) of a row.
func (l *WrappedLine) rowGlyphs(row int) (int, int) {
	start := 0
	if row > 0 {
		start = l.rowStart[row-1]
	}
	end := len(l.glyphs)
	if row < len(l.rowStart) {
		end = l.rowStart[row]
	}
	return start, end
}

// rowStartIndex returns the byte offset of the first cluster in a row.
func (l *WrappedLine) rowStartIndex(row int) int {
	start, end := l.rowGlyphs(row)
	if start == end {
		return len(l.text)
	}
	return l.glyphs[start].Index
}

// rowEndIndex returns the byte offset just past a row.
func (l *WrappedLine) rowEndIndex(row int) int {
	if row < len(l.rowStart) {
		return l.glyphs[l.rowStart[row]].Index
	}
	return len(l.text)
}

// rowWidth returns the advance width of a row, including trailing whitespace.
func (l *WrappedLine) rowWidth(row int) core.Pixels {
	start, end := l.rowGlyphs(row)
	if start == end {
		return 0
	}
	last := l.glyphs[end-1]
	return last.X + last.Advance
}

// rowInkWidth returns the width of a row without its trailing whitespace.
func (l *WrappedLine) rowInkWidth(row int) core.Pixels {
	start, end := l.rowGlyphs(row)
	for end > start && l.glyphs[end-1].Whitespace {
		end--
	}
	if end == start {
		return 0
	}
	last := l.glyphs[end-1]
	return last.X + last.Advance
}

// Width returns the width of the widest row.
func (l *WrappedLine) Width() core.Pixels {
	var w core.Pixels
	for row := range l.Rows() {
		w = w.Max(l.rowInkWidth(row))
	}
	return w
}

// Size returns the size of the line's rows at the given line height.
func (l *WrappedLine) Size(lineHeight core.Pixels) core.Size {
	return core.Sz(l.Width(), lineHeight*core.Pixels(l.Rows()))
}

// IndexForPosition returns the byte offset under p, relative to the line's origin.
// exact is false when p lies before or past the ink of its row; the index is then the
// nearest row boundary.
func (l *WrappedLine) IndexForPosition(p core.Point, lineHeight core.Pixels) (index int, exact bool) {
	row := 0
	if lineHeight > 0 && p.Y > 0 {
		row = min(int(p.Y/lineHeight), l.Rows()-1)
	}

	if p.X < 0 {
		return l.rowStartIndex(row), false
	}
	if p.X >= l.rowWidth(row) {
		return l.rowEndIndex(row), false
	}

	start, end := l.rowGlyphs(row)
	glyphs := l.glyphs[start:end]
	i := sort.Search(len(glyphs), func(i int) bool {
		return glyphs[i].X > p.X
	}) - 1
	if i < 0 {
		return l.rowStartIndex(row), false
	}
	return glyphs[i].Index, true
}

// PositionForIndex returns the top-left corner of the cluster at byte offset ix,
// relative to the line's origin. An offset equal to a row's end resolves to the end of
// that row rather than the start of the next.
func (l *WrappedLine) PositionForIndex(ix int, lineHeight core.Pixels) (core.Point, bool) {
	if ix < 0 || ix > len(l.text) {
		return core.Point{}, false
	}
	for row := range l.Rows() {
		if ix > l.rowEndIndex(row) {
			continue
		}
		return core.Pt(l.xForIndex(row, ix), lineHeight*core.Pixels(row)), true
	}
	return core.Point{}, false
}

func (l *WrappedLine) xForIndex(row, ix int) core.Pixels {
	start, end := l.rowGlyphs(row)
	for _, g := range l.glyphs[start:end] {
		if g.Index >= ix {
			return g.X
		}
	}
	return l.rowWidth(row)
}

// Paint paints the line with its top-left corner at origin.
// Consecutive glyphs of a row that share a run are painted as one span.
func (l *WrappedLine) Paint(origin core.Point, lineHeight core.Pixels, canvas core.Canvas) error {
	for row := range l.Rows() {
		start, end := l.rowGlyphs(row)
		y := origin.Y + lineHeight*core.Pixels(row)

		for i := start; i < end; {
			first := l.glyphs[i]
			j := i + 1
			for j < end && l.glyphs[j].Run == first.Run {
				j++
			}
			last := l.glyphs[j-1]

			span := core.TextSpan{
				Origin:   core.Pt(origin.X+first.X, y),
				Size:     core.Sz(last.X+last.Advance-first.X, lineHeight),
				Text:     l.text[first.Index:last.End()],
				FontSize: l.fontSize,
				Run:      l.runs[first.Run],
			}
			if err := canvas.PaintText(span); err != nil {
				return err
			}
			i = j
		}
	}
	return nil
}

// String returns the rows of the line separated by " | ", for debugging.
func (l *WrappedLine) String() string {
	var b strings.Builder
	for row := range l.Rows() {
		if row > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(l.text[l.rowStartIndex(row):l.rowEndIndex(row)])
	}
	return b.String()
}
