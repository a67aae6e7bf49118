package selection

import (
	"sort"
	"strings"
)

// TextSnapshot is an immutable view of plain text where every hard line is one
// display line. It implements DisplayMap.
type TextSnapshot struct {
	starts []int // byte offset of each line start
	size   int
}

// NewTextSnapshot creates a snapshot of text.
func NewTextSnapshot(text string) *TextSnapshot {
	starts := make([]int, 1, strings.Count(text, "\n")+1)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &TextSnapshot{starts: starts, size: len(text)}
}

// Rows returns the number of rows.
func (s *TextSnapshot) Rows() uint32 {
	return uint32(len(s.starts))
}

// LineLen returns the byte length of row, excluding its newline.
func (s *TextSnapshot) LineLen(row uint32) uint32 {
	if int(row) >= len(s.starts) {
		return 0
	}
	end := s.size
	if int(row)+1 < len(s.starts) {
		end = s.starts[row+1] - 1
	}
	return uint32(end - s.starts[row])
}

// MaxPoint returns the end of the text.
func (s *TextSnapshot) MaxPoint() Point {
	last := s.Rows() - 1
	return Point{Row: last, Column: s.LineLen(last)}
}

// Clip clamps p into the text.
func (s *TextSnapshot) Clip(p Point) Point {
	if end := s.MaxPoint(); p.Row > end.Row {
		return end
	}
	p.Column = min(p.Column, s.LineLen(p.Row))
	return p
}

// NextLineBoundary implements DisplayMap: the end of p's row, clamped to the text.
func (s *TextSnapshot) NextLineBoundary(p Point) Point {
	p = s.Clip(p)
	return Point{Row: p.Row, Column: s.LineLen(p.Row)}
}

// PointToOffset converts a point to a byte offset. The point is clipped first.
func (s *TextSnapshot) PointToOffset(p Point) int {
	p = s.Clip(p)
	return s.starts[p.Row] + int(p.Column)
}

// OffsetToPoint converts a byte offset to a point. Offsets past the end map to MaxPoint.
func (s *TextSnapshot) OffsetToPoint(offset int) Point {
	if offset >= s.size {
		return s.MaxPoint()
	}
	offset = max(offset, 0)
	row := sort.SearchInts(s.starts, offset+1) - 1
	return Point{Row: uint32(row), Column: uint32(offset - s.starts[row])}
}
