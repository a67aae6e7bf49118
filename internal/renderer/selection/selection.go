// Package selection provides the selection algebra: canonical merging of overlapping
// selections and grouping of selections into contiguous display-row bands.
//
// Both algorithms are lazy, forward-only adapters over an iter.Seq. They hold a
// cursor over their input and produce one item per Next call; they cannot be
// rewound. Call Stop (or range over All to completion) to release the input.
package selection

import "fmt"

// Point is a position in a document: a row and a byte column within it.
type Point struct {
	Row    uint32
	Column uint32
}

// Pt creates a point.
func Pt(row, column uint32) Point {
	return Point{Row: row, Column: column}
}

// Compare orders points by row, then column.
func (p Point) Compare(other Point) int {
	switch {
	case p.Row < other.Row:
		return -1
	case p.Row > other.Row:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	default:
		return 0
	}
}

// Less returns true if p is before other.
func (p Point) Less(other Point) bool {
	return p.Compare(other) < 0
}

// String returns "row:column".
func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Column)
}

// Selection is a range between two positions. Start and End are expected to be
// normalized (Start not after End); Reversed records that the head is at Start.
type Selection[T comparable] struct {
	ID       int
	Start    T
	End      T
	Reversed bool
}

// IsEmpty returns true if the selection is a cursor.
func (s Selection[T]) IsEmpty() bool {
	return s.Start == s.End
}

// Head returns the moving end of the selection.
func (s Selection[T]) Head() T {
	if s.Reversed {
		return s.Start
	}
	return s.End
}

// Tail returns the anchored end of the selection.
func (s Selection[T]) Tail() T {
	if s.Reversed {
		return s.End
	}
	return s.Start
}

// New creates a selection from an anchor and a head, normalizing the order with cmp.
func New[T comparable](id int, tail, head T, cmp func(a, b T) int) Selection[T] {
	if cmp(head, tail) < 0 {
		return Selection[T]{ID: id, Start: head, End: tail, Reversed: true}
	}
	return Selection[T]{ID: id, Start: tail, End: head}
}

// String returns "[start-end]".
func (s Selection[T]) String() string {
	return fmt.Sprintf("[%v-%v]", s.Start, s.End)
}
