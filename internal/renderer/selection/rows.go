package selection

import (
	"fmt"
	"iter"
	"slices"
)

// DisplayMap locates display line boundaries.
type DisplayMap interface {
	// NextLineBoundary returns the end of the display line containing p.
	NextLineBoundary(p Point) Point
}

// RowEndFor returns the exclusive end row covered by sel.
//
// A non-empty selection that ends at column 0 does not cover its end row. Any other
// selection covers every row through the display line boundary after its end.
func RowEndFor(sel Selection[Point], dm DisplayMap) uint32 {
	if sel.IsEmpty() || sel.End.Column > 0 {
		return dm.NextLineBoundary(sel.End).Row + 1
	}
	return sel.End.Row
}

// RowRange is a half-open range of rows.
type RowRange struct {
	Start uint32
	End   uint32
}

// Len returns the number of rows in the range.
func (r RowRange) Len() uint32 {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Contains returns true if row is in the range.
func (r RowRange) Contains(row uint32) bool {
	return row >= r.Start && row < r.End
}

// String returns "start..end".
func (r RowRange) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// RowGroup is a band of contiguous rows and the selections that cover it.
type RowGroup struct {
	Rows       RowRange
	Selections []Selection[Point]
}

// ContiguousRowRanges groups a start-row-ordered sequence of selections into bands of
// contiguous rows. A selection starting on the row where the current band ends joins
// the band.
type ContiguousRowRanges struct {
	in *peekable[Selection[Point]]
	dm DisplayMap
}

// ByContiguousRows groups seq using dm to find row ends.
// seq must be ordered by ascending start row.
func ByContiguousRows(seq iter.Seq[Selection[Point]], dm DisplayMap) *ContiguousRowRanges {
	return &ContiguousRowRanges{in: newPeekable(seq), dm: dm}
}

// Next returns the next band.
func (c *ContiguousRowRanges) Next() (RowGroup, bool) {
	sel, ok := c.in.Next()
	if !ok {
		return RowGroup{}, false
	}

	start := sel.Start.Row
	end := RowEndFor(sel, c.dm)
	group := []Selection[Point]{sel}

	for {
		next, ok := c.in.Peek()
		if !ok || next.Start.Row > end {
			break
		}
		c.in.Next()
		group = append(group, next)
		end = max(end, RowEndFor(next, c.dm))
	}

	return RowGroup{Rows: RowRange{Start: start, End: end}, Selections: group}, true
}

// All returns the remaining bands as a sequence.
// The input is released when the loop ends.
func (c *ContiguousRowRanges) All() iter.Seq[RowGroup] {
	return func(yield func(RowGroup) bool) {
		defer c.Stop()
		for {
			g, ok := c.Next()
			if !ok || !yield(g) {
				return
			}
		}
	}
}

// Stop releases the input early.
func (c *ContiguousRowRanges) Stop() {
	c.in.Stop()
}

// Groups collects the bands of a start-row-ordered slice of selections.
func Groups(selections []Selection[Point], dm DisplayMap) []RowGroup {
	return slices.Collect(ByContiguousRows(slices.Values(selections), dm).All())
}
