package selection

import (
	"cmp"
	"iter"
	"slices"
)

// MergedOverlapping merges a start-ordered sequence of selections into a sequence of
// non-overlapping selections. Selections that touch (one ends exactly where the next
// starts) are merged too.
//
// A merged selection keeps the ID and direction of the first selection folded into it.
type MergedOverlapping[T comparable] struct {
	in  *peekable[Selection[T]]
	cmp func(a, b T) int
}

// MergeOverlappingFunc merges seq using cmp to order positions.
// seq must be ordered by ascending Start.
func MergeOverlappingFunc[T comparable](seq iter.Seq[Selection[T]], cmp func(a, b T) int) *MergedOverlapping[T] {
	return &MergedOverlapping[T]{in: newPeekable(seq), cmp: cmp}
}

// MergeOverlapping merges seq over an ordered position type.
func MergeOverlapping[T cmp.Ordered](seq iter.Seq[Selection[T]]) *MergedOverlapping[T] {
	return MergeOverlappingFunc(seq, cmp.Compare[T])
}

// Next returns the next merged selection.
func (m *MergedOverlapping[T]) Next() (Selection[T], bool) {
	acc, ok := m.in.Next()
	if !ok {
		return Selection[T]{}, false
	}
	for {
		next, ok := m.in.Peek()
		if !ok || m.cmp(acc.End, next.Start) < 0 {
			break
		}
		m.in.Next()
		if m.cmp(next.Start, acc.Start) < 0 {
			acc.Start = next.Start
		}
		if m.cmp(next.End, acc.End) > 0 {
			acc.End = next.End
		}
	}
	return acc, true
}

// All returns the remaining merged selections as a sequence.
// The input is released when the loop ends.
func (m *MergedOverlapping[T]) All() iter.Seq[Selection[T]] {
	return func(yield func(Selection[T]) bool) {
		defer m.Stop()
		for {
			s, ok := m.Next()
			if !ok || !yield(s) {
				return
			}
		}
	}
}

// Stop releases the input early.
func (m *MergedOverlapping[T]) Stop() {
	m.in.Stop()
}

// MergeFunc merges a start-ordered slice of selections.
func MergeFunc[T comparable](selections []Selection[T], cmp func(a, b T) int) []Selection[T] {
	return slices.Collect(MergeOverlappingFunc(slices.Values(selections), cmp).All())
}

// Merge merges a start-ordered slice of selections over an ordered position type.
func Merge[T cmp.Ordered](selections []Selection[T]) []Selection[T] {
	return MergeFunc(selections, cmp.Compare[T])
}

// SortFunc orders selections by start, then end, in place.
func SortFunc[T comparable](selections []Selection[T], cmp func(a, b T) int) {
	slices.SortStableFunc(selections, func(a, b Selection[T]) int {
		if c := cmp(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp(a.End, b.End)
	})
}
