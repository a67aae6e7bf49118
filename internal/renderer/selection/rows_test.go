package selection

import (
	"math/rand/v2"
	"slices"
	"testing"
)

// boundaryFunc adapts a function to DisplayMap.
type boundaryFunc func(Point) Point

func (f boundaryFunc) NextLineBoundary(p Point) Point { return f(p) }

// sameRow ends every display line at column width on the same row.
func sameRow(width uint32) DisplayMap {
	return boundaryFunc(func(p Point) Point { return Point{Row: p.Row, Column: width} })
}

func TestRowEndFor(t *testing.T) {
	tests := []struct {
		name string
		sel  Selection[Point]
		dm   DisplayMap
		want uint32
	}{
		{"cursor", Selection[Point]{Start: Pt(0, 3), End: Pt(0, 3)}, sameRow(10), 1},
		{"ends at column zero", Selection[Point]{Start: Pt(0, 0), End: Pt(2, 0)}, sameRow(10), 2},
		{"ends mid row", Selection[Point]{Start: Pt(0, 0), End: Pt(2, 4)}, sameRow(10), 3},
		{"cursor at column zero", Selection[Point]{Start: Pt(5, 0), End: Pt(5, 0)}, sameRow(10), 6},
		{
			"soft wrapped boundary",
			Selection[Point]{Start: Pt(1, 2), End: Pt(1, 2)},
			boundaryFunc(func(p Point) Point { return Point{Row: p.Row + 2, Column: 0} }),
			4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RowEndFor(tt.sel, tt.dm); got != tt.want {
				t.Errorf("RowEndFor(%v) = %d, want %d", tt.sel, got, tt.want)
			}
		})
	}
}

func TestRowEndForNeverBeforeEndRow(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	dm := sameRow(80)

	for range 500 {
		a := Pt(uint32(r.IntN(20)), uint32(r.IntN(3)))
		b := Pt(uint32(r.IntN(20)), uint32(r.IntN(3)))
		sel := New(0, a, b, Point.Compare)
		if got := RowEndFor(sel, dm); got < sel.End.Row {
			t.Fatalf("RowEndFor(%v) = %d, before end row", sel, got)
		}
	}
}

func TestGroupsScenario(t *testing.T) {
	sels := []Selection[Point]{
		{ID: 0, Start: Pt(0, 0), End: Pt(2, 0)},
		{ID: 1, Start: Pt(2, 0), End: Pt(2, 0)},
	}

	groups := Groups(sels, sameRow(10))
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Rows != (RowRange{Start: 0, End: 3}) {
		t.Errorf("Rows = %v, want 0..3", groups[0].Rows)
	}
	if len(groups[0].Selections) != 2 {
		t.Errorf("group has %d selections, want 2", len(groups[0].Selections))
	}
}

func TestGroups(t *testing.T) {
	tests := []struct {
		name string
		sels []Selection[Point]
		want []RowRange
	}{
		{"empty", nil, nil},
		{
			"separate rows",
			[]Selection[Point]{
				{Start: Pt(0, 1), End: Pt(0, 1)},
				{Start: Pt(2, 1), End: Pt(2, 1)},
			},
			[]RowRange{{0, 1}, {2, 3}},
		},
		{
			"adjacent rows join",
			[]Selection[Point]{
				{Start: Pt(0, 1), End: Pt(0, 1)},
				{Start: Pt(1, 1), End: Pt(1, 1)},
			},
			[]RowRange{{0, 2}},
		},
		{
			"contained selection keeps wider end",
			[]Selection[Point]{
				{Start: Pt(0, 0), End: Pt(5, 2)},
				{Start: Pt(1, 0), End: Pt(1, 3)},
				{Start: Pt(7, 0), End: Pt(7, 0)},
			},
			[]RowRange{{0, 6}, {7, 8}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := Groups(tt.sels, sameRow(10))
			var got []RowRange
			for _, g := range groups {
				got = append(got, g.Rows)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Groups() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestByContiguousRowsStop(t *testing.T) {
	sels := []Selection[Point]{
		{Start: Pt(0, 0), End: Pt(0, 0)},
		{Start: Pt(4, 0), End: Pt(4, 0)},
		{Start: Pt(8, 0), End: Pt(8, 0)},
	}
	c := ByContiguousRows(slices.Values(sels), sameRow(10))

	for g := range c.All() {
		if g.Rows.Start != 0 {
			t.Errorf("first group starts at %d", g.Rows.Start)
		}
		break
	}
	if _, ok := c.Next(); ok {
		t.Error("breaking out of All should release the input")
	}
}

func TestGroupsProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	dm := sameRow(40)

	for i := range 200 {
		n := r.IntN(15)
		sels := make([]Selection[Point], n)
		for j := range sels {
			a := Pt(uint32(r.IntN(30)), uint32(r.IntN(4)))
			b := Pt(a.Row+uint32(r.IntN(3)), uint32(r.IntN(4)))
			sels[j] = New(j, a, b, Point.Compare)
		}
		SortFunc(sels, Point.Compare)

		groups := Groups(sels, dm)

		var flat []Selection[Point]
		for k, g := range groups {
			flat = append(flat, g.Selections...)
			for _, s := range g.Selections {
				if !g.Rows.Contains(s.Start.Row) {
					t.Fatalf("case %d: %v starts outside %v", i, s, g.Rows)
				}
				if RowEndFor(s, dm) > g.Rows.End {
					t.Fatalf("case %d: %v ends past %v", i, s, g.Rows)
				}
			}
			if k > 0 && g.Rows.Start <= groups[k-1].Rows.End {
				t.Fatalf("case %d: no gap between %v and %v", i, groups[k-1].Rows, g.Rows)
			}
		}
		if !slices.Equal(flat, sels) {
			t.Fatalf("case %d: grouping changed the selections", i)
		}
	}
}

func TestRowRange(t *testing.T) {
	r := RowRange{Start: 2, End: 5}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	if !r.Contains(2) || !r.Contains(4) || r.Contains(5) || r.Contains(1) {
		t.Error("Contains() is not half-open")
	}
	if (RowRange{Start: 4, End: 1}).Len() != 0 {
		t.Error("inverted range should be empty")
	}
	if r.String() != "2..5" {
		t.Errorf("String() = %q", r.String())
	}
}
