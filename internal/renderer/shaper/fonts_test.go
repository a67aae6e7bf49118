package shaper

import (
	"errors"
	"testing"

	"github.com/dshills/textgeom/internal/renderer/core"
)

func TestGoFontsFixedFace(t *testing.T) {
	fonts := NewGoFonts()
	m, err := fonts.Metrics(core.Font{Family: FamilyFixed}, 20)
	if err != nil {
		t.Fatalf("Metrics() error: %v", err)
	}
	if got := m.Advance("a", -1); got != 7 {
		t.Errorf("Advance(a) = %v, want 7", got)
	}
	if got := m.Advance("W", 'a'); got != 7 {
		t.Errorf("Advance(W) = %v, want 7", got)
	}
}

func TestGoFontsProportional(t *testing.T) {
	fonts := NewGoFonts()
	regular := core.Font{Family: FamilyGo, Weight: core.FontWeightNormal}

	small, err := fonts.Metrics(regular, 10)
	if err != nil {
		t.Fatalf("Metrics() error: %v", err)
	}
	large, err := fonts.Metrics(regular, 20)
	if err != nil {
		t.Fatalf("Metrics() error: %v", err)
	}

	i, m := small.Advance("i", -1), small.Advance("m", -1)
	if i <= 0 || m <= i {
		t.Errorf("expected 0 < advance(i)=%v < advance(m)=%v", i, m)
	}
	if got := large.Advance("m", -1); got <= m {
		t.Errorf("advance at 20px (%v) should exceed advance at 10px (%v)", got, m)
	}
}

func TestGoFontsFaceCache(t *testing.T) {
	fonts := NewGoFonts()
	f := core.Font{Family: FamilyGoMono, Weight: core.FontWeightBold, Style: core.FontStyleItalic}

	a, err := fonts.Face(f, 14)
	if err != nil {
		t.Fatalf("Face() error: %v", err)
	}
	b, err := fonts.Face(f, 14)
	if err != nil {
		t.Fatalf("Face() error: %v", err)
	}
	if a != b {
		t.Error("the same font and size should share one face")
	}
}

func TestGoFontsErrors(t *testing.T) {
	fonts := NewGoFonts()

	if _, err := fonts.Metrics(core.Font{Family: "Comic Sans"}, 12); !errors.Is(err, ErrUnknownFont) {
		t.Errorf("unknown family error = %v, want ErrUnknownFont", err)
	}
	if _, err := fonts.Metrics(core.Font{Family: FamilyGo}, 0); !errors.Is(err, ErrInvalidFontSize) {
		t.Errorf("zero size error = %v, want ErrInvalidFontSize", err)
	}
}

func TestCellFonts(t *testing.T) {
	m, err := CellFonts{}.Metrics(core.Font{}, 1)
	if err != nil {
		t.Fatalf("Metrics() error: %v", err)
	}

	tests := []struct {
		cluster string
		want    core.Pixels
	}{
		{"a", 1},
		{"世", 2},
		{"é", 1},
	}
	for _, tt := range tests {
		if got := m.Advance(tt.cluster, -1); got != tt.want {
			t.Errorf("Advance(%q) = %v, want %v", tt.cluster, got, tt.want)
		}
	}
}

func TestTabStops(t *testing.T) {
	tabs := NewTabStops(0)
	if tabs.Width() != DefaultTabWidth {
		t.Errorf("Width() = %d, want %d", tabs.Width(), DefaultTabWidth)
	}

	tabs = NewTabStops(2)
	tests := []struct {
		x, want core.Pixels
	}{
		{0, 20},
		{5, 20},
		{20, 40},
		{39, 40},
	}
	for _, tt := range tests {
		if got := tabs.NextStop(tt.x, 10); got != tt.want {
			t.Errorf("NextStop(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
	if got := tabs.Advance(5, 10); got != 15 {
		t.Errorf("Advance(5) = %v, want 15", got)
	}
}
