package shaper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dshills/textgeom/internal/renderer/core"
)

// monoFonts gives every cluster the same advance.
type monoFonts struct {
	advance core.Pixels
}

func (m monoFonts) Metrics(f core.Font, _ core.Pixels) (Metrics, error) {
	if f.Family == "missing" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFont, f.Family)
	}
	return monoMetrics(m), nil
}

type monoMetrics monoFonts

func (m monoMetrics) Advance(string, rune) core.Pixels {
	return m.advance
}

func newTestShaper(opts ...Option) *Shaper {
	return New(monoFonts{advance: 10}, opts...)
}

func runFor(text string) []core.TextRun {
	return []core.TextRun{core.DefaultTextStyle().ToRun(len(text))}
}

func TestShapeTextHardLines(t *testing.T) {
	s := newTestShaper()
	text := "hello\nworld"

	lines, err := s.ShapeText(text, 16, runFor(text), core.None)
	if err != nil {
		t.Fatalf("ShapeText() error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for i, want := range []string{"hello", "world"} {
		if lines[i].Text() != want {
			t.Errorf("line %d text = %q, want %q", i, lines[i].Text(), want)
		}
		if lines[i].Len() != 5 {
			t.Errorf("line %d Len() = %d, want 5", i, lines[i].Len())
		}
		if lines[i].Rows() != 1 {
			t.Errorf("line %d Rows() = %d, want 1", i, lines[i].Rows())
		}
		if got := lines[i].Size(20); got != core.Sz(50, 20) {
			t.Errorf("line %d Size() = %+v, want 50x20", i, got)
		}
	}
}

func TestShapeTextEmptyLines(t *testing.T) {
	s := newTestShaper()
	text := "a\n\nb\n"

	lines, err := s.ShapeText(text, 16, runFor(text), core.None)
	if err != nil {
		t.Fatalf("ShapeText() error: %v", err)
	}
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}

	total := len(lines) - 1
	for _, l := range lines {
		total += l.Len()
	}
	if total != len(text) {
		t.Errorf("line lengths plus separators = %d, want %d", total, len(text))
	}
	if lines[1].Size(20).Height != 20 {
		t.Errorf("empty line should still occupy one row, got height %v", lines[1].Size(20).Height)
	}
}

func TestShapeTextWordWrap(t *testing.T) {
	s := newTestShaper()
	text := "hello world foo"

	lines, err := s.ShapeText(text, 16, runFor(text), core.Some(60))
	if err != nil {
		t.Fatalf("ShapeText() error: %v", err)
	}
	line := lines[0]

	if line.Rows() != 3 {
		t.Fatalf("Rows() = %d, want 3 (%s)", line.Rows(), line)
	}
	if got := line.String(); got != "hello  | world  | foo" {
		t.Errorf("rows = %q", got)
	}
	wantBounds := []int{6, 12}
	got := line.WrapBoundaries()
	if len(got) != len(wantBounds) || got[0] != wantBounds[0] || got[1] != wantBounds[1] {
		t.Errorf("WrapBoundaries() = %v, want %v", got, wantBounds)
	}
	// Trailing spaces hang past the edge and do not count toward the width.
	if size := line.Size(20); size != core.Sz(50, 60) {
		t.Errorf("Size() = %+v, want 50x60", size)
	}
}

func TestShapeTextBreaksLongWords(t *testing.T) {
	s := newTestShaper()
	text := "abcdefgh"

	lines, err := s.ShapeText(text, 16, runFor(text), core.Some(35))
	if err != nil {
		t.Fatalf("ShapeText() error: %v", err)
	}
	if got := lines[0].String(); got != "abc | def | gh" {
		t.Errorf("rows = %q, want %q", got, "abc | def | gh")
	}
	for _, g := range lines[0].Glyphs() {
		if g.X+g.Advance > 35 {
			t.Errorf("glyph at %d ends at %v, past the wrap width", g.Index, g.X+g.Advance)
		}
	}
}

func TestShapeTextNoWrapWithoutWidth(t *testing.T) {
	s := newTestShaper()
	text := "hello world foo"

	lines, err := s.ShapeText(text, 16, runFor(text), core.None)
	if err != nil {
		t.Fatalf("ShapeText() error: %v", err)
	}
	if lines[0].Rows() != 1 {
		t.Errorf("Rows() = %d, want 1", lines[0].Rows())
	}
}

func TestShapeTextTabs(t *testing.T) {
	s := newTestShaper(WithTabWidth(4))
	text := "\tx\ty"

	lines, err := s.ShapeText(text, 16, runFor(text), core.None)
	if err != nil {
		t.Fatalf("ShapeText() error: %v", err)
	}
	glyphs := lines[0].Glyphs()
	wantX := []core.Pixels{0, 40, 50, 80}
	for i, want := range wantX {
		if glyphs[i].X != want {
			t.Errorf("glyph %d X = %v, want %v", i, glyphs[i].X, want)
		}
	}
}

func TestShapeTextErrors(t *testing.T) {
	s := newTestShaper()

	tests := []struct {
		name     string
		text     string
		fontSize core.Pixels
		runs     []core.TextRun
		want     error
	}{
		{"run mismatch", "hello", 16, runFor("hi"), ErrRunMismatch},
		{"zero font size", "hello", 0, runFor("hello"), ErrInvalidFontSize},
		{"unknown font", "hello", 16, []core.TextRun{{Len: 5, Font: core.Font{Family: "missing"}}}, ErrUnknownFont},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ShapeText(tt.text, tt.fontSize, tt.runs, core.None)
			if !errors.Is(err, tt.want) {
				t.Errorf("ShapeText() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestShapeTextSplitsRunsAcrossLines(t *testing.T) {
	s := newTestShaper()
	style := core.DefaultTextStyle()
	red := style
	red.Color = core.MustHex("#ff0000")
	text := "ab\ncdef"
	runs := []core.TextRun{red.ToRun(4), style.ToRun(3)}

	lines, err := s.ShapeText(text, 16, runs, core.None)
	if err != nil {
		t.Fatalf("ShapeText() error: %v", err)
	}

	first := lines[0].Runs()
	if len(first) != 1 || first[0].Len != 2 {
		t.Errorf("line 0 runs = %+v, want one run of 2", first)
	}
	second := lines[1].Runs()
	if len(second) != 2 || second[0].Len != 1 || second[1].Len != 3 {
		t.Fatalf("line 1 runs = %+v, want lengths [1 3]", second)
	}
	if second[0].Color != red.Color {
		t.Error("first run of line 1 should keep the red style")
	}

	glyphs := lines[1].Glyphs()
	if glyphs[0].Run != 0 || glyphs[1].Run != 1 {
		t.Errorf("glyph runs = %d, %d, want 0, 1", glyphs[0].Run, glyphs[1].Run)
	}
}

func TestShapeTextUsesCache(t *testing.T) {
	cache := NewLineCache(10)
	s := newTestShaper(WithCache(cache))
	text := "same\nsame"

	lines, err := s.ShapeText(text, 16, runFor(text), core.None)
	if err != nil {
		t.Fatalf("ShapeText() error: %v", err)
	}
	if lines[0] != lines[1] {
		t.Error("identical lines should share one cached shape")
	}

	stats := cache.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit and 1 miss", stats)
	}

	// A different wrap width is a different request.
	if _, err := s.ShapeText(text, 16, runFor(text), core.Some(20)); err != nil {
		t.Fatalf("ShapeText() error: %v", err)
	}
	if cache.Size() != 2 {
		t.Errorf("cache size = %d, want 2", cache.Size())
	}
}

func TestShapeTextWithoutCache(t *testing.T) {
	s := newTestShaper(WithCache(nil))
	text := "x\nx"

	lines, err := s.ShapeText(text, 16, runFor(text), core.None)
	if err != nil {
		t.Fatalf("ShapeText() error: %v", err)
	}
	if lines[0] == lines[1] {
		t.Error("lines should be shaped separately without a cache")
	}
	if s.Cache() != nil {
		t.Error("Cache() should be nil")
	}
}
