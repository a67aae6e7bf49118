package backend

import (
	"testing"

	"github.com/charmbracelet/x/exp/golden"

	"github.com/dshills/textgeom/internal/renderer/core"
	"github.com/dshills/textgeom/internal/renderer/element"
	"github.com/dshills/textgeom/internal/renderer/shaper"
)

// cellStyleOneByOne lays text out one cell per column and one row per pixel.
func cellStyleOneByOne() core.TextStyle {
	style := core.DefaultTextStyle()
	style.FontSize = core.Pxs(1)
	style.LineHeight = core.Pxs(1)
	return style
}

func TestCellCanvasGolden(t *testing.T) {
	buf := NewBuffer(10, 4)
	win := element.NewWindow(shaper.New(shaper.CellFonts{}),
		element.WithBaseStyle(cellStyleOneByOne()),
		element.WithCanvas(NewCellCanvas(buf, 1, 1)))

	bold := core.FontWeightBold
	bg := core.MustHex("#202020")
	text := element.NewStyledText("hello world\nab\tc 世界").
		WithHighlights(cellStyleOneByOne(), []element.Highlight{
			{Start: 6, End: 11, Style: core.HighlightStyle{FontWeight: &bold}},
			{Start: 12, End: 14, Style: core.HighlightStyle{Background: &bg}},
		})

	avail := core.AvailableSize{Width: core.Definite(8), Height: core.MaxContent}
	if _, err := element.Draw(text, win, core.Point{}, avail); err != nil {
		t.Fatalf("Draw() error: %v", err)
	}

	golden.RequireEqual(t, []byte(buf.Dump()))
}

func TestCellCanvasScalesGeometry(t *testing.T) {
	buf := NewBuffer(10, 3)
	c := NewCellCanvas(buf, 7, 20)

	span := core.TextSpan{
		Origin: core.Pt(14, 40),
		Size:   core.Sz(21, 20),
		Text:   "abc",
		Run:    core.TextRun{Len: 3, Color: core.Black},
	}
	if err := c.PaintText(span); err != nil {
		t.Fatalf("PaintText() error: %v", err)
	}
	if got := buf.Row(2); got != "  abc" {
		t.Errorf("Row(2) = %q, want %q", got, "  abc")
	}
}

func TestCellCanvasStyles(t *testing.T) {
	buf := NewBuffer(6, 1)
	c := NewCellCanvas(buf, 0, 0)

	bg := core.MustHex("#101010")
	run := core.TextRun{
		Len:           2,
		Font:          core.Font{Weight: core.FontWeightBold, Style: core.FontStyleItalic},
		Color:         core.White,
		Background:    &bg,
		Underline:     &core.UnderlineStyle{},
		Strikethrough: &core.StrikethroughStyle{},
	}
	span := core.TextSpan{Origin: core.Pt(1, 0), Size: core.Sz(4, 1), Text: "a\x01b", Run: run}
	if err := c.PaintText(span); err != nil {
		t.Fatalf("PaintText() error: %v", err)
	}

	want := CellStyle{
		Foreground:    core.White,
		Background:    bg,
		Bold:          true,
		Italic:        true,
		Underline:     true,
		Strikethrough: true,
	}
	if got := buf.GetCell(1, 0).Style; got != want {
		t.Errorf("style = %+v, want %+v", got, want)
	}
	if got := buf.Row(0); got != " ab" {
		t.Errorf("Row(0) = %q, want %q (control characters take no cell)", got, " ab")
	}
	// The background covers the whole span even past the glyphs.
	if got := buf.GetCell(4, 0).Style.Background; got != bg {
		t.Errorf("cell 4 background = %v, want %v", got, bg)
	}
	if got := buf.GetCell(5, 0).Style.Background; !got.IsTransparent() {
		t.Errorf("cell 5 background = %v, want none", got)
	}
}
