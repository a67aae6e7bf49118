package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/textgeom/internal/renderer/core"
)

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalScreen(screen)
	if err := term.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	t.Cleanup(term.Shutdown)
	screen.SetSize(20, 4)
	return term, screen
}

func TestTerminalPaint(t *testing.T) {
	term, screen := newSimTerminal(t)
	red := core.MustHex("#ff0000")

	c := NewCellCanvas(term, 1, 1)
	span := core.TextSpan{
		Origin: core.Pt(2, 1),
		Size:   core.Sz(2, 1),
		Text:   "hi",
		Run:    core.TextRun{Len: 2, Color: red, Font: core.Font{Weight: core.FontWeightBold}},
	}
	if err := c.PaintText(span); err != nil {
		t.Fatalf("PaintText() error: %v", err)
	}
	term.Show()

	cells, width, _ := screen.GetContents()
	got := cells[1*width+2]
	if len(got.Runes) == 0 || got.Runes[0] != 'h' {
		t.Fatalf("cell (2,1) = %q, want 'h'", got.Runes)
	}
	fg, _, attrs := got.Style.Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("foreground = %v, want red", fg)
	}
	if attrs&tcell.AttrBold == 0 {
		t.Error("cell should be bold")
	}

	cell := term.GetCell(3, 1)
	if cell.Text != "i" || cell.Style.Foreground.Hex() != "#ff0000" || !cell.Style.Bold {
		t.Errorf("GetCell(3, 1) = %+v", cell)
	}
}

func TestTerminalFillAndSize(t *testing.T) {
	term, _ := newSimTerminal(t)

	if w, h := term.Size(); w != 20 || h != 4 {
		t.Fatalf("Size() = (%d, %d), want (20, 4)", w, h)
	}

	term.Fill(Rect{Left: 18, Top: 3, Right: 25, Bottom: 9}, Cell{Text: "x", Width: 1})
	if got := term.GetCell(19, 3).Text; got != "x" {
		t.Errorf("filled cell = %q, want x", got)
	}
	if got := term.GetCell(17, 3).Text; got == "x" {
		t.Error("cell outside the rect was filled")
	}
}

func TestTerminalWaitKey(t *testing.T) {
	term, screen := newSimTerminal(t)

	var resized bool
	term.OnResize(func(w, h int) { resized = true })

	screen.SetSize(30, 5)
	_ = screen.PostEvent(tcell.NewEventResize(30, 5))
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	if !term.WaitKey() {
		t.Fatal("WaitKey() = false, want true")
	}
	if !resized {
		t.Error("resize handler was not called")
	}
}

func TestConvertColor(t *testing.T) {
	if convertColor(core.Transparent) != tcell.ColorDefault {
		t.Error("transparent should map to the default color")
	}
	c := core.MustHex("#336699")
	if got := convertTcellColor(convertColor(c)); got.Hex() != "#336699" {
		t.Errorf("round trip = %s, want #336699", got.Hex())
	}
	if !convertTcellColor(tcell.ColorDefault).IsTransparent() {
		t.Error("default should map to transparent")
	}
}
