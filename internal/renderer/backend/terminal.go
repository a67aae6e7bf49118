package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/textgeom/internal/renderer/core"
)

// Terminal implements Surface using tcell for terminal output.
type Terminal struct {
	screen        tcell.Screen
	resizeHandler func(width, height int)
	mu            sync.Mutex
}

// NewTerminal creates a terminal surface on the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalScreen creates a terminal surface on an existing screen, such as a
// tcell.SimulationScreen.
func NewTerminalScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Init initializes the screen. It must be called before any other method.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Init()
}

// Shutdown restores the terminal.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

// Size implements Surface.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// OnResize registers a callback for terminal resizes seen by WaitKey.
func (t *Terminal) OnResize(callback func(width, height int)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resizeHandler = callback
}

// SetCell implements Surface.
func (t *Terminal) SetCell(x, y int, cell Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.setContent(x, y, cell)
}

func (t *Terminal) setContent(x, y int, cell Cell) {
	if cell.IsContinuation() {
		return
	}
	runes := []rune(cell.Text)
	if len(runes) == 0 {
		runes = []rune{' '}
	}
	t.screen.SetContent(x, y, runes[0], runes[1:], convertStyle(cell.Style))
}

// GetCell implements Surface.
func (t *Terminal) GetCell(x, y int) Cell {
	t.mu.Lock()
	defer t.mu.Unlock()

	mainc, combc, style, width := t.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	return Cell{
		Text:  string(append([]rune{mainc}, combc...)),
		Width: width,
		Style: convertTcellStyle(style),
	}
}

// Fill implements Surface.
func (t *Terminal) Fill(rect Rect, cell Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	width, height := t.screen.Size()
	for y := max(rect.Top, 0); y < rect.Bottom && y < height; y++ {
		for x := max(rect.Left, 0); x < rect.Right && x < width; x++ {
			t.setContent(x, y, cell)
		}
	}
}

// Clear implements Surface.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

// Show implements Surface.
func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

// WaitKey blocks until a key is pressed. Resizes re-sync the screen and call the
// resize handler. It returns false if the screen was shut down.
func (t *Terminal) WaitKey() bool {
	for {
		switch ev := t.screen.PollEvent().(type) {
		case nil:
			return false
		case *tcell.EventKey:
			return true
		case *tcell.EventResize:
			w, h := ev.Size()
			t.mu.Lock()
			handler := t.resizeHandler
			t.screen.Sync()
			t.mu.Unlock()
			if handler != nil {
				handler(w, h)
			}
		}
	}
}

// HasTrueColor returns true if the terminal supports 24-bit color.
func (t *Terminal) HasTrueColor() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Colors() > 256
}

// convertStyle converts a CellStyle to tcell.Style.
func convertStyle(s CellStyle) tcell.Style {
	return tcell.StyleDefault.
		Foreground(convertColor(s.Foreground)).
		Background(convertColor(s.Background)).
		Bold(s.Bold).
		Italic(s.Italic).
		Underline(s.Underline).
		StrikeThrough(s.Strikethrough)
}

// convertColor maps transparent colors to the terminal default.
func convertColor(c core.Color) tcell.Color {
	if c.IsTransparent() {
		return tcell.ColorDefault
	}
	r, g, b := c.RGB.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// convertTcellStyle converts tcell.Style back to a CellStyle.
func convertTcellStyle(ts tcell.Style) CellStyle {
	fg, bg, attrs := ts.Decompose()

	return CellStyle{
		Foreground:    convertTcellColor(fg),
		Background:    convertTcellColor(bg),
		Bold:          attrs&tcell.AttrBold != 0,
		Italic:        attrs&tcell.AttrItalic != 0,
		Underline:     attrs&tcell.AttrUnderline != 0,
		Strikethrough: attrs&tcell.AttrStrikeThrough != 0,
	}
}

// convertTcellColor converts tcell.Color to core.Color.
func convertTcellColor(tc tcell.Color) core.Color {
	if tc == tcell.ColorDefault {
		return core.Transparent
	}
	r, g, b := tc.RGB()
	if r < 0 {
		return core.Transparent
	}
	return core.RGBA(float64(r)/255, float64(g)/255, float64(b)/255, 1)
}
