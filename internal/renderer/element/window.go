// Package element provides text elements and the window they are drawn into.
//
// A frame runs in three passes. Draw asks the element to register its layout with the
// window, measures it against the available space, binds the resulting bounds, then
// paints onto the window's canvas.
package element

import (
	"errors"
	"fmt"

	"github.com/dshills/textgeom/internal/logging"
	"github.com/dshills/textgeom/internal/renderer/core"
	"github.com/dshills/textgeom/internal/renderer/layout"
	"github.com/dshills/textgeom/internal/renderer/shaper"
)

// ErrNoCanvas is returned when painting into a window without a canvas.
var ErrNoCanvas = errors.New("window has no canvas")

// DefaultRemSize is the root font size used when none is configured.
const DefaultRemSize core.Pixels = 16

// Window holds the ambient state of a frame: the text style stack, the rem size, the
// measure tree, the text system and the paint target.
// A Window is not safe for concurrent use.
type Window struct {
	styles []core.TextStyle
	rem    core.Pixels
	tree   *layout.MeasureTree
	text   *shaper.Shaper
	canvas core.Canvas
}

// WindowOption configures a Window.
type WindowOption func(*Window)

// WithRemSize sets the root font size.
func WithRemSize(rem core.Pixels) WindowOption {
	return func(w *Window) {
		if rem > 0 {
			w.rem = rem
		}
	}
}

// WithBaseStyle sets the style at the bottom of the style stack.
func WithBaseStyle(style core.TextStyle) WindowOption {
	return func(w *Window) {
		w.styles[0] = style
	}
}

// WithCanvas sets the paint target.
func WithCanvas(c core.Canvas) WindowOption {
	return func(w *Window) {
		w.canvas = c
	}
}

// NewWindow creates a window that shapes text with ts.
func NewWindow(ts *shaper.Shaper, opts ...WindowOption) *Window {
	w := &Window{
		styles: []core.TextStyle{core.DefaultTextStyle()},
		rem:    DefaultRemSize,
		tree:   layout.NewMeasureTree(),
		text:   ts,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// TextStyle returns the style on top of the stack.
func (w *Window) TextStyle() core.TextStyle {
	return w.styles[len(w.styles)-1]
}

// PushTextStyle lays h over the current style and makes the result current.
func (w *Window) PushTextStyle(h core.HighlightStyle) {
	w.styles = append(w.styles, w.TextStyle().Highlight(h))
}

// PopTextStyle restores the style below the top. The base style is never popped.
func (w *Window) PopTextStyle() {
	if len(w.styles) > 1 {
		w.styles = w.styles[:len(w.styles)-1]
	}
}

// WithTextStyle runs fn with h laid over the current style.
func (w *Window) WithTextStyle(h core.HighlightStyle, fn func()) {
	w.PushTextStyle(h)
	defer w.PopTextStyle()
	fn()
}

// RemSize returns the root font size.
func (w *Window) RemSize() core.Pixels {
	return w.rem
}

// TextSystem returns the shaper.
func (w *Window) TextSystem() layout.TextSystem {
	return w.text
}

// Shaper returns the concrete shaper.
func (w *Window) Shaper() *shaper.Shaper {
	return w.text
}

// RequestMeasuredLayout registers a measured node for this frame.
func (w *Window) RequestMeasuredLayout(measure layout.MeasureFunc) layout.LayoutID {
	return w.tree.RequestMeasuredLayout(measure)
}

// Canvas returns the paint target.
func (w *Window) Canvas() core.Canvas {
	return w.canvas
}

// SetCanvas replaces the paint target.
func (w *Window) SetCanvas(c core.Canvas) {
	w.canvas = c
}

// Element is something that can be drawn into a Window.
type Element interface {
	// RequestLayout registers the element's measured layout.
	RequestLayout(win *Window) layout.LayoutID
	// Prepaint binds the element to its measured bounds.
	Prepaint(bounds core.Bounds) error
	// Paint paints the element onto the window's canvas.
	Paint(win *Window) error
}

// Draw runs one frame of el at origin and returns its measured size.
func Draw(el Element, win *Window, origin core.Point, available core.AvailableSize) (core.Size, error) {
	win.tree.Clear()

	id := el.RequestLayout(win)
	size, err := win.tree.ComputeLayout(id, core.KnownDimensions{}, available)
	if err != nil {
		return core.Size{}, fmt.Errorf("compute layout: %w", err)
	}

	bounds := core.NewBounds(origin, size)
	if err := el.Prepaint(bounds); err != nil {
		return size, fmt.Errorf("prepaint: %w", err)
	}
	if err := el.Paint(win); err != nil {
		return size, fmt.Errorf("paint: %w", err)
	}

	logging.Component("element").Debug().
		Stringer("width", size.Width).
		Stringer("height", size.Height).
		Stringer("available", available.Width).
		Msg("frame drawn")
	return size, nil
}
