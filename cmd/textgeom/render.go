package main

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"math"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/dshills/textgeom/internal/config"
	"github.com/dshills/textgeom/internal/logging"
	"github.com/dshills/textgeom/internal/renderer/backend"
	"github.com/dshills/textgeom/internal/renderer/core"
	"github.com/dshills/textgeom/internal/renderer/element"
	"github.com/dshills/textgeom/internal/renderer/highlight"
	"github.com/dshills/textgeom/internal/renderer/shaper"
)

var errUnsupportedEncoding = errors.New("encoding has no decoder")

// decodeInput converts data from the named IANA encoding to UTF-8.
// Invalid sequences become U+FFFD.
func decodeInput(data []byte, name string) (string, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return "", fmt.Errorf("encoding %q: %w", name, err)
	}
	if enc == nil {
		return "", fmt.Errorf("encoding %q: %w", name, errUnsupportedEncoding)
	}
	s, _, err := transform.String(enc.NewDecoder(), string(data))
	if err != nil {
		return "", fmt.Errorf("decoding %s input: %w", name, err)
	}
	return s, nil
}

// styled is the text and the styling applied to it.
type styled struct {
	text       string
	style      core.TextStyle
	highlights []element.Highlight
	background core.Color
}

// styleText resolves the base style and, when a language is configured, the
// syntax highlights of text.
func styleText(cfg *config.Config, text string) (*styled, error) {
	s := &styled{text: text, style: cfg.TextStyle(), background: core.White}
	if s.style.Background != nil {
		s.background = *s.style.Background
	}
	if cfg.Highlight.Language == "" {
		return s, nil
	}

	theme, err := highlight.LoadTheme(cfg.Highlight.Theme)
	if err != nil {
		return nil, err
	}
	h, err := highlight.New(cfg.Highlight.Language, theme)
	if err != nil {
		return nil, err
	}
	s.highlights, err = h.Highlights(text)
	if err != nil {
		return nil, err
	}
	s.style = theme.TextStyle(s.style)
	if bg := theme.Background(); !bg.IsTransparent() {
		s.background = bg
	}
	return s, nil
}

// frame is one drawn layout of the input.
type frame struct {
	el    *element.StyledText
	win   *element.Window
	size  core.Size
	spans []core.TextSpan
}

// spanRecorder is a canvas that keeps what it is asked to paint.
type spanRecorder struct {
	spans []core.TextSpan
}

func (r *spanRecorder) PaintText(span core.TextSpan) error {
	r.spans = append(r.spans, span)
	return nil
}

// drawFrame lays s out at the origin, wrapping at width when it is positive, and
// paints it onto canvas. A nil canvas records the painted spans instead.
func drawFrame(s *styled, ts *shaper.Shaper, rem, width core.Pixels, canvas core.Canvas) (*frame, error) {
	rec := &spanRecorder{}
	if canvas == nil {
		canvas = rec
	}

	el := element.NewStyledText(s.text)
	if len(s.highlights) > 0 {
		el = el.WithHighlights(s.style, s.highlights)
	}
	win := element.NewWindow(ts,
		element.WithBaseStyle(s.style),
		element.WithRemSize(rem),
		element.WithCanvas(canvas),
	)

	available := core.AvailableSize{Width: core.MaxContent, Height: core.MaxContent}
	if width > 0 {
		available.Width = core.Definite(width)
	}
	size, err := element.Draw(el, win, core.Pt(0, 0), available)
	if err != nil {
		return nil, err
	}
	return &frame{el: el, win: win, size: size, spans: rec.spans}, nil
}

// query asks the laid-out text for geometry.
type query struct {
	hit   *core.Point
	index int // negative for none
}

// encodeJSON describes the frame and answers q.
func encodeJSON(f *frame, q query) ([]byte, error) {
	tl := f.el.Layout()
	lineHeight, err := tl.LineHeight()
	if err != nil {
		return nil, err
	}
	lines, err := tl.Lines()
	if err != nil {
		return nil, err
	}

	out := "{}"
	set := func(path string, v any) {
		if err == nil {
			out, err = sjson.Set(out, path, v)
		}
	}

	set("size.width", f.size.Width)
	set("size.height", f.size.Height)
	set("lineHeight", lineHeight)
	set("lines", []any{})
	for _, line := range lines {
		set("lines.-1", map[string]any{
			"text":  line.Text(),
			"len":   line.Len(),
			"rows":  line.Rows(),
			"wraps": line.WrapBoundaries(),
		})
	}
	set("spans", []any{})
	for _, span := range f.spans {
		set("spans.-1", map[string]any{
			"x":     span.Origin.X,
			"y":     span.Origin.Y,
			"width": span.Size.Width,
			"text":  span.Text,
		})
	}

	if q.hit != nil {
		ix, exact := tl.IndexForPosition(*q.hit)
		set("hit.x", q.hit.X)
		set("hit.y", q.hit.Y)
		set("hit.index", ix)
		set("hit.exact", exact)
	}
	if q.index >= 0 {
		p, ok := tl.PositionForIndex(q.index)
		set("position.index", q.index)
		set("position.found", ok)
		if ok {
			set("position.x", p.X)
			set("position.y", p.Y)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("encoding geometry: %w", err)
	}
	return pretty.Pretty([]byte(out)), nil
}

// writePNG repaints the frame into an image. A positive width or height overrides
// the text's own extent.
func writePNG(w io.Writer, f *frame, fonts *shaper.GoFonts, background core.Color, width, height core.Pixels) error {
	if width <= 0 {
		width = f.size.Width
	}
	if height <= 0 {
		height = f.size.Height
	}
	img := backend.NewImage(pixelsToInt(width), pixelsToInt(height), fonts, background)

	f.win.SetCanvas(img)
	if err := f.el.Paint(f.win); err != nil {
		return fmt.Errorf("paint image: %w", err)
	}
	if err := png.Encode(w, img.RGBA()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func pixelsToInt(p core.Pixels) int {
	return max(int(math.Ceil(float64(p))), 1)
}

// cellStyle lays text out in terminal cells: one unit per column and per row.
func cellStyle(s core.TextStyle) core.TextStyle {
	s.FontSize = core.Pxs(1)
	s.LineHeight = core.Pxs(1)
	return s
}

// showTerminal draws s on an initialized terminal and waits for a key. The frame
// is redrawn when the terminal is resized. maxCols limits the wrap width when
// positive.
func showTerminal(term *backend.Terminal, s *styled, maxCols int) error {
	cells := *s
	cells.style = cellStyle(s.style)
	ts := shaper.New(shaper.CellFonts{})
	canvas := backend.NewCellCanvas(term, 1, 1)

	draw := func(cols int) error {
		if maxCols > 0 {
			cols = min(cols, maxCols)
		}
		term.Clear()
		_, err := drawFrame(&cells, ts, 1, core.Pixels(cols), canvas)
		term.Show()
		return err
	}

	term.OnResize(func(width, _ int) {
		if err := draw(width); err != nil {
			logging.Component("cli").Warn().Err(err).Int("cols", width).Msg("redraw failed")
		}
	})

	cols, _ := term.Size()
	if err := draw(cols); err != nil {
		return err
	}
	term.WaitKey()
	return nil
}
