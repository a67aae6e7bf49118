// Package layout caches the shaped geometry of one piece of styled text.
//
// A TextLayout moves through three phases each frame: Layout registers a measure
// callback that shapes the text, Prepaint binds the on-screen bounds, and Paint or the
// geometry queries consume the result. Calling a phase out of order returns
// ErrInvalidState.
package layout

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/dshills/textgeom/internal/logging"
	"github.com/dshills/textgeom/internal/renderer/core"
	"github.com/dshills/textgeom/internal/renderer/shaper"
)

// ErrInvalidState indicates a phase was used before the phase it depends on.
var ErrInvalidState = errors.New("invalid layout state")

// TextSystem shapes text. *shaper.Shaper implements it.
type TextSystem interface {
	LineWrapper(f core.Font, size core.Pixels) (*shaper.LineWrapper, error)
	ShapeText(text string, fontSize core.Pixels, runs []core.TextRun, wrapWidth core.MaybePixels) ([]*shaper.WrappedLine, error)
}

// Window supplies the ambient style, the text system and the measurement pass.
type Window interface {
	Requester
	TextStyle() core.TextStyle
	RemSize() core.Pixels
	TextSystem() TextSystem
}

// TextLayout holds the shaped lines of one text element.
// A *TextLayout may be shared; all methods are safe for concurrent use.
type TextLayout struct {
	mu         sync.Mutex
	lines      []*shaper.WrappedLine
	lineHeight core.Pixels
	wrapWidth  core.MaybePixels
	size       *core.Size
	bounds     *core.Bounds
	key        layoutKey
	// text is the text of the latest Layout call, named in errors.
	text string
}

// layoutKey identifies the inputs a cached size was computed for.
type layoutKey struct {
	text       string
	runs       []core.TextRun
	fontSize   core.Pixels
	lineHeight core.Pixels
	whiteSpace core.WhiteSpace
	truncate   core.Truncate
}

func (k layoutKey) equal(other layoutKey) bool {
	if k.text != other.text || k.fontSize != other.fontSize || k.lineHeight != other.lineHeight ||
		k.whiteSpace != other.whiteSpace || k.truncate != other.truncate || len(k.runs) != len(other.runs) {
		return false
	}
	for i := range k.runs {
		if k.runs[i].Len != other.runs[i].Len || !k.runs[i].SameStyle(other.runs[i]) {
			return false
		}
	}
	return true
}

// New creates an empty text layout.
func New() *TextLayout {
	return &TextLayout{}
}

// Layout registers a measure callback for text with the window and returns its id.
// A nil runs uses one run in the window's text style.
func (l *TextLayout) Layout(text string, runs []core.TextRun, win Window) LayoutID {
	style := win.TextStyle()
	rem := win.RemSize()
	if runs == nil {
		runs = []core.TextRun{style.ToRun(len(text))}
	}
	ts := win.TextSystem()
	l.mu.Lock()
	l.text = text
	l.mu.Unlock()
	key := layoutKey{
		text:       text,
		runs:       slices.Clone(runs),
		fontSize:   style.FontSizePixels(rem),
		lineHeight: style.LineHeightPixels(rem),
		whiteSpace: style.WhiteSpace,
		truncate:   style.Truncate,
	}

	return win.RequestMeasuredLayout(func(known core.KnownDimensions, available core.AvailableSize) core.Size {
		return l.measure(ts, style, key, known, available)
	})
}

func (l *TextLayout) measure(ts TextSystem, style core.TextStyle, key layoutKey,
	known core.KnownDimensions, available core.AvailableSize) core.Size {

	wrapWidth := core.None
	if style.WhiteSpace == core.WhiteSpaceNormal {
		wrapWidth = core.ResolveWidth(known, available)
	}
	truncateWidth := core.None
	if style.Truncate != core.TruncateNone {
		truncateWidth = core.ResolveWidth(known, available)
	}

	l.mu.Lock()
	if l.size != nil && l.key.equal(key) && (!wrapWidth.Valid || wrapWidth == l.wrapWidth) {
		size := *l.size
		l.mu.Unlock()
		return size
	}
	l.mu.Unlock()

	log := logging.Component("layout")

	text, runs := key.text, key.runs
	if width, ok := truncateWidth.Get(); ok {
		marker := ""
		if style.Truncate == core.TruncateEllipsis {
			marker = shaper.Ellipsis
		}
		wrapper, err := ts.LineWrapper(style.Font, key.fontSize)
		if err != nil {
			log.Warn().Err(err).Str("font", style.Font.Family).Msg("line wrapper unavailable, text not truncated")
		} else {
			text, runs = wrapper.TruncateLine(text, width, marker, runs)
		}
	}

	lines, err := ts.ShapeText(text, key.fontSize, runs, wrapWidth)
	if err != nil {
		log.Warn().Err(err).
			Int("len", len(text)).
			Stringer("wrap_width", wrapWidth).
			Msg("shape text failed, laying out as empty")

		l.mu.Lock()
		defer l.mu.Unlock()
		l.lines = nil
		l.lineHeight = key.lineHeight
		l.wrapWidth = wrapWidth
		l.size = &core.Size{}
		l.bounds = nil
		l.key = key
		return core.Size{}
	}

	var size core.Size
	for _, line := range lines {
		ls := line.Size(key.lineHeight)
		size.Height += ls.Height
		size.Width = size.Width.Max(ls.Width).Ceil()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = lines
	l.lineHeight = key.lineHeight
	l.wrapWidth = wrapWidth
	l.size = &size
	l.bounds = nil
	l.key = key
	return size
}

// Prepaint binds the layout to its on-screen bounds.
func (l *TextLayout) Prepaint(bounds core.Bounds) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.size == nil {
		return fmt.Errorf("%w: prepaint before layout of %s", ErrInvalidState, errorText(l.text))
	}
	l.bounds = &bounds
	return nil
}

// Paint paints every line onto canvas, stacking lines from the top of the bounds.
func (l *TextLayout) Paint(canvas core.Canvas) error {
	l.mu.Lock()
	if l.bounds == nil {
		l.mu.Unlock()
		return fmt.Errorf("%w: paint before prepaint of %s", ErrInvalidState, errorText(l.text))
	}
	lines, lineHeight, origin := l.lines, l.lineHeight, l.bounds.Origin
	l.mu.Unlock()

	for _, line := range lines {
		if err := line.Paint(origin, lineHeight, canvas); err != nil {
			return err
		}
		origin.Y += line.Size(lineHeight).Height
	}
	return nil
}

// IndexForPosition returns the byte offset of the text under p.
// exact is false when p is not over a glyph; the index is then the nearest boundary.
// Before prepaint it reports (0, false).
func (l *TextLayout) IndexForPosition(p core.Point) (index int, exact bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.bounds == nil {
		return 0, false
	}
	if p.Y < l.bounds.Top() {
		return 0, false
	}

	origin := l.bounds.Origin
	lineStart := 0
	for _, line := range l.lines {
		bottom := origin.Y + line.Size(l.lineHeight).Height
		if p.Y > bottom {
			origin.Y = bottom
			lineStart += line.Len() + 1
			continue
		}
		ix, exact := line.IndexForPosition(p.Sub(origin), l.lineHeight)
		return lineStart + ix, exact
	}
	return max(lineStart-1, 0), false
}

// PositionForIndex returns the top-left corner of the glyph at byte offset ix.
// An offset at the end of a line resolves within that line. It reports false past the
// end of the text or before prepaint.
func (l *TextLayout) PositionForIndex(ix int) (core.Point, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.bounds == nil || ix < 0 {
		return core.Point{}, false
	}

	origin := l.bounds.Origin
	lineStart := 0
	for _, line := range l.lines {
		lineEnd := lineStart + line.Len()
		if ix > lineEnd {
			origin.Y += line.Size(l.lineHeight).Height
			lineStart = lineEnd + 1
			continue
		}
		p, ok := line.PositionForIndex(ix-lineStart, l.lineHeight)
		if !ok {
			return core.Point{}, false
		}
		return origin.Add(p), true
	}
	return core.Point{}, false
}

// Bounds returns the bounds bound by Prepaint.
func (l *TextLayout) Bounds() (core.Bounds, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.bounds == nil {
		return core.Bounds{}, fmt.Errorf("%w: bounds before prepaint of %s", ErrInvalidState, errorText(l.text))
	}
	return *l.bounds, nil
}

// LineHeight returns the line height of the last layout.
func (l *TextLayout) LineHeight() (core.Pixels, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.size == nil {
		return 0, fmt.Errorf("%w: line height before layout of %s", ErrInvalidState, errorText(l.text))
	}
	return l.lineHeight, nil
}

// Size returns the content size of the last layout.
func (l *TextLayout) Size() (core.Size, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.size == nil {
		return core.Size{}, fmt.Errorf("%w: size before layout of %s", ErrInvalidState, errorText(l.text))
	}
	return *l.size, nil
}

// Lines returns the shaped lines of the last layout.
func (l *TextLayout) Lines() ([]*shaper.WrappedLine, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.size == nil {
		return nil, fmt.Errorf("%w: lines before layout of %s", ErrInvalidState, errorText(l.text))
	}
	return append([]*shaper.WrappedLine(nil), l.lines...), nil
}

// Text returns the laid-out text: the line texts joined by '\n'.
// After truncation this differs from the source text.
func (l *TextLayout) Text() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.size == nil {
		return "", fmt.Errorf("%w: text before layout of %s", ErrInvalidState, errorText(l.text))
	}
	var b strings.Builder
	for i, line := range l.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line.Text())
	}
	return b.String(), nil
}

// maxErrorText bounds how much of the text an error quotes.
const maxErrorText = 32

// errorText quotes s for an error message, cut at a rune boundary after
// maxErrorText bytes.
func errorText(s string) string {
	if len(s) <= maxErrorText {
		return strconv.Quote(s)
	}
	cut := 0
	for i := range s {
		if i > maxErrorText {
			break
		}
		cut = i
	}
	return strconv.Quote(s[:cut]) + "..."
}
