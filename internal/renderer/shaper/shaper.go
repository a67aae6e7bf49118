// Package shaper turns styled text into positioned glyph rows.
//
// The shaper measures grapheme clusters with a FontSource, breaks each hard line
// ('\n' separated) into visual rows at Unicode line-break opportunities, and returns
// one WrappedLine per hard line. It does no complex-script shaping: each cluster is
// positioned by the advance of its first rune plus kerning.
package shaper

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/textgeom/internal/renderer/core"
	"github.com/rivo/uniseg"
)

// Shaping errors.
var (
	// ErrRunMismatch indicates the runs do not cover the text exactly.
	ErrRunMismatch = errors.New("runs do not match text length")
	// ErrUnknownFont indicates a font family the source cannot serve.
	ErrUnknownFont = errors.New("unknown font")
	// ErrInvalidFontSize indicates a font size that is not positive.
	ErrInvalidFontSize = errors.New("invalid font size")
)

// DefaultTabWidth is the number of space advances between tab stops.
const DefaultTabWidth = 4

// Shaper shapes text using a FontSource.
// A Shaper is safe for concurrent use.
type Shaper struct {
	fonts FontSource
	tabs  *TabStops
	cache *LineCache
}

// Option configures a Shaper.
type Option func(*Shaper)

// WithTabWidth sets the tab width in space advances.
func WithTabWidth(n int) Option {
	return func(s *Shaper) {
		s.tabs = NewTabStops(n)
	}
}

// WithCache sets the cache for shaped lines. A nil cache disables caching.
func WithCache(c *LineCache) Option {
	return func(s *Shaper) {
		s.cache = c
	}
}

// New creates a shaper. By default it caches up to DefaultCacheSize lines.
func New(fonts FontSource, opts ...Option) *Shaper {
	s := &Shaper{
		fonts: fonts,
		tabs:  NewTabStops(DefaultTabWidth),
		cache: NewLineCache(DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fonts returns the shaper's font source.
func (s *Shaper) Fonts() FontSource {
	return s.fonts
}

// Cache returns the shaped-line cache, or nil.
func (s *Shaper) Cache() *LineCache {
	return s.cache
}

// ShapeText shapes text into one WrappedLine per hard line.
// Rows are wrapped at wrapWidth when it is present.
func (s *Shaper) ShapeText(text string, fontSize core.Pixels, runs []core.TextRun, wrapWidth core.MaybePixels) ([]*WrappedLine, error) {
	if fontSize <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFontSize, fontSize)
	}
	if n := core.RunsLen(runs); n != len(text) {
		return nil, fmt.Errorf("%w: runs cover %d bytes, text has %d", ErrRunMismatch, n, len(text))
	}

	lines := make([]*WrappedLine, 0, strings.Count(text, "\n")+1)
	start := 0
	for {
		end := strings.IndexByte(text[start:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end += start
		}

		line, err := s.shapeCached(text[start:end], fontSize, sliceRuns(runs, start, end), wrapWidth)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)

		if end == len(text) {
			break
		}
		start = end + 1
	}
	return lines, nil
}

func (s *Shaper) shapeCached(text string, fontSize core.Pixels, runs []core.TextRun, wrapWidth core.MaybePixels) (*WrappedLine, error) {
	if s.cache == nil {
		return s.shapeLine(text, fontSize, runs, wrapWidth)
	}
	key := lineKey(text, fontSize, runs, wrapWidth)
	if line := s.cache.Get(key); line != nil {
		return line, nil
	}
	line, err := s.shapeLine(text, fontSize, runs, wrapWidth)
	if err != nil {
		return nil, err
	}
	s.cache.Put(key, line)
	return line, nil
}

// shapeLine measures and wraps one hard line.
func (s *Shaper) shapeLine(text string, fontSize core.Pixels, runs []core.TextRun, wrapWidth core.MaybePixels) (*WrappedLine, error) {
	metrics := make([]Metrics, len(runs))
	for i, run := range runs {
		m, err := s.fonts.Metrics(run.Font, fontSize)
		if err != nil {
			return nil, err
		}
		metrics[i] = m
	}

	line := &WrappedLine{
		text:     text,
		runs:     runs,
		fontSize: fontSize,
		glyphs:   make([]Glyph, 0, len(text)),
	}
	if len(text) == 0 {
		return line, nil
	}

	wrap, wrapping := wrapWidth.Get()
	var (
		x         core.Pixels
		run       int
		runEnd    = runs[0].Len
		prev      = rune(-1)
		rowStart  int
		lastBreak int // glyph index following the last break opportunity in this row
	)

	g := uniseg.NewGraphemes(text)
	for g.Next() {
		from, to := g.Positions()
		for from >= runEnd && run < len(runs)-1 {
			run++
			runEnd += runs[run].Len
		}

		cluster := g.Str()
		r, _ := utf8.DecodeRuneInString(cluster)
		space := unicode.IsSpace(r)

		var adv core.Pixels
		switch {
		case r == '\t':
			adv = s.tabs.Advance(x, metrics[run].Advance(" ", -1))
		case unicode.IsControl(r):
			adv = 0
		default:
			adv = metrics[run].Advance(cluster, prev)
		}

		// Whitespace hangs past the edge; anything else that overflows starts a new row.
		if wrapping && !space && x+adv > wrap && len(line.glyphs) > rowStart {
			brk := len(line.glyphs)
			if lastBreak > rowStart {
				brk = lastBreak
			}
			shift := x
			if brk < len(line.glyphs) {
				shift = line.glyphs[brk].X
			}
			for i := brk; i < len(line.glyphs); i++ {
				line.glyphs[i].X -= shift
			}
			x -= shift
			line.rowStart = append(line.rowStart, brk)
			rowStart = brk
			prev = -1
			if brk == len(line.glyphs) {
				adv = metrics[run].Advance(cluster, prev)
			}
		}

		line.glyphs = append(line.glyphs, Glyph{
			Index:      from,
			Len:        to - from,
			X:          x,
			Advance:    adv,
			Run:        run,
			Whitespace: space,
		})
		x += adv
		prev = r

		if g.LineBreak() != uniseg.LineDontBreak {
			lastBreak = len(line.glyphs)
		}
	}
	return line, nil
}

// sliceRuns returns the runs covering text[start:end], trimmed to that range.
func sliceRuns(runs []core.TextRun, start, end int) []core.TextRun {
	var out []core.TextRun
	pos := 0
	for _, run := range runs {
		runStart, runEnd := pos, pos+run.Len
		pos = runEnd
		if runEnd <= start || run.Len == 0 {
			continue
		}
		if runStart >= end {
			break
		}
		run.Len = min(runEnd, end) - max(runStart, start)
		out = append(out, run)
	}
	if len(out) == 0 && len(runs) > 0 {
		// Empty line: keep the style of the run the line sits in so it can still be painted.
		r := runs[len(runs)-1]
		pos = 0
		for _, run := range runs {
			if pos+run.Len > start {
				r = run
				break
			}
			pos += run.Len
		}
		r.Len = 0
		out = append(out, r)
	}
	return out
}
