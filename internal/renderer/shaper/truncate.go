package shaper

import (
	"strings"

	"github.com/dshills/textgeom/internal/renderer/core"
	"github.com/rivo/uniseg"
)

// Ellipsis is the marker appended to truncated lines.
const Ellipsis = "…"

// LineWrapper measures text in a single font to truncate it.
type LineWrapper struct {
	metrics Metrics
}

// LineWrapper returns a wrapper measuring text in f at size.
func (s *Shaper) LineWrapper(f core.Font, size core.Pixels) (*LineWrapper, error) {
	m, err := s.fonts.Metrics(f, size)
	if err != nil {
		return nil, err
	}
	return &LineWrapper{metrics: m}, nil
}

// NewLineWrapper creates a wrapper over m.
func NewLineWrapper(m Metrics) *LineWrapper {
	return &LineWrapper{metrics: m}
}

// Width returns the advance width of s.
func (w *LineWrapper) Width(s string) core.Pixels {
	var width core.Pixels
	prev := rune(-1)
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		width += w.metrics.Advance(g.Str(), prev)
		r := g.Runes()
		prev = r[len(r)-1]
	}
	return width
}

// TruncateLine cuts every hard line of text that is wider than width and appends marker
// to each cut line. An empty marker cuts without a marker.
//
// It returns the new text and runs adjusted to cover it; runs is not modified. The
// run in which a cut lands is extended by the marker's length.
func (w *LineWrapper) TruncateLine(text string, width core.Pixels, marker string, runs []core.TextRun) (string, []core.TextRun) {
	markerWidth := w.Width(marker)

	var (
		b    strings.Builder
		cuts []int // source offsets at which the marker was inserted
		kept []span
	)
	start := 0
	for {
		end := strings.IndexByte(text[start:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end += start
		}

		cut, ok := w.cutIndex(text[start:end], width, markerWidth)
		if ok {
			b.WriteString(text[start : start+cut])
			b.WriteString(marker)
			cuts = append(cuts, start+cut)
			kept = append(kept, span{start, start + cut})
		} else {
			b.WriteString(text[start:end])
			kept = append(kept, span{start, end})
		}

		if end == len(text) {
			break
		}
		b.WriteByte('\n')
		kept = append(kept, span{end, end + 1})
		start = end + 1
	}

	if len(cuts) == 0 {
		return text, append([]core.TextRun(nil), runs...)
	}
	return b.String(), remapRuns(runs, kept, cuts, len(marker))
}

// cutIndex returns the byte offset at which line must be cut to fit width with a marker.
func (w *LineWrapper) cutIndex(line string, width, markerWidth core.Pixels) (int, bool) {
	var (
		x          core.Pixels
		truncateIx int
		prev       = rune(-1)
	)
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		from, _ := g.Positions()
		if x+markerWidth < width {
			truncateIx = from
		}
		x += w.metrics.Advance(g.Str(), prev)
		if x.Floor() > width {
			return truncateIx, true
		}
		r := g.Runes()
		prev = r[len(r)-1]
	}
	return 0, false
}

type span struct {
	start, end int
}

// remapRuns recomputes run lengths for text built from the kept source spans, with
// markerLen bytes inserted at each cut offset.
func remapRuns(runs []core.TextRun, kept []span, cuts []int, markerLen int) []core.TextRun {
	out := make([]core.TextRun, 0, len(runs))
	owner := make([]int, len(cuts))
	for i := range owner {
		owner[i] = -1
	}

	pos := 0
	for ri, run := range runs {
		runStart, runEnd := pos, pos+run.Len
		pos = runEnd

		n := 0
		for _, k := range kept {
			n += max(0, min(runEnd, k.end)-max(runStart, k.start))
		}
		for ci, c := range cuts {
			if owner[ci] < 0 && run.Len > 0 && runEnd >= c {
				owner[ci] = ri
				n += markerLen
			}
		}
		run.Len = n
		out = append(out, run)
	}

	// A cut past every non-empty run falls to the last run.
	for ci := range cuts {
		if owner[ci] < 0 && len(out) > 0 {
			out[len(out)-1].Len += markerLen
		}
	}

	trimmed := out[:0]
	for _, run := range out {
		if run.Len > 0 {
			trimmed = append(trimmed, run)
		}
	}
	return trimmed
}
