package backend

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Buffer is an in-memory Surface.
type Buffer struct {
	width, height int
	cells         [][]Cell
}

// NewBuffer creates a blank buffer with the given dimensions.
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{width: width, height: height}
	b.allocate()
	return b
}

func (b *Buffer) allocate() {
	b.cells = make([][]Cell, b.height)
	for y := range b.cells {
		b.cells[y] = make([]Cell, b.width)
		for x := range b.cells[y] {
			b.cells[y][x] = EmptyCell()
		}
	}
}

// Resize resizes the buffer, preserving content where possible.
func (b *Buffer) Resize(width, height int) {
	if width == b.width && height == b.height {
		return
	}

	old := b.cells
	oldWidth, oldHeight := b.width, b.height

	b.width, b.height = width, height
	b.allocate()

	for y := range min(oldHeight, height) {
		copy(b.cells[y][:min(oldWidth, width)], old[y])
	}
}

// Size implements Surface.
func (b *Buffer) Size() (width, height int) {
	return b.width, b.height
}

// SetCell implements Surface.
func (b *Buffer) SetCell(x, y int, cell Cell) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.cells[y][x] = cell
}

// GetCell implements Surface.
func (b *Buffer) GetCell(x, y int) Cell {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return EmptyCell()
	}
	return b.cells[y][x]
}

// Fill implements Surface.
func (b *Buffer) Fill(rect Rect, cell Cell) {
	fill(b, rect, cell)
}

// Clear implements Surface.
func (b *Buffer) Clear() {
	b.Fill(Rect{Right: b.width, Bottom: b.height}, EmptyCell())
}

// Show implements Surface. A Buffer has no display.
func (b *Buffer) Show() {}

// SetString writes s at (x, y) one grapheme cluster per cell, clipped to the row.
func (b *Buffer) SetString(x, y int, s string, style CellStyle) {
	state := -1
	for s != "" {
		var cluster string
		var width int
		cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
		if width == 0 {
			continue
		}
		b.SetCell(x, y, Cell{Text: cluster, Width: width, Style: style})
		for i := 1; i < width; i++ {
			b.SetCell(x+i, y, ContinuationCell(style))
		}
		x += width
	}
}

// Row returns the text of row y with trailing blanks removed.
func (b *Buffer) Row(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.cells[y] {
		sb.WriteString(c.Text)
	}
	return strings.TrimRight(sb.String(), " ")
}

// String returns every row, one per line.
func (b *Buffer) String() string {
	var sb strings.Builder
	for y := range b.height {
		sb.WriteString(b.Row(y))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Dump returns the text grid followed by a grid of style codes, for snapshots.
//
// Style codes: '.' plain, 'b' bold, 'i' italic, 'u' underline, 's' strikethrough,
// '#' background only. The first matching code wins; wide clusters repeat it.
func (b *Buffer) Dump() string {
	var sb strings.Builder
	sb.WriteString(b.String())
	sb.WriteString(strings.Repeat("-", b.width))
	sb.WriteByte('\n')
	for y := range b.height {
		for _, c := range b.cells[y] {
			sb.WriteByte(styleCode(c.Style))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func styleCode(s CellStyle) byte {
	switch {
	case s.Bold:
		return 'b'
	case s.Italic:
		return 'i'
	case s.Underline:
		return 'u'
	case s.Strikethrough:
		return 's'
	case !s.Background.IsTransparent():
		return '#'
	default:
		return '.'
	}
}
