// Package backend provides paint targets for laid-out text.
//
// Cell surfaces (Buffer, Terminal) are painted through a CellCanvas, which maps the
// pixel geometry of text spans onto a character grid. Image rasterizes spans with the
// Go fonts.
package backend

import (
	"github.com/dshills/textgeom/internal/renderer/core"
)

// CellStyle is the paint style of one cell.
type CellStyle struct {
	Foreground    core.Color
	Background    core.Color
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
}

// Cell is one character cell.
type Cell struct {
	// Text is the grapheme cluster shown in the cell. Empty for the trailing half of a
	// wide cluster.
	Text  string
	Width int
	Style CellStyle
}

// EmptyCell returns a blank cell in the default style.
func EmptyCell() Cell {
	return Cell{Text: " ", Width: 1}
}

// ContinuationCell returns the placeholder following a wide cluster.
func ContinuationCell(style CellStyle) Cell {
	return Cell{Style: style}
}

// IsContinuation returns true for the trailing half of a wide cluster.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Text == ""
}

// Rect is a half-open rectangle of cells.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Width returns the number of columns.
func (r Rect) Width() int {
	return max(r.Right-r.Left, 0)
}

// Height returns the number of rows.
func (r Rect) Height() int {
	return max(r.Bottom-r.Top, 0)
}

// Surface is a grid of cells.
type Surface interface {
	// Size returns the grid dimensions.
	Size() (width, height int)

	// SetCell sets one cell. Positions outside the grid are ignored.
	SetCell(x, y int, cell Cell)

	// GetCell returns one cell, or an empty cell outside the grid.
	GetCell(x, y int) Cell

	// Fill fills a rectangle, clipped to the grid.
	Fill(rect Rect, cell Cell)

	// Clear blanks the whole grid.
	Clear()

	// Show flushes pending changes to the display.
	Show()
}

// fill implements Fill for surfaces with a SetCell.
func fill(s Surface, rect Rect, cell Cell) {
	width, height := s.Size()
	for y := max(rect.Top, 0); y < rect.Bottom && y < height; y++ {
		for x := max(rect.Left, 0); x < rect.Right && x < width; x++ {
			s.SetCell(x, y, cell)
		}
	}
}
