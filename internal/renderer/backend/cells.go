package backend

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/textgeom/internal/renderer/core"
)

// CellCanvas paints text spans onto a Surface. Span geometry is divided by the cell
// size to find columns and rows; with shaper.CellFonts and a unit cell, one pixel is
// one cell.
type CellCanvas struct {
	surface    Surface
	cellWidth  core.Pixels
	cellHeight core.Pixels
}

// NewCellCanvas creates a canvas over s. Non-positive cell sizes default to 1.
func NewCellCanvas(s Surface, cellWidth, cellHeight core.Pixels) *CellCanvas {
	if cellWidth <= 0 {
		cellWidth = 1
	}
	if cellHeight <= 0 {
		cellHeight = 1
	}
	return &CellCanvas{surface: s, cellWidth: cellWidth, cellHeight: cellHeight}
}

// Surface returns the painted surface.
func (c *CellCanvas) Surface() Surface {
	return c.surface
}

// PaintText implements core.Canvas.
func (c *CellCanvas) PaintText(span core.TextSpan) error {
	col := int((span.Origin.X / c.cellWidth).Floor())
	row := int((span.Origin.Y / c.cellHeight).Floor())
	cols := int((span.Size.Width / c.cellWidth).Round())
	style := cellStyle(span.Run)

	if span.Run.Background != nil {
		blank := EmptyCell()
		blank.Style = style
		c.surface.Fill(Rect{Left: col, Top: row, Right: col + cols, Bottom: row + 1}, blank)
	}

	// Tabs share whatever the span's advance leaves after its other clusters.
	tabCols := 0
	if tabs := strings.Count(span.Text, "\t"); tabs > 0 {
		ink := uniseg.StringWidth(strings.ReplaceAll(span.Text, "\t", ""))
		tabCols = max(cols-ink, 0) / tabs
	}

	x := col
	state := -1
	for rest := span.Text; rest != ""; {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)

		switch {
		case cluster == "\t":
			for range tabCols {
				c.surface.SetCell(x, row, Cell{Text: " ", Width: 1, Style: style})
				x++
			}
		case width == 0:
			// Control characters take no space.
		default:
			c.surface.SetCell(x, row, Cell{Text: cluster, Width: width, Style: style})
			for i := 1; i < width; i++ {
				c.surface.SetCell(x+i, row, ContinuationCell(style))
			}
			x += width
		}
	}
	return nil
}

// cellStyle maps a text run onto cell attributes.
func cellStyle(run core.TextRun) CellStyle {
	s := CellStyle{
		Foreground:    run.Color,
		Bold:          run.Font.Weight.IsBold(),
		Italic:        run.Font.Style != core.FontStyleNormal,
		Underline:     run.Underline != nil,
		Strikethrough: run.Strikethrough != nil,
	}
	if run.Background != nil {
		s.Background = *run.Background
	}
	return s
}
