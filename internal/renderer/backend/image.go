package backend

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/dshills/textgeom/internal/renderer/core"
	"github.com/dshills/textgeom/internal/renderer/shaper"
)

// Image rasterizes text spans into an RGBA image with the Go fonts.
type Image struct {
	img   *image.RGBA
	fonts *shaper.GoFonts
}

// NewImage creates a width x height image filled with background.
func NewImage(width, height int, fonts *shaper.GoFonts, background core.Color) *Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if !background.IsTransparent() {
		draw.Draw(img, img.Bounds(), image.NewUniform(toRGBA(background)), image.Point{}, draw.Src)
	}
	return &Image{img: img, fonts: fonts}
}

// RGBA returns the painted image.
func (c *Image) RGBA() *image.RGBA {
	return c.img
}

// PaintText implements core.Canvas.
func (c *Image) PaintText(span core.TextSpan) error {
	b := span.Bounds()
	rect := image.Rect(
		int(b.Left().Floor()), int(b.Top().Floor()),
		int(b.Right().Ceil()), int(b.Bottom().Ceil()),
	)

	if bg := span.Run.Background; bg != nil {
		draw.Draw(c.img, rect, image.NewUniform(toRGBA(*bg)), image.Point{}, draw.Over)
	}

	return c.fonts.WithFace(span.Run.Font, span.FontSize, func(face font.Face) {
		m := face.Metrics()
		lineHeight := toFixed(span.Size.Height)
		baseline := toFixed(b.Top()) + (lineHeight-m.Ascent-m.Descent)/2 + m.Ascent

		d := &font.Drawer{
			Dst:  c.img,
			Src:  image.NewUniform(toRGBA(span.Run.Color)),
			Face: face,
			Dot:  fixed.Point26_6{X: toFixed(b.Left()), Y: baseline},
		}
		drawPieces(d, span.Text, toFixed(span.Size.Width))

		if u := span.Run.Underline; u != nil {
			y := baseline.Ceil() + 1
			c.rule(rect.Min.X, rect.Max.X, y, thickness(u.Thickness), decorationColor(u.Color, span.Run.Color))
		}
		if s := span.Run.Strikethrough; s != nil {
			mid := m.XHeight / 2
			if mid <= 0 {
				mid = m.Ascent / 3
			}
			y := (baseline - mid).Round()
			c.rule(rect.Min.X, rect.Max.X, y, thickness(s.Thickness), decorationColor(s.Color, span.Run.Color))
		}
	})
}

// drawPieces draws text split at tabs. Tabs share the advance left over by the pieces.
func drawPieces(d *font.Drawer, text string, width fixed.Int26_6) {
	pieces := strings.Split(text, "\t")
	for i, p := range pieces {
		pieces[i] = strings.Map(dropControl, p)
	}

	var tabAdvance fixed.Int26_6
	if tabs := len(pieces) - 1; tabs > 0 {
		var ink fixed.Int26_6
		for _, p := range pieces {
			ink += d.MeasureString(p)
		}
		tabAdvance = max(width-ink, 0) / fixed.Int26_6(tabs)
	}

	for i, p := range pieces {
		if i > 0 {
			d.Dot.X += tabAdvance
		}
		d.DrawString(p)
	}
}

func dropControl(r rune) rune {
	if r < 0x20 || r == 0x7f {
		return -1
	}
	return r
}

// rule draws a horizontal line of the given thickness with its top at y.
func (c *Image) rule(x0, x1, y, thickness int, col color.RGBA) {
	r := image.Rect(x0, y, x1, y+thickness)
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Over)
}

func thickness(p core.Pixels) int {
	return max(int(p.Round()), 1)
}

func decorationColor(c *core.Color, fallback core.Color) color.RGBA {
	if c != nil {
		return toRGBA(*c)
	}
	return toRGBA(fallback)
}

func toFixed(p core.Pixels) fixed.Int26_6 {
	return fixed.Int26_6(p * 64)
}

// toRGBA converts to premultiplied 8-bit color.
func toRGBA(c core.Color) color.RGBA {
	r, g, b, a := c.RGBA255()
	return color.RGBA{
		R: uint8(uint16(r) * uint16(a) / 255),
		G: uint8(uint16(g) * uint16(a) / 255),
		B: uint8(uint16(b) * uint16(a) / 255),
		A: a,
	}
}
