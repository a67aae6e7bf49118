package shaper

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dshills/textgeom/internal/renderer/core"
	"github.com/rivo/uniseg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Font families known to GoFonts.
const (
	FamilyGo     = "Go"
	FamilyGoMono = "Go Mono"
	FamilyFixed  = "Fixed"
)

// Metrics measures grapheme clusters in one face at one size.
type Metrics interface {
	// Advance returns the horizontal advance of cluster when it follows prev.
	// prev is -1 at the start of a row.
	Advance(cluster string, prev rune) core.Pixels
}

// FontSource resolves fonts to metrics.
type FontSource interface {
	Metrics(f core.Font, size core.Pixels) (Metrics, error)
}

// GoFonts serves the Go font family, the Go Mono family and the fixed 7x13 bitmap face.
type GoFonts struct {
	mu     sync.Mutex
	parsed map[string]*opentype.Font
	faces  map[faceKey]*faceMetrics
}

type faceKey struct {
	font core.Font
	size core.Pixels
}

// NewGoFonts creates an empty font source. Faces are parsed on first use.
func NewGoFonts() *GoFonts {
	return &GoFonts{
		parsed: make(map[string]*opentype.Font),
		faces:  make(map[faceKey]*faceMetrics),
	}
}

// Metrics implements FontSource.
func (g *GoFonts) Metrics(f core.Font, size core.Pixels) (Metrics, error) {
	return g.face(f, size)
}

// Face returns the raster face for f at size.
// The returned face is shared; callers must not use it concurrently with shaping.
// Prefer WithFace.
func (g *GoFonts) Face(f core.Font, size core.Pixels) (font.Face, error) {
	m, err := g.face(f, size)
	if err != nil {
		return nil, err
	}
	return m.face, nil
}

// WithFace calls fn with the raster face for f at size. Shaping with the same face
// waits until fn returns.
func (g *GoFonts) WithFace(f core.Font, size core.Pixels, fn func(font.Face)) error {
	m, err := g.face(f, size)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.face)
	return nil
}

func (g *GoFonts) face(f core.Font, size core.Pixels) (*faceMetrics, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFontSize, size)
	}
	if strings.EqualFold(f.Family, FamilyFixed) {
		// The bitmap face has a single size.
		size = 13
	}
	key := faceKey{font: f, size: size}

	g.mu.Lock()
	defer g.mu.Unlock()

	if m, ok := g.faces[key]; ok {
		return m, nil
	}

	var face font.Face
	if strings.EqualFold(f.Family, FamilyFixed) {
		face = basicfont.Face7x13
	} else {
		ttf, name, err := goTTF(f)
		if err != nil {
			return nil, err
		}
		parsed, ok := g.parsed[name]
		if !ok {
			parsed, err = opentype.Parse(ttf)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", name, err)
			}
			g.parsed[name] = parsed
		}
		face, err = opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    float64(size),
			DPI:     72,
			Hinting: font.HintingNone,
		})
		if err != nil {
			return nil, fmt.Errorf("face %s: %w", name, err)
		}
	}

	m := &faceMetrics{face: face}
	g.faces[key] = m
	return m, nil
}

// goTTF picks the embedded TTF for a font description.
func goTTF(f core.Font) ([]byte, string, error) {
	bold := f.Weight.IsBold()
	italic := f.Style != core.FontStyleNormal

	switch {
	case strings.EqualFold(f.Family, FamilyGo) || f.Family == "":
		switch {
		case bold && italic:
			return gobolditalic.TTF, "Go Bold Italic", nil
		case bold:
			return gobold.TTF, "Go Bold", nil
		case italic:
			return goitalic.TTF, "Go Italic", nil
		default:
			return goregular.TTF, "Go Regular", nil
		}
	case strings.EqualFold(f.Family, FamilyGoMono):
		switch {
		case bold && italic:
			return gomonobolditalic.TTF, "Go Mono Bold Italic", nil
		case bold:
			return gomonobold.TTF, "Go Mono Bold", nil
		case italic:
			return gomonoitalic.TTF, "Go Mono Italic", nil
		default:
			return gomono.TTF, "Go Mono", nil
		}
	}
	return nil, "", fmt.Errorf("%w: %q", ErrUnknownFont, f.Family)
}

// faceMetrics adapts a font.Face to Metrics. Faces keep scratch buffers, so access is serialized.
type faceMetrics struct {
	mu   sync.Mutex
	face font.Face
}

func (m *faceMetrics) Advance(cluster string, prev rune) core.Pixels {
	r, _ := utf8.DecodeRuneInString(cluster)

	m.mu.Lock()
	defer m.mu.Unlock()

	adv, ok := m.face.GlyphAdvance(r)
	if !ok {
		adv, _ = m.face.GlyphAdvance(utf8.RuneError)
	}
	if prev >= 0 {
		adv += m.face.Kern(prev, r)
	}
	return fixedToPixels(adv)
}

func fixedToPixels(v fixed.Int26_6) core.Pixels {
	return core.Pixels(float32(v) / 64)
}

// CellFonts measures text in terminal cells: every cluster advances by its display width.
// Font and size are ignored.
type CellFonts struct{}

// Metrics implements FontSource.
func (CellFonts) Metrics(core.Font, core.Pixels) (Metrics, error) {
	return cellMetrics{}, nil
}

type cellMetrics struct{}

func (cellMetrics) Advance(cluster string, _ rune) core.Pixels {
	return core.Pixels(uniseg.StringWidth(cluster))
}
