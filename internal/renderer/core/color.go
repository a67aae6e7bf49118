package core

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB color with straight (non-premultiplied) alpha.
type Color struct {
	RGB colorful.Color
	A   float64
}

// Common colors.
var (
	Transparent = Color{}
	Black       = Color{RGB: colorful.Color{R: 0, G: 0, B: 0}, A: 1}
	White       = Color{RGB: colorful.Color{R: 1, G: 1, B: 1}, A: 1}
)

// RGBA creates a color from components in [0, 1].
func RGBA(r, g, b, a float64) Color {
	return Color{RGB: colorful.Color{R: r, G: g, B: b}, A: a}
}

// Hex parses "#rgb", "#rrggbb" or "#rrggbbaa".
func Hex(s string) (Color, error) {
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	alpha := 1.0
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color: %s", s)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color: %s", s)
	}
	return Color{RGB: c, A: alpha}, nil
}

// MustHex is like Hex but panics on malformed input. Intended for literals.
func MustHex(s string) Color {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// IsTransparent returns true if the color has no coverage.
func (c Color) IsTransparent() bool {
	return c.A <= 0
}

// Blend composites over on top of c.
func (c Color) Blend(over Color) Color {
	if over.A >= 1 {
		return over
	}
	if over.A <= 0 {
		return c
	}
	a := over.A + c.A*(1-over.A)
	if a <= 0 {
		return Transparent
	}
	return Color{RGB: c.RGB.BlendRgb(over.RGB, over.A/a), A: a}
}

// FadeOut scales the alpha by 1 - factor, factor clamped to [0, 1].
func (c Color) FadeOut(factor float32) Color {
	f := float64(min(max(factor, 0), 1))
	c.A *= 1 - f
	return c
}

// RGBA255 returns 8-bit components.
func (c Color) RGBA255() (r, g, b, a uint8) {
	r, g, b = c.RGB.Clamped().RGB255()
	a = uint8(min(max(c.A, 0), 1)*255 + 0.5)
	return r, g, b, a
}

// Hex returns "#rrggbb", or "#rrggbbaa" when not opaque.
func (c Color) Hex() string {
	h := c.RGB.Clamped().Hex()
	if c.A >= 1 {
		return h
	}
	_, _, _, a := c.RGBA255()
	return fmt.Sprintf("%s%02x", h, a)
}

// String returns the hex form.
func (c Color) String() string {
	return c.Hex()
}
