package highlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/dshills/textgeom/internal/renderer/core"
)

// DefaultTheme is the theme used when none is configured.
const DefaultTheme = "monokai"

// Theme maps token types to highlight styles using a chroma style.
type Theme struct {
	style *chroma.Style
}

// LoadTheme returns the named chroma theme.
func LoadTheme(name string) (*Theme, error) {
	style, ok := styles.Registry[name]
	if !ok {
		return nil, &UnknownError{Kind: "theme", Name: name}
	}
	return &Theme{style: style}, nil
}

// Name returns the theme name.
func (t *Theme) Name() string {
	return t.style.Name
}

// Background returns the theme's background color, or transparent if it has none.
func (t *Theme) Background() core.Color {
	return colour(t.style.Get(chroma.Background).Background)
}

// Foreground returns the theme's default text color, or transparent if it has none.
func (t *Theme) Foreground() core.Color {
	return colour(t.style.Get(chroma.Text).Colour)
}

// TextStyle returns base in the theme's text color.
func (t *Theme) TextStyle(base core.TextStyle) core.TextStyle {
	if fg := t.Foreground(); !fg.IsTransparent() {
		base.Color = fg
	}
	return base
}

// StyleForToken returns the highlight style for a token type.
// The theme background is not repeated on every token.
func (t *Theme) StyleForToken(tt chroma.TokenType) core.HighlightStyle {
	entry := t.style.Get(tt)
	bg := t.style.Get(chroma.Background).Background

	var h core.HighlightStyle
	if entry.Colour.IsSet() {
		c := colour(entry.Colour)
		h.Color = &c
	}
	if entry.Background.IsSet() && entry.Background != bg {
		c := colour(entry.Background)
		h.Background = &c
	}
	if entry.Bold == chroma.Yes {
		w := core.FontWeightBold
		h.FontWeight = &w
	}
	if entry.Italic == chroma.Yes {
		s := core.FontStyleItalic
		h.FontStyle = &s
	}
	if entry.Underline == chroma.Yes {
		h.Underline = &core.UnderlineStyle{Thickness: 1}
	}
	return h
}

// styleKey is a comparable form of a HighlightStyle built by StyleForToken.
type styleKey struct {
	color, background string
	bold, italic      bool
	underline         bool
}

func keyOf(h core.HighlightStyle) styleKey {
	var k styleKey
	if h.Color != nil {
		k.color = h.Color.Hex()
	}
	if h.Background != nil {
		k.background = h.Background.Hex()
	}
	k.bold = h.FontWeight != nil
	k.italic = h.FontStyle != nil
	k.underline = h.Underline != nil
	return k
}

func colour(c chroma.Colour) core.Color {
	if !c.IsSet() {
		return core.Transparent
	}
	return core.RGBA(float64(c.Red())/255, float64(c.Green())/255, float64(c.Blue())/255, 1)
}
