package core

// FontWeight is a CSS-style font weight.
type FontWeight uint16

// Font weights.
const (
	FontWeightThin     FontWeight = 100
	FontWeightLight    FontWeight = 300
	FontWeightNormal   FontWeight = 400
	FontWeightMedium   FontWeight = 500
	FontWeightSemibold FontWeight = 600
	FontWeightBold     FontWeight = 700
	FontWeightBlack    FontWeight = 900
)

// IsBold returns true for semibold and heavier weights.
func (w FontWeight) IsBold() bool {
	return w >= FontWeightSemibold
}

// FontStyle is the slant of a font.
type FontStyle uint8

// Font styles.
const (
	FontStyleNormal FontStyle = iota
	FontStyleItalic
	FontStyleOblique
)

// Font identifies a face by family, weight and style.
type Font struct {
	Family string
	Weight FontWeight
	Style  FontStyle
}

// WhiteSpace controls whether text may wrap.
type WhiteSpace uint8

const (
	// WhiteSpaceNormal allows wrapping at the available width.
	WhiteSpaceNormal WhiteSpace = iota
	// WhiteSpaceNoWrap keeps every hard line on one row.
	WhiteSpaceNoWrap
)

// String returns the config name of the mode.
func (w WhiteSpace) String() string {
	if w == WhiteSpaceNoWrap {
		return "nowrap"
	}
	return "normal"
}

// Truncate selects how overflowing text is cut.
type Truncate uint8

const (
	// TruncateNone leaves text untouched.
	TruncateNone Truncate = iota
	// TruncateCut removes overflowing text without a marker.
	TruncateCut
	// TruncateEllipsis removes overflowing text and appends an ellipsis.
	TruncateEllipsis
)

// String returns the config name of the mode.
func (t Truncate) String() string {
	switch t {
	case TruncateCut:
		return "truncate"
	case TruncateEllipsis:
		return "ellipsis"
	default:
		return "none"
	}
}

// LengthUnit is the unit of a Length.
type LengthUnit uint8

const (
	// UnitPx is an absolute pixel length.
	UnitPx LengthUnit = iota
	// UnitRem is a multiple of the root font size.
	UnitRem
	// UnitRelative is a fraction of a base length (the font size for line heights).
	UnitRelative
)

// Length is a distance that is resolved to pixels during layout.
type Length struct {
	Value float32
	Unit  LengthUnit
}

// Pxs returns an absolute length.
func Pxs(v float32) Length { return Length{Value: v, Unit: UnitPx} }

// Rems returns a rem length.
func Rems(v float32) Length { return Length{Value: v, Unit: UnitRem} }

// Relative returns a length relative to its base.
func Relative(v float32) Length { return Length{Value: v, Unit: UnitRelative} }

// ToPixels resolves the length against a base and the rem size.
func (l Length) ToPixels(base, rem Pixels) Pixels {
	switch l.Unit {
	case UnitRem:
		return Pixels(l.Value) * rem
	case UnitRelative:
		return Pixels(l.Value) * base
	default:
		return Pixels(l.Value)
	}
}

// UnderlineStyle describes an underline decoration.
type UnderlineStyle struct {
	Thickness Pixels
	Color     *Color
	Wavy      bool
}

// StrikethroughStyle describes a strikethrough decoration.
type StrikethroughStyle struct {
	Thickness Pixels
	Color     *Color
}

// TextRun styles Len bytes of text.
type TextRun struct {
	Len           int
	Font          Font
	Color         Color
	Background    *Color
	Underline     *UnderlineStyle
	Strikethrough *StrikethroughStyle
}

// SameStyle returns true if both runs paint identically.
func (r TextRun) SameStyle(other TextRun) bool {
	return r.Font == other.Font &&
		r.Color == other.Color &&
		equalPtr(r.Background, other.Background) &&
		equalPtr(r.Underline, other.Underline) &&
		equalPtr(r.Strikethrough, other.Strikethrough)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// RunsLen returns the number of bytes covered by runs.
func RunsLen(runs []TextRun) int {
	n := 0
	for _, r := range runs {
		n += r.Len
	}
	return n
}

// HighlightStyle is a partial style laid over a TextStyle. Nil fields are left alone.
type HighlightStyle struct {
	Color         *Color
	Background    *Color
	FontWeight    *FontWeight
	FontStyle     *FontStyle
	Underline     *UnderlineStyle
	Strikethrough *StrikethroughStyle
	FadeOut       *float32
}

// TextStyle is the ambient style for a piece of text.
type TextStyle struct {
	Color         Color
	Font          Font
	FontSize      Length
	LineHeight    Length
	Background    *Color
	Underline     *UnderlineStyle
	Strikethrough *StrikethroughStyle
	WhiteSpace    WhiteSpace
	Truncate      Truncate
}

// DefaultTextStyle returns the style used when nothing is configured.
func DefaultTextStyle() TextStyle {
	return TextStyle{
		Color:      Black,
		Font:       Font{Family: "Go", Weight: FontWeightNormal, Style: FontStyleNormal},
		FontSize:   Rems(1),
		LineHeight: Relative(1.618034),
		WhiteSpace: WhiteSpaceNormal,
	}
}

// FontSizePixels resolves the font size.
func (s TextStyle) FontSizePixels(rem Pixels) Pixels {
	return s.FontSize.ToPixels(rem, rem)
}

// LineHeightPixels resolves the line height. Relative heights scale the font size.
func (s TextStyle) LineHeightPixels(rem Pixels) Pixels {
	return s.LineHeight.ToPixels(s.FontSizePixels(rem), rem)
}

// ToRun returns a run of n bytes in this style.
func (s TextStyle) ToRun(n int) TextRun {
	return TextRun{
		Len:           n,
		Font:          s.Font,
		Color:         s.Color,
		Background:    s.Background,
		Underline:     s.Underline,
		Strikethrough: s.Strikethrough,
	}
}

// Highlight returns s with h laid over it.
func (s TextStyle) Highlight(h HighlightStyle) TextStyle {
	if h.FontWeight != nil {
		s.Font.Weight = *h.FontWeight
	}
	if h.FontStyle != nil {
		s.Font.Style = *h.FontStyle
	}
	if h.Color != nil {
		s.Color = s.Color.Blend(*h.Color)
	}
	if h.FadeOut != nil {
		s.Color = s.Color.FadeOut(*h.FadeOut)
		if s.Background != nil {
			bg := s.Background.FadeOut(*h.FadeOut)
			s.Background = &bg
		}
	}
	if h.Background != nil {
		bg := *h.Background
		s.Background = &bg
	}
	if h.Underline != nil {
		u := *h.Underline
		s.Underline = &u
	}
	if h.Strikethrough != nil {
		st := *h.Strikethrough
		s.Strikethrough = &st
	}
	return s
}
