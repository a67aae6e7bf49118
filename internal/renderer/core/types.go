// Package core provides shared geometry and style types for the renderer subsystem.
// This package breaks import cycles between layout, shaper and backend.
package core

import (
	"fmt"
	"math"
)

// Pixels is a logical pixel distance.
type Pixels float32

// Px converts a float to Pixels.
func Px(v float32) Pixels {
	return Pixels(v)
}

// Ceil rounds up to the next integral pixel.
func (p Pixels) Ceil() Pixels {
	return Pixels(math.Ceil(float64(p)))
}

// Floor rounds down to the previous integral pixel.
func (p Pixels) Floor() Pixels {
	return Pixels(math.Floor(float64(p)))
}

// Round rounds to the nearest integral pixel.
func (p Pixels) Round() Pixels {
	return Pixels(math.Round(float64(p)))
}

// Max returns the larger of p and other.
func (p Pixels) Max(other Pixels) Pixels {
	if other > p {
		return other
	}
	return p
}

// String returns the pixel value with a px suffix.
func (p Pixels) String() string {
	return fmt.Sprintf("%gpx", float32(p))
}

// MaybePixels is a pixel value that may be absent.
type MaybePixels struct {
	Value Pixels
	Valid bool
}

// Some returns a present pixel value.
func Some(v Pixels) MaybePixels {
	return MaybePixels{Value: v, Valid: true}
}

// None is the absent pixel value.
var None = MaybePixels{}

// Get returns the value and whether it is present.
func (m MaybePixels) Get() (Pixels, bool) {
	return m.Value, m.Valid
}

// Or returns m if present, otherwise other.
func (m MaybePixels) Or(other MaybePixels) MaybePixels {
	if m.Valid {
		return m
	}
	return other
}

// String returns "none" or the pixel value.
func (m MaybePixels) String() string {
	if !m.Valid {
		return "none"
	}
	return m.Value.String()
}

// Point is a position in pixel space. Y grows downward.
type Point struct {
	X Pixels
	Y Pixels
}

// Pt creates a point.
func Pt(x, y Pixels) Point {
	return Point{X: x, Y: y}
}

// Add returns p offset by other.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns p relative to other.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Equals returns true if two points are the same.
func (p Point) Equals(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// Size is a width and height in pixels.
type Size struct {
	Width  Pixels
	Height Pixels
}

// Sz creates a size.
func Sz(width, height Pixels) Size {
	return Size{Width: width, Height: height}
}

// IsEmpty returns true if the size has no area.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Bounds is a rectangle given by its top-left origin and size.
type Bounds struct {
	Origin Point
	Size   Size
}

// NewBounds creates bounds from an origin and a size.
func NewBounds(origin Point, size Size) Bounds {
	return Bounds{Origin: origin, Size: size}
}

// Top returns the top edge.
func (b Bounds) Top() Pixels {
	return b.Origin.Y
}

// Bottom returns the bottom edge (exclusive).
func (b Bounds) Bottom() Pixels {
	return b.Origin.Y + b.Size.Height
}

// Left returns the left edge.
func (b Bounds) Left() Pixels {
	return b.Origin.X
}

// Right returns the right edge (exclusive).
func (b Bounds) Right() Pixels {
	return b.Origin.X + b.Size.Width
}

// Contains returns true if p lies within the bounds.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Left() && p.X < b.Right() &&
		p.Y >= b.Top() && p.Y < b.Bottom()
}

// Intersects returns true if two bounds overlap.
func (b Bounds) Intersects(other Bounds) bool {
	return b.Left() < other.Right() && b.Right() > other.Left() &&
		b.Top() < other.Bottom() && b.Bottom() > other.Top()
}

// Intersection returns the overlapping region of two bounds.
func (b Bounds) Intersection(other Bounds) Bounds {
	if !b.Intersects(other) {
		return Bounds{}
	}
	left := max(b.Left(), other.Left())
	top := max(b.Top(), other.Top())
	right := min(b.Right(), other.Right())
	bottom := min(b.Bottom(), other.Bottom())
	return Bounds{Origin: Pt(left, top), Size: Sz(right-left, bottom-top)}
}

// Inset returns bounds shrunk by the given amount on every side.
func (b Bounds) Inset(amount Pixels) Bounds {
	return Bounds{
		Origin: Pt(b.Origin.X+amount, b.Origin.Y+amount),
		Size:   Sz(max(b.Size.Width-2*amount, 0), max(b.Size.Height-2*amount, 0)),
	}
}

// spaceKind discriminates AvailableSpace.
type spaceKind uint8

const (
	spaceDefinite spaceKind = iota
	spaceMinContent
	spaceMaxContent
)

// AvailableSpace is the space a layout pass offers along one axis.
type AvailableSpace struct {
	kind  spaceKind
	value Pixels
}

// Definite returns a fixed amount of available space.
func Definite(v Pixels) AvailableSpace {
	return AvailableSpace{kind: spaceDefinite, value: v}
}

// MinContent asks for the smallest size the content can take.
var MinContent = AvailableSpace{kind: spaceMinContent}

// MaxContent asks for the size the content takes when unconstrained.
var MaxContent = AvailableSpace{kind: spaceMaxContent}

// Definite returns the pixel value if the space is definite.
func (a AvailableSpace) Definite() (Pixels, bool) {
	if a.kind != spaceDefinite {
		return 0, false
	}
	return a.value, true
}

// String returns a readable form of the space.
func (a AvailableSpace) String() string {
	switch a.kind {
	case spaceMinContent:
		return "min-content"
	case spaceMaxContent:
		return "max-content"
	default:
		return a.value.String()
	}
}

// AvailableSize is the available space per axis.
type AvailableSize struct {
	Width  AvailableSpace
	Height AvailableSpace
}

// KnownDimensions are dimensions the layout pass has already fixed.
type KnownDimensions struct {
	Width  MaybePixels
	Height MaybePixels
}

// ResolveWidth returns the known width if present, else the definite available width.
func ResolveWidth(known KnownDimensions, available AvailableSize) MaybePixels {
	if known.Width.Valid {
		return known.Width
	}
	if w, ok := available.Width.Definite(); ok {
		return Some(w)
	}
	return None
}
