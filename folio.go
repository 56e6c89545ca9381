package folio

import (
	"fmt"
	"math"
	"math/rand/v2"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Vec2 is a 2D vector used for positions, offsets, sizes and drift vectors.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Intersection returns the overlapping area of r and other. The result has
// zero width or height when they do not overlap.
func (r Rect) Intersection(other Rect) Rect {
	x0 := math.Max(r.X, other.X)
	y0 := math.Max(r.Y, other.Y)
	x1 := math.Min(r.X+r.Width, other.X+other.Width)
	y1 := math.Min(r.Y+r.Height, other.Y+other.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Area returns Width*Height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{r.X + dx, r.Y + dy, r.Width, r.Height}
}

// Range is a general-purpose min/max range.
// Used by the trail emitter for particle sizes, drifts and spawn delays.
type Range struct {
	Min, Max float64
}

// Random returns a random float64 in [Min, Max] drawn from rng.
// A nil rng uses the package-level source.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	if rng == nil {
		return r.Min + rand.Float64()*(r.Max-r.Min)
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Color represents an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// ParseColor parses a CSS hex color ("#rgb" or "#rrggbb").
func ParseColor(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", hex, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

// Hex formats the color as "#rrggbb", ignoring alpha.
func (c Color) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// Blend interpolates between c and other in CIE-L*a*b* space, which keeps
// the midpoints of the ambient gradient from going muddy.
func (c Color) Blend(other Color, t float64) Color {
	a := colorful.Color{R: c.R, G: c.G, B: c.B}
	b := colorful.Color{R: other.R, G: other.G, B: other.B}
	m := a.BlendLab(b, t).Clamped()
	return Color{R: m.R, G: m.G, B: m.B, A: c.A + (other.A-c.A)*t}
}

// Theme selects the light or dark page theme.
type Theme uint8

const (
	ThemeLight Theme = iota // warm lava palette, upward blobs
	ThemeDark               // monochrome palette, falling digits
)

// String returns "light" or "dark".
func (t Theme) String() string {
	if t == ThemeDark {
		return "dark"
	}
	return "light"
}

// ParseTheme maps "dark" to ThemeDark and everything else to ThemeLight.
func ParseTheme(s string) Theme {
	if s == "dark" {
		return ThemeDark
	}
	return ThemeLight
}

// Language is a locale code such as "en" or "es".
type Language string

// Key identifies a keyboard key delivered through EventKeyDown.
type Key uint8

const (
	KeyNone Key = iota
	KeyEscape
	KeyArrowLeft
	KeyArrowRight
	KeyEnter
	KeySpace
	KeyTab
)

// finite reports whether v is neither NaN nor infinite.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// lerp linearly interpolates between a and b by t. lerp(a, b, 1) is exactly b.
func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}
