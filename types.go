// Package triptych implements the paging core of an e-book reading surface.
// It keeps at most three adjacent page views alive around the current page,
// lays them out side by side on a horizontally paging surface and turns drag
// gestures into committed page changes.
package triptych

import "math"

// Vec2 is a size or position in pixels.
type Vec2 struct {
	X, Y float32
}

// Empty reports whether either dimension is zero or negative.
func (v Vec2) Empty() bool {
	return v.X <= 0 || v.Y <= 0
}

// Rect is an axis-aligned rectangle; X, Y is its top-left corner.
type Rect struct {
	X, Y float32
	W, H float32
}

// Size returns the rectangle's extent.
func (r Rect) Size() Vec2 {
	return Vec2{X: r.W, Y: r.H}
}

// Intersects reports whether r and o share any area. Touching edges do not
// count.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Vertex is one corner of a quad. The layout is uploaded to the GPU as is:
// position, texture coordinate, packed color.
type Vertex struct {
	Pos      [2]float32
	TexCoord [2]float32
	Color    uint32
}

// DrawCmd is a run of indices sharing a texture and a clip rectangle.
type DrawCmd struct {
	ElemCount    uint32
	ClipRect     [4]float32 // x1, y1, x2, y2 in pixels
	TextureID    uint32     // 0 draws untextured
	VertexOffset uint32     // Added to every index of the run
	IndexOffset  uint32
}

// Packed colors are 0xAABBGGRR so they can be uploaded as normalized bytes.
const (
	ColorTransparent uint32 = 0
	ColorBlack       uint32 = 0xFF000000
	ColorWhite       uint32 = 0xFFFFFFFF
	ColorDarkGray    uint32 = 0xFF404040
	ColorGray        uint32 = 0xFF808080
)

// RGBA packs 8-bit channels into a color.
func RGBA(r, g, b, a uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}

// UnpackRGBA splits a packed color into its channels.
func UnpackRGBA(c uint32) (r, g, b, a uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
}

func clamp(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}

func abs32(x float32) float32 {
	return float32(math.Abs(float64(x)))
}

// roundHalfAway rounds to the nearest integer, halves away from zero.
func roundHalfAway(x float32) int {
	return int(math.Round(float64(x)))
}
