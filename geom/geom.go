// Package geom holds the float geometry shared by the chart projector and the
// layers that draw its output.
package geom

import (
	"image"

	"gioui.org/f32"
	"gioui.org/op"
	"gioui.org/op/clip"
)

// Rect is an axis-aligned rectangle in float pixel space. Min is inclusive and
// Max exclusive, matching image.Rectangle.
type Rect struct {
	Min, Max f32.Point
}

// RectXYWH builds a rectangle from its origin and size.
func RectXYWH(x, y, w, h float32) Rect {
	return Rect{Min: f32.Pt(x, y), Max: f32.Pt(x+w, y+h)}
}

// FromImage converts an integer rectangle.
func FromImage(r image.Rectangle) Rect {
	return Rect{
		Min: f32.Pt(float32(r.Min.X), float32(r.Min.Y)),
		Max: f32.Pt(float32(r.Max.X), float32(r.Max.Y)),
	}
}

func (r Rect) Dx() float32 { return r.Max.X - r.Min.X }
func (r Rect) Dy() float32 { return r.Max.Y - r.Min.Y }

// Size returns the width and height of r.
func (r Rect) Size() f32.Point {
	return f32.Pt(r.Dx(), r.Dy())
}

// Bounds returns r translated to the origin, the local coordinate space of a
// layer whose frame is r.
func (r Rect) Bounds() Rect {
	return Rect{Max: r.Size()}
}

// Add translates r by p.
func (r Rect) Add(p f32.Point) Rect {
	return Rect{Min: r.Min.Add(p), Max: r.Max.Add(p)}
}

// Deflate shrinks r by the given edge amounts. The result never has a
// negative size.
func (r Rect) Deflate(top, left, bottom, right float32) Rect {
	out := Rect{
		Min: f32.Pt(r.Min.X+left, r.Min.Y+top),
		Max: f32.Pt(r.Max.X-right, r.Max.Y-bottom),
	}
	out.Max.X = max(out.Max.X, out.Min.X)
	out.Max.Y = max(out.Max.Y, out.Min.Y)
	return out
}

// Center returns the midpoint of r.
func (r Rect) Center() f32.Point {
	return f32.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

// Empty reports whether r encloses no area.
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Image rounds r outward to an integer rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(floor(r.Min.X), floor(r.Min.Y), ceil(r.Max.X), ceil(r.Max.Y))
}

// Path is a sequence of straight segments. The first point is the pen
// position of a MoveTo; every following point is a LineTo.
type Path struct {
	Points []f32.Point
	Closed bool
}

// Len returns the number of points in p.
func (p Path) Len() int {
	return len(p.Points)
}

// Bounds returns the smallest rectangle containing every point of p.
func (p Path) Bounds() Rect {
	if len(p.Points) == 0 {
		return Rect{}
	}
	b := Rect{Min: p.Points[0], Max: p.Points[0]}
	for _, pt := range p.Points[1:] {
		b.Min.X = min(b.Min.X, pt.X)
		b.Min.Y = min(b.Min.Y, pt.Y)
		b.Max.X = max(b.Max.X, pt.X)
		b.Max.Y = max(b.Max.Y, pt.Y)
	}
	return b
}

// Clone returns a copy of p that shares no memory with it.
func (p Path) Clone() Path {
	if p.Points == nil {
		return Path{Closed: p.Closed}
	}
	points := make([]f32.Point, len(p.Points))
	copy(points, p.Points)
	return Path{Points: points, Closed: p.Closed}
}

// Spec records p as a Gio path. It reports false when p has too few points
// to describe any segment.
func (p Path) Spec(ops *op.Ops) (clip.PathSpec, bool) {
	if len(p.Points) < 2 {
		return clip.PathSpec{}, false
	}
	var cp clip.Path
	cp.Begin(ops)
	cp.MoveTo(p.Points[0])
	for _, pt := range p.Points[1:] {
		cp.LineTo(pt)
	}
	if p.Closed {
		cp.Close()
	}
	return cp.End(), true
}
