// Package chart projects a window of quotes into the pixel geometry of a
// time-share price line: the line itself, the closed area beneath it, and the
// marker on the most recent quote.
package chart

import (
	"gioui.org/f32"
	"git.sr.ht/~whereswaldon/timeshare/geom"
	"git.sr.ht/~whereswaldon/timeshare/quote"
)

// DefaultIndicatorDiameter is the side length of the last-quote marker.
const DefaultIndicatorDiameter float32 = 6

// Range is a half-open interval [Start,End) of quote indices.
type Range struct {
	Start, End int
}

// Empty reports whether r contains no indices.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Len returns the number of indices in r.
func (r Range) Len() int {
	return max(r.End-r.Start, 0)
}

// Contains reports whether i is within r.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// clamp limits r to [0,n). An inverted range collapses to an empty one.
func (r Range) clamp(n int) Range {
	out := Range{
		Start: geom.Clamp(r.Start, 0, n),
		End:   geom.Clamp(r.End, 0, n),
	}
	out.End = max(out.End, out.Start)
	return out
}

// Layout maps quote indices and prices into pixel coordinates. Both mappings
// must be monotonic and free of side effects for the duration of a projection.
type Layout interface {
	// QuoteMidX returns the horizontal center of the quote at index.
	QuoteMidX(index int) float32
	// YOffset returns the vertical pixel position of price.
	YOffset(price float64) float32
}

// Context is everything a projection reads. It is not retained.
type Context struct {
	Data         []quote.Quote
	VisibleRange Range
	Layout       Layout
	// ContentRect is the area of the chart that quotes are laid out within.
	ContentRect geom.Rect
}

// Projection is the geometry of one frame of the chart. All paths and the
// indicator are in the local space of Frame, whose origin sits at the
// horizontal center of the first quote of Window and the top of the content
// rectangle.
type Projection struct {
	// Visible is false when there is nothing to draw. No other field is
	// meaningful in that case.
	Visible bool
	// Window is the visible range widened by one quote on each side and
	// clamped to the data.
	Window Range
	// Frame is the pixel span of Window in the coordinates of the content
	// rectangle's parent.
	Frame geom.Rect
	// Line has exactly one point per quote of Window.
	Line geom.Path
	// Mask is Line closed down to the bottom edge and back to the left edge
	// of the frame.
	Mask geom.Path
	// IndicatorVisible is true when the latest quote is on screen.
	IndicatorVisible bool
	Indicator        geom.Rect
}

// Projector converts a Context into a Projection.
type Projector struct {
	IndicatorDiameter float32
}

// NewProjector returns a projector with the default indicator size.
func NewProjector() Projector {
	return Projector{IndicatorDiameter: DefaultIndicatorDiameter}
}

// Project computes the chart geometry for ctx.
func (p Projector) Project(ctx Context) Projection {
	n := len(ctx.Data)
	visible := ctx.VisibleRange.clamp(n)
	if ctx.VisibleRange.Empty() || visible.Empty() || ctx.Layout == nil {
		return Projection{}
	}
	window := Range{
		Start: max(0, visible.Start-1),
		End:   min(n, visible.End+1),
	}
	minX := ctx.Layout.QuoteMidX(window.Start)
	maxX := ctx.Layout.QuoteMidX(window.End - 1)
	minY := ctx.ContentRect.Min.Y
	frame := geom.Rect{
		Min: f32.Pt(minX, minY),
		Max: f32.Pt(maxX, ctx.ContentRect.Max.Y),
	}
	width, height := frame.Dx(), frame.Dy()

	point := func(index int) f32.Point {
		return f32.Pt(
			ctx.Layout.QuoteMidX(index)-minX,
			ctx.Layout.YOffset(ctx.Data[index].Close)-minY,
		)
	}

	line := make([]f32.Point, 0, window.Len())
	for i := window.Start; i < window.End; i++ {
		line = append(line, point(i))
	}
	mask := make([]f32.Point, 0, len(line)+3)
	mask = append(mask, line...)
	mask = append(mask,
		f32.Pt(width, height),
		f32.Pt(0, height),
		f32.Pt(0, 0),
	)

	proj := Projection{
		Visible: true,
		Window:  window,
		Frame:   frame,
		Line:    geom.Path{Points: line},
		Mask:    geom.Path{Points: mask, Closed: true},
	}
	// Only the unwidened range decides whether "now" is on screen.
	if ctx.VisibleRange.Contains(n - 1) {
		d := p.diameter()
		center := point(n - 1)
		proj.IndicatorVisible = true
		proj.Indicator = geom.RectXYWH(center.X-d/2, center.Y-d/2, d, d)
	}
	return proj
}

func (p Projector) diameter() float32 {
	if p.IndicatorDiameter <= 0 {
		return DefaultIndicatorDiameter
	}
	return p.IndicatorDiameter
}

// Project computes ctx with the default projector.
func Project(ctx Context) Projection {
	return NewProjector().Project(ctx)
}
