// Package layer implements a small retained layer tree on top of Gio's
// immediate-mode ops. Layers keep their properties between frames and are
// converted into ops by Paint. Nothing is animated: a property change is
// visible, exactly as written, in the next frame.
package layer

import (
	"cmp"
	"image"
	"image/color"
	"math"
	"slices"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/x/component"
	"git.sr.ht/~whereswaldon/timeshare/geom"
)

// Shadow is a soft shadow cast by a layer's rounded bounds.
type Shadow struct {
	Color   color.NRGBA
	Radius  float32
	Offset  f32.Point
	Opacity float32
}

// Layer is a node in a layer tree.
type Layer interface {
	base() *Base
	paintContent(gtx layout.Context)
}

// Base holds the properties shared by every layer. Geometry is in pixels;
// Frame is expressed in the coordinate space of the parent layer.
type Base struct {
	Frame         geom.Rect
	Hidden        bool
	Background    color.NRGBA
	CornerRadius  float32
	BorderWidth   float32
	BorderColor   color.NRGBA
	ZPosition     float32
	MasksToBounds bool
	Shadow        Shadow

	sublayers []Layer
}

func (b *Base) base() *Base { return b }

func (b *Base) paintContent(gtx layout.Context) {}

// AddSublayer appends l to the children of b.
func (b *Base) AddSublayer(l Layer) {
	b.sublayers = append(b.sublayers, l)
}

// Sublayers returns the children of b in insertion order.
func (b *Base) Sublayers() []Layer {
	return b.sublayers
}

// copyFrom copies every property of src, leaving the sublayers of b alone.
func (b *Base) copyFrom(src *Base) {
	subs := b.sublayers
	*b = *src
	b.sublayers = subs
}

func (b *Base) bounds() image.Rectangle {
	return b.Frame.Bounds().Image()
}

func (b *Base) radius() int {
	return int(math.Round(float64(b.CornerRadius)))
}

func (b *Base) paintShadow(gtx layout.Context) {
	s := b.Shadow
	if s.Color.A == 0 || s.Opacity <= 0 || s.Radius <= 0 {
		return
	}
	defer op.Affine(f32.Affine2D{}.Offset(s.Offset)).Push(gtx.Ops).Pop()
	style := component.Shadow(pxToDp(gtx, b.CornerRadius), pxToDp(gtx, s.Radius))
	style.AmbientColor = scaleAlpha(s.Color, s.Opacity*.25)
	style.PenumbraColor = scaleAlpha(s.Color, s.Opacity*.35)
	style.UmbraColor = scaleAlpha(s.Color, s.Opacity*.5)
	gtx.Constraints = layout.Exact(b.bounds().Size())
	style.Layout(gtx)
}

func (b *Base) paintBackground(gtx layout.Context) {
	if b.Background.A == 0 {
		return
	}
	paint.FillShape(gtx.Ops, b.Background, clip.UniformRRect(b.bounds(), b.radius()).Op(gtx.Ops))
}

func (b *Base) paintBorder(gtx layout.Context) {
	if b.BorderWidth <= 0 || b.BorderColor.A == 0 {
		return
	}
	rr := clip.UniformRRect(b.bounds(), b.radius())
	paint.FillShape(gtx.Ops, b.BorderColor, clip.Stroke{
		Path:  rr.Path(gtx.Ops),
		Width: b.BorderWidth,
	}.Op())
}

// Paint draws l and its visible sublayers, ordered by ZPosition, into
// gtx.Ops. The ops are expressed in the coordinate space of l's parent.
func Paint(gtx layout.Context, l Layer) {
	b := l.base()
	if b.Hidden {
		return
	}
	defer op.Affine(f32.Affine2D{}.Offset(b.Frame.Min)).Push(gtx.Ops).Pop()
	b.paintShadow(gtx)
	b.paintBackground(gtx)
	if b.MasksToBounds {
		defer clip.UniformRRect(b.bounds(), b.radius()).Push(gtx.Ops).Pop()
	}
	l.paintContent(gtx)
	subs := slices.Clone(b.sublayers)
	slices.SortStableFunc(subs, func(x, y Layer) int {
		return cmp.Compare(x.base().ZPosition, y.base().ZPosition)
	})
	for _, sub := range subs {
		Paint(gtx, sub)
	}
	b.paintBorder(gtx)
}

// Shape draws a path, stroked, filled, or both.
type Shape struct {
	Base
	Path        geom.Path
	StrokeColor color.NRGBA
	FillColor   color.NRGBA
	LineWidth   float32
}

func (s *Shape) copyFrom(src *Shape) {
	s.Base.copyFrom(&src.Base)
	s.Path = src.Path.Clone()
	s.StrokeColor = src.StrokeColor
	s.FillColor = src.FillColor
	s.LineWidth = src.LineWidth
}

func (s *Shape) paintContent(gtx layout.Context) {
	if s.FillColor.A > 0 {
		if spec, ok := s.Path.Spec(gtx.Ops); ok {
			paint.FillShape(gtx.Ops, s.FillColor, clip.Outline{Path: spec}.Op())
		}
	}
	if s.StrokeColor.A > 0 && s.LineWidth > 0 {
		// A single point has no segments and draws nothing.
		if spec, ok := s.Path.Spec(gtx.Ops); ok {
			paint.FillShape(gtx.Ops, s.StrokeColor, clip.Stroke{Path: spec, Width: s.LineWidth}.Op())
		}
	}
}

// Gradient fills its bounds with a two stop linear gradient, optionally
// clipped to the closed path of Mask.
type Gradient struct {
	Base
	Colors [2]color.NRGBA
	// StartPoint and EndPoint are in unit space: (0,0) is the top left of the
	// bounds and (1,1) the bottom right.
	StartPoint, EndPoint f32.Point
	Mask                 *Shape
}

func (g *Gradient) copyFrom(src *Gradient) {
	g.Base.copyFrom(&src.Base)
	g.Colors = src.Colors
	g.StartPoint = src.StartPoint
	g.EndPoint = src.EndPoint
	switch {
	case src.Mask == nil:
		g.Mask = nil
	case g.Mask == nil:
		g.Mask = &Shape{}
		fallthrough
	default:
		g.Mask.copyFrom(src.Mask)
	}
}

func (g *Gradient) paintContent(gtx layout.Context) {
	if g.Colors[0].A == 0 && g.Colors[1].A == 0 {
		return
	}
	if g.Mask != nil {
		if g.Mask.Hidden {
			return
		}
		spec, ok := g.Mask.Path.Spec(gtx.Ops)
		if !ok {
			return
		}
		defer op.Affine(f32.Affine2D{}.Offset(g.Mask.Frame.Min)).Push(gtx.Ops).Pop()
		defer clip.Outline{Path: spec}.Op().Push(gtx.Ops).Pop()
		defer op.Affine(f32.Affine2D{}.Offset(g.Mask.Frame.Min.Mul(-1))).Push(gtx.Ops).Pop()
	}
	size := g.Frame.Size()
	defer clip.Rect(g.bounds()).Push(gtx.Ops).Pop()
	paint.LinearGradientOp{
		Stop1:  f32.Pt(g.StartPoint.X*size.X, g.StartPoint.Y*size.Y),
		Color1: g.Colors[0],
		Stop2:  f32.Pt(g.EndPoint.X*size.X, g.EndPoint.Y*size.Y),
		Color2: g.Colors[1],
	}.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
}

// WithAlpha returns c with its alpha replaced by a in [0,1].
func WithAlpha(c color.NRGBA, a float32) color.NRGBA {
	c.A = uint8(math.Round(float64(geom.Clamp(a, 0, 1)) * 255))
	return c
}

func scaleAlpha(c color.NRGBA, f float32) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * float64(geom.Clamp(f, 0, 1))))
	return c
}

func pxToDp(gtx layout.Context, px float32) unit.Dp {
	scale := gtx.Metric.PxPerDp
	if scale == 0 {
		scale = 1
	}
	return unit.Dp(px / scale)
}
