package layer

import (
	"fmt"
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/layout"
	"git.sr.ht/~whereswaldon/timeshare/chart"
	"git.sr.ht/~whereswaldon/timeshare/geom"
)

// Options are the fixed visual constants of a TimeShare. Lengths are in
// pixels.
type Options struct {
	IndicatorDiameter   float32
	LineWidth           float32
	ShadowRadius        float32
	ShadowOffset        f32.Point
	ShadowOpacity       float32
	GradientAlphaTop    float32
	GradientAlphaBottom float32
}

// DefaultOptions returns the stock time-share look.
func DefaultOptions() Options {
	return Options{
		IndicatorDiameter:   chart.DefaultIndicatorDiameter,
		LineWidth:           1,
		ShadowRadius:        8,
		ShadowOffset:        f32.Pt(0, 1),
		ShadowOpacity:       1,
		GradientAlphaTop:    0.3,
		GradientAlphaBottom: 0.01,
	}
}

// TimeShare draws an intraday price line: a gradient filling the area under
// the line, the line itself, and a dot marking the latest quote.
//
// The hierarchy is fixed at construction:
//
//	TimeShare
//	├── gradient (masked by mask)
//	├── line
//	└── indicatorShadow
//	    └── indicator
type TimeShare struct {
	Base
	opts            Options
	gradient        *Gradient
	mask            *Shape
	line            *Shape
	indicator       *Shape
	indicatorShadow *Shape
}

var _ Layer = (*TimeShare)(nil)

// NewTimeShare builds the layer hierarchy. A diameter or line width that is
// not positive falls back to its default. Every other option is used as
// given, so a zero shadow or gradient alpha turns that effect off.
func NewTimeShare(opts Options) *TimeShare {
	t := &TimeShare{opts: withDefaults(opts)}
	t.configure()
	return t
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.IndicatorDiameter <= 0 {
		opts.IndicatorDiameter = def.IndicatorDiameter
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = def.LineWidth
	}
	return opts
}

func (t *TimeShare) configure() {
	d := t.opts.IndicatorDiameter
	t.mask = &Shape{}
	t.gradient = &Gradient{
		StartPoint: f32.Pt(.5, 0),
		EndPoint:   f32.Pt(.5, 1),
		Mask:       t.mask,
	}
	t.line = &Shape{LineWidth: t.opts.LineWidth}
	t.indicatorShadow = &Shape{
		Base: Base{
			CornerRadius: d / 2,
			Shadow: Shadow{
				Radius:  t.opts.ShadowRadius,
				Offset:  t.opts.ShadowOffset,
				Opacity: t.opts.ShadowOpacity,
			},
		},
	}
	t.indicator = &Shape{
		Base: Base{
			Frame:         geom.RectXYWH(0, 0, d, d),
			CornerRadius:  d / 2,
			MasksToBounds: true,
		},
	}
	t.AddSublayer(t.gradient)
	t.AddSublayer(t.line)
	t.AddSublayer(t.indicatorShadow)
	t.indicatorShadow.AddSublayer(t.indicator)
}

// Options returns the constants t was built with.
func (t *TimeShare) Options() Options {
	return t.opts
}

// SetPalette colors the line, the indicator dot, and the gradient (from the
// line color at the configured alphas), and sets the indicator's shadow color.
func (t *TimeShare) SetPalette(line, shadow color.NRGBA) {
	t.gradient.Colors = [2]color.NRGBA{
		WithAlpha(line, t.opts.GradientAlphaTop),
		WithAlpha(line, t.opts.GradientAlphaBottom),
	}
	t.line.StrokeColor = line
	t.indicator.Background = line
	t.indicatorShadow.Shadow.Color = shadow
}

// Update projects ctx and applies the result.
func (t *TimeShare) Update(ctx chart.Context) {
	p := chart.Projector{IndicatorDiameter: t.opts.IndicatorDiameter}
	t.Apply(p.Project(ctx))
}

// Apply writes a projection into the hierarchy. When there is nothing to draw
// the paths are cleared and the indicator is hidden, so nothing stale remains
// on screen.
func (t *TimeShare) Apply(p chart.Projection) {
	if !p.Visible {
		t.line.Path = geom.Path{}
		t.mask.Path = geom.Path{Closed: true}
		t.indicatorShadow.Hidden = true
		return
	}
	t.Frame = p.Frame
	t.gradient.Frame = p.Frame.Bounds()
	t.line.Path = p.Line
	t.mask.Path = p.Mask
	t.indicatorShadow.Hidden = !p.IndicatorVisible
	if p.IndicatorVisible {
		t.indicatorShadow.Frame = p.Indicator
	}
}

// Layout paints t. Its frame is expressed in the coordinate space of the
// current gtx.
func (t *TimeShare) Layout(gtx layout.Context) layout.Dimensions {
	Paint(gtx, t)
	return layout.Dimensions{Size: gtx.Constraints.Constrain(image.Point{
		X: int(t.Frame.Max.X),
		Y: int(t.Frame.Max.Y),
	})}
}

// Clone returns a snapshot of t that shares no mutable state with it.
func (t *TimeShare) Clone() *TimeShare {
	return NewTimeShareFrom(t)
}

// NewTimeShareFrom builds a snapshot copy of src, copying every property of
// every layer in the hierarchy. src must be a *TimeShare; anything else is a
// programming error and panics.
func NewTimeShareFrom(src any) *TimeShare {
	s, ok := src.(*TimeShare)
	if !ok || s == nil {
		panic(fmt.Sprintf("layer: cannot snapshot %T as a *TimeShare", src))
	}
	t := NewTimeShare(s.opts)
	t.Base.copyFrom(&s.Base)
	t.gradient.copyFrom(s.gradient)
	t.mask = t.gradient.Mask
	t.line.copyFrom(s.line)
	t.indicatorShadow.copyFrom(s.indicatorShadow)
	t.indicator.copyFrom(s.indicator)
	return t
}
