package layer

import (
	"fmt"
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"git.sr.ht/~whereswaldon/timeshare/geom"
	"git.sr.ht/~whereswaldon/timeshare/textbox"
)

// InsetText is a text label drawn inside fixed padding. The padding is set at
// construction and never changes.
type InsetText struct {
	Base
	Shaper    *text.Shaper
	Font      font.Font
	TextSize  unit.Sp
	TextColor color.NRGBA
	Text      string
	Alignment text.Alignment

	insets layout.Inset
	metric unit.Metric
}

var _ Layer = (*InsetText)(nil)

// NewInsetText returns an empty label with the given padding.
func NewInsetText(shaper *text.Shaper, insets layout.Inset) *InsetText {
	return &InsetText{
		Shaper:    shaper,
		TextSize:  10,
		TextColor: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		insets:    insets,
	}
}

// Insets returns the padding around the text.
func (l *InsetText) Insets() layout.Inset {
	return l.insets
}

// SetMetric sets the pixel density used to convert the padding into pixels.
func (l *InsetText) SetMetric(m unit.Metric) {
	l.metric = m
}

// Metric returns the pixel density of the label.
func (l *InsetText) Metric() unit.Metric {
	return l.metric
}

// TextFrame is the area the text is laid out in: the bounds of the label less
// its padding.
func (l *InsetText) TextFrame() geom.Rect {
	m := l.metric
	return l.Frame.Bounds().Deflate(
		float32(m.Dp(l.insets.Top)),
		float32(m.Dp(l.insets.Left)),
		float32(m.Dp(l.insets.Bottom)),
		float32(m.Dp(l.insets.Right)),
	)
}

func (l *InsetText) sizer() textbox.Sizer {
	return textbox.Sizer{
		Insets: l.insets,
		Measurer: textbox.ShaperMeasurer{
			Shaper:   l.Shaper,
			Font:     l.Font,
			TextSize: l.TextSize,
		},
	}
}

// measureContext returns gtx converted to the label's own pixel density.
func (l *InsetText) measureContext(gtx layout.Context) layout.Context {
	gtx.Metric = l.metric
	return gtx
}

// SizeThatFits returns the size the label needs to show its text within
// bound. Use textbox.Unbounded for a dimension with no limit.
func (l *InsetText) SizeThatFits(gtx layout.Context, bound image.Point) image.Point {
	return l.sizer().FitWithin(l.measureContext(gtx), bound, l.Text)
}

// SizeToFit resizes the label, keeping its origin, to exactly hold its text
// and padding without wrapping.
func (l *InsetText) SizeToFit(gtx layout.Context) {
	size := l.sizer().NaturalFit(l.measureContext(gtx), l.Text)
	l.Frame = geom.RectXYWH(l.Frame.Min.X, l.Frame.Min.Y, float32(size.X), float32(size.Y))
}

func (l *InsetText) paintContent(gtx layout.Context) {
	if len(l.Text) == 0 || l.Shaper == nil {
		return
	}
	tf := l.TextFrame()
	defer op.Affine(f32.Affine2D{}.Offset(tf.Min)).Push(gtx.Ops).Pop()
	colMacro := op.Record(gtx.Ops)
	paint.ColorOp{Color: l.TextColor}.Add(gtx.Ops)
	textMaterial := colMacro.Stop()
	gtx.Constraints = layout.Exact(image.Pt(int(tf.Dx()), int(tf.Dy())))
	widget.Label{Alignment: l.Alignment}.Layout(gtx, l.Shaper, l.Font, l.TextSize, l.Text, textMaterial)
}

// Layout paints the label.
func (l *InsetText) Layout(gtx layout.Context) layout.Dimensions {
	Paint(gtx, l)
	return layout.Dimensions{Size: l.Frame.Image().Max}
}

// Clone returns a snapshot of l.
func (l *InsetText) Clone() *InsetText {
	return NewInsetTextFrom(l)
}

// NewInsetTextFrom builds a snapshot copy of src. src must be an *InsetText;
// anything else is a programming error and panics.
func NewInsetTextFrom(src any) *InsetText {
	s, ok := src.(*InsetText)
	if !ok || s == nil {
		panic(fmt.Sprintf("layer: cannot snapshot %T as an *InsetText", src))
	}
	l := NewInsetText(s.Shaper, s.insets)
	l.Base.copyFrom(&s.Base)
	l.metric = s.metric
	l.Font = s.Font
	l.TextSize = s.TextSize
	l.TextColor = s.TextColor
	l.Text = s.Text
	l.Alignment = s.Alignment
	return l
}
