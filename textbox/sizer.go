// Package textbox sizes boxes that hold text surrounded by fixed padding.
package textbox

import (
	"image"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
)

// Unbounded marks a dimension of a size constraint as having no limit.
const Unbounded = 1_000_000

// Measurer reports the size of txt laid out within bound, wrapping lines at
// bound.X.
type Measurer interface {
	Measure(gtx layout.Context, txt string, bound image.Point) image.Point
}

// ShaperMeasurer measures text with a Gio shaper, exactly as a widget.Label
// with the same parameters would lay it out.
type ShaperMeasurer struct {
	Shaper   *text.Shaper
	Font     font.Font
	TextSize unit.Sp
	// MaxLines limits the number of lines. Zero means no limit.
	MaxLines int
}

var _ Measurer = ShaperMeasurer{}

func (m ShaperMeasurer) Measure(gtx layout.Context, txt string, bound image.Point) image.Point {
	gtx.Constraints = layout.Constraints{Max: bound}
	macro := op.Record(gtx.Ops)
	dims := widget.Label{MaxLines: m.MaxLines}.Layout(gtx, m.Shaper, m.Font, m.TextSize, txt, op.CallOp{})
	_ = macro.Stop()
	return dims.Size
}

// Sizer computes the smallest box that holds text plus Insets.
type Sizer struct {
	Insets   layout.Inset
	Measurer Measurer
}

// padding returns the insets in pixels as the total horizontal and vertical
// padding.
func (s Sizer) padding(gtx layout.Context) image.Point {
	return image.Point{
		X: gtx.Dp(s.Insets.Left) + gtx.Dp(s.Insets.Right),
		Y: gtx.Dp(s.Insets.Top) + gtx.Dp(s.Insets.Bottom),
	}
}

// FitWithin returns the size needed to show txt inside a box no larger than
// bound. Each bounded dimension of bound has the padding removed before the text
// is measured, and the padding is added back to the result. A dimension set to
// Unbounded is measured without limit, so the result on that axis is the
// padded natural size.
func (s Sizer) FitWithin(gtx layout.Context, bound image.Point, txt string) image.Point {
	pad := s.padding(gtx)
	box := bound
	if box.X != Unbounded {
		box.X = clampZero(box.X - pad.X)
	}
	if box.Y != Unbounded {
		box.Y = clampZero(box.Y - pad.Y)
	}
	return s.Measurer.Measure(gtx, txt, box).Add(pad)
}

// NaturalFit returns the size of txt laid out without any wrapping constraint,
// plus the padding on all four sides.
func (s Sizer) NaturalFit(gtx layout.Context, txt string) image.Point {
	return s.Measurer.Measure(gtx, txt, image.Pt(Unbounded, Unbounded)).Add(s.padding(gtx))
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
