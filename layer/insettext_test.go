package layer

import (
	"image"
	"image/color"
	"testing"

	"gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/text"
	"gioui.org/unit"
	"git.sr.ht/~whereswaldon/timeshare/geom"
	"git.sr.ht/~whereswaldon/timeshare/textbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testShaper() *text.Shaper {
	return text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
}

func TestInsetTextFrame(t *testing.T) {
	l := NewInsetText(nil, layout.Inset{Top: 1, Left: 2, Bottom: 3, Right: 4})
	l.Frame = geom.RectXYWH(50, 60, 100, 20)
	assert.Equal(t, geom.RectXYWH(2, 1, 94, 16), l.TextFrame())

	l.SetMetric(unit.Metric{PxPerDp: 2, PxPerSp: 2})
	assert.Equal(t, geom.RectXYWH(4, 2, 88, 12), l.TextFrame(), "padding scales with pixel density")
}

func TestInsetTextSizeToFit(t *testing.T) {
	gtx := testGtx()
	shaper := testShaper()
	insets := layout.Inset{Top: 2, Left: 4, Bottom: 2, Right: 4}
	l := NewInsetText(shaper, insets)
	l.SetMetric(gtx.Metric)
	l.TextSize = 12
	l.Text = "101.25"
	l.Frame = geom.RectXYWH(10, 20, 1, 1)

	l.SizeToFit(gtx)
	m := textbox.ShaperMeasurer{Shaper: shaper, TextSize: 12}
	raw := m.Measure(gtx, l.Text, image.Pt(textbox.Unbounded, textbox.Unbounded))
	assert.Equal(t, float32(10), l.Frame.Min.X, "sizing keeps the origin")
	assert.Equal(t, float32(20), l.Frame.Min.Y, "sizing keeps the origin")
	assert.Equal(t, float32(raw.X+8), l.Frame.Dx())
	assert.Equal(t, float32(raw.Y+4), l.Frame.Dy())
	assert.Equal(t, float32(raw.X), l.TextFrame().Dx())

	natural := l.SizeThatFits(gtx, image.Pt(textbox.Unbounded, textbox.Unbounded))
	assert.Equal(t, image.Pt(raw.X+8, raw.Y+4), natural)
}

func TestInsetTextSnapshot(t *testing.T) {
	src := NewInsetText(testShaper(), layout.UniformInset(3))
	src.SetMetric(unit.Metric{PxPerDp: 1.5, PxPerSp: 1.5})
	src.Frame = geom.RectXYWH(1, 2, 80, 20)
	src.Font = font.Font{Weight: font.Bold}
	src.TextSize = 14
	src.TextColor = color.NRGBA{R: 0xff, A: 0xff}
	src.Text = "99.5"
	src.Alignment = text.End
	src.Background = color.NRGBA{B: 0xff, A: 0x80}
	src.CornerRadius = 2
	src.BorderWidth = 1
	src.BorderColor = color.NRGBA{G: 0xff, A: 0xff}
	src.ZPosition = 5

	dup := NewInsetTextFrom(src)
	require.Equal(t, src, dup)
	assert.Equal(t, src.Insets(), dup.Insets())
	assert.Equal(t, src.Metric(), dup.Metric())
	assert.Equal(t, src.TextFrame(), dup.TextFrame())
	assert.Same(t, src.Shaper, dup.Shaper)

	dup.Text = "changed"
	dup.Frame = geom.Rect{}
	assert.Equal(t, "99.5", src.Text)
	assert.Equal(t, geom.RectXYWH(1, 2, 80, 20), src.Frame)
	assert.Equal(t, src, src.Clone())
}

func TestInsetTextSnapshotWrongType(t *testing.T) {
	assert.Panics(t, func() { NewInsetTextFrom(NewTimeShare(DefaultOptions())) })
	assert.Panics(t, func() { NewInsetTextFrom("label") })
}

func TestInsetTextPaint(t *testing.T) {
	gtx := testGtx()
	l := NewInsetText(testShaper(), layout.UniformInset(2))
	l.Layout(gtx)
	l.Text = "100.00"
	l.Background = lineColor
	l.CornerRadius = 2
	l.SizeToFit(gtx)
	dims := l.Layout(gtx)
	assert.Equal(t, l.Frame.Image().Max, dims.Size)
}
