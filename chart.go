package main

import (
	"image"
	"strconv"

	"gioui.org/gesture"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"git.sr.ht/~whereswaldon/timeshare/chart"
	"git.sr.ht/~whereswaldon/timeshare/config"
	"git.sr.ht/~whereswaldon/timeshare/delegate"
	"git.sr.ht/~whereswaldon/timeshare/geom"
	"git.sr.ht/~whereswaldon/timeshare/layer"
	"git.sr.ht/~whereswaldon/timeshare/quote"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

var pauseIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.AVPause)
	return icon
}()

var playIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.AVPlayArrow)
	return icon
}()

const (
	minZoom = 0.1
	maxZoom = 40
)

// viewport is the horizontal scroll and zoom state of the chart. offset is
// the distance in pixels from the left of the content to the left edge of
// the first quote's slot.
type viewport struct {
	offset    float32
	zoom      float32
	following bool
}

func newViewport() viewport {
	return viewport{zoom: 1, following: true}
}

// step returns the width of one quote at the current zoom.
func (v viewport) step(quoteWidth float32) float32 {
	return quoteWidth * v.zoom
}

// scale multiplies the zoom by factor, keeping the quote under anchor (an x
// offset into the content) in place.
func (v *viewport) scale(factor, anchor, quoteWidth float32) {
	before := v.step(quoteWidth)
	index := (anchor - v.offset) / before
	v.zoom = geom.Clamp(v.zoom*factor, minZoom, maxZoom)
	v.offset = anchor - index*v.step(quoteWidth)
}

// pan moves the content by dx pixels and stops following the newest quote.
func (v *viewport) pan(dx float32) {
	v.following = false
	v.offset += dx
}

// settle brings the offset back into the scrollable span for count quotes in
// a content area width pixels wide. Panning past the newest quote, or having
// every quote fit, resumes following.
func (v *viewport) settle(count int, width, quoteWidth float32) {
	lin := chart.Linear{ContentRect: geom.RectXYWH(0, 0, width, 0), Step: v.step(quoteWidth)}
	follow := lin.FollowOffset(count)
	switch {
	case v.following:
		v.offset = follow
	case follow >= 0 || v.offset < follow:
		v.following = true
		v.offset = follow
	default:
		v.offset = min(v.offset, 0)
	}
}

// ChartView hosts the time-share layer: it turns gestures into a visible
// range, lays out the quotes, and labels the newest visible price.
type ChartView struct {
	cfg    config.Config
	colors config.Colors
	shaper *text.Shaper

	metric unit.Metric
	series *layer.TimeShare
	label  *layer.InsetText

	view      viewport
	zoom      gesture.Scroll
	pan       gesture.Scroll
	followBtn widget.Clickable

	// OnFollowChanged is told whether the view follows the newest quote
	// every time that changes.
	OnFollowChanged delegate.Delegate[bool, struct{}]
}

func NewChartView(cfg config.Config, colors config.Colors, shaper *text.Shaper) *ChartView {
	return &ChartView{
		cfg:    cfg,
		colors: colors,
		shaper: shaper,
		view:   newViewport(),
	}
}

// Following reports whether the view tracks the newest quote.
func (c *ChartView) Following() bool {
	return c.view.following
}

// ensureLayers builds the layers for the pixel density of gtx. Lengths are
// baked into them, so they are rebuilt whenever the density changes.
func (c *ChartView) ensureLayers(gtx C) {
	if c.series != nil && c.metric == gtx.Metric {
		return
	}
	c.metric = gtx.Metric
	c.series = layer.NewTimeShare(c.cfg.ChartOptions(gtx.Metric))
	c.series.SetPalette(c.colors.Line, c.colors.Shadow)

	c.label = layer.NewInsetText(c.shaper, c.cfg.Label.Insets())
	c.label.SetMetric(gtx.Metric)
	c.label.TextSize = unit.Sp(c.cfg.Label.TextSize)
	c.label.TextColor = c.colors.LabelText
	c.label.Background = c.colors.LabelBackground
	c.label.CornerRadius = c.cfg.Label.CornerRadius * pxPerDp(gtx.Metric)
}

func pxPerDp(m unit.Metric) float32 {
	if m.PxPerDp == 0 {
		return 1
	}
	return m.PxPerDp
}

func (c *ChartView) quoteWidth(gtx C) float32 {
	return c.cfg.Chart.QuoteWidth * pxPerDp(gtx.Metric)
}

// Update processes input. content is the plot area.
func (c *ChartView) Update(gtx C, count int, content geom.Rect) {
	wasFollowing := c.view.following
	if c.followBtn.Clicked(gtx) {
		c.view.following = !c.view.following
	}
	qw := c.quoteWidth(gtx)
	if dist := c.zoom.Update(gtx.Metric, gtx.Source, gtx.Now, gesture.Vertical, image.Rect(0, -1e6, 0, 1e6)); dist != 0 {
		proportion := 1 - float32(dist)/max(content.Dy(), 1)
		c.view.scale(proportion, content.Dx(), qw)
	}
	if dist := c.pan.Update(gtx.Metric, gtx.Source, gtx.Now, gesture.Horizontal, image.Rect(-1e6, 0, 1e6, 0)); dist != 0 {
		c.view.pan(-float32(dist))
	}
	c.view.settle(count, content.Dx(), qw)
	if c.view.following != wasFollowing {
		c.OnFollowChanged.Call(c.view.following)
	}
}

// Layout draws quotes into the available space.
func (c *ChartView) Layout(gtx C, th *material.Theme, quotes []quote.Quote) D {
	c.ensureLayers(gtx)
	size := gtx.Constraints.Max
	// Leave room above and below the line for the indicator and the label.
	pad := float32(gtx.Dp(16))
	content := geom.FromImage(image.Rectangle{Max: size}).Deflate(pad, 0, pad, 0)
	c.Update(gtx, len(quotes), content)

	lin := chart.Linear{
		ContentRect: content,
		Step:        c.view.step(c.quoteWidth(gtx)),
		Offset:      c.view.offset,
	}
	visible := lin.VisibleRange(len(quotes))
	lin.PriceMin, lin.PriceMax = chart.PriceDomain(quotes, visible)
	c.series.Update(chart.Context{
		Data:         quotes,
		VisibleRange: visible,
		Layout:       lin,
		ContentRect:  content,
	})

	paint.FillShape(gtx.Ops, c.colors.Background, clip.Rect{Max: size}.Op())
	area := clip.Rect{Max: size}.Push(gtx.Ops)
	c.pan.Add(gtx.Ops)
	c.zoom.Add(gtx.Ops)
	c.series.Layout(gtx)
	c.layoutPriceLabel(gtx, quotes, visible, lin)
	area.Pop()

	c.layoutFollowButton(gtx, th)
	return D{Size: size}
}

// layoutPriceLabel pins the close of the newest visible quote to the right
// edge at the height of that price.
func (c *ChartView) layoutPriceLabel(gtx C, quotes []quote.Quote, visible chart.Range, lin chart.Linear) {
	if visible.Empty() {
		return
	}
	q := quotes[visible.End-1]
	c.label.Text = strconv.FormatFloat(q.Close, 'f', 2, 64)
	c.label.SizeToFit(gtx)
	w, h := c.label.Frame.Dx(), c.label.Frame.Dy()
	y := geom.Clamp(lin.YOffset(q.Close)-h/2, 0, max(float32(gtx.Constraints.Max.Y)-h, 0))
	c.label.Frame = geom.RectXYWH(lin.ContentRect.Max.X-w, y, w, h)
	c.label.Layout(gtx)
}

func rec(gtx C, w layout.Widget) (D, op.CallOp) {
	macro := op.Record(gtx.Ops)
	dims := w(gtx)
	call := macro.Stop()
	return dims, call
}

func (c *ChartView) layoutFollowButton(gtx C, th *material.Theme) D {
	icon := playIcon
	if c.view.following {
		icon = pauseIcon
	}
	margin := gtx.Dp(8)
	side := gtx.Dp(32)
	gtx.Constraints = layout.Exact(image.Pt(side, side))
	dims, call := rec(gtx, func(gtx C) D {
		return material.Clickable(gtx, &c.followBtn, func(gtx C) D {
			return layout.Center.Layout(gtx, func(gtx C) D {
				return icon.Layout(gtx, th.Fg)
			})
		})
	})
	defer op.Offset(image.Pt(margin, margin)).Push(gtx.Ops).Pop()
	call.Add(gtx.Ops)
	return dims
}
