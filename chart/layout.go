package chart

import (
	"math"
	"slices"

	"git.sr.ht/~whereswaldon/timeshare/geom"
	"git.sr.ht/~whereswaldon/timeshare/quote"
)

// Linear lays quotes out left to right at a fixed pitch and maps prices
// linearly onto the height of the content rectangle, higher prices nearer the
// top.
type Linear struct {
	ContentRect geom.Rect
	// Step is the horizontal pitch of one quote in pixels.
	Step float32
	// Offset is the x position, relative to ContentRect.Min.X, of the left
	// edge of quote zero. Scrolling toward older quotes increases it.
	Offset             float32
	PriceMin, PriceMax float64
}

var _ Layout = Linear{}

func (l Linear) QuoteMidX(index int) float32 {
	return l.ContentRect.Min.X + l.Offset + (float32(index)+.5)*l.Step
}

func (l Linear) YOffset(price float64) float32 {
	span := l.PriceMax - l.PriceMin
	if span == 0 {
		span = 1
	}
	proportion := float32((price - l.PriceMin) / span)
	return l.ContentRect.Max.Y - proportion*l.ContentRect.Dy()
}

// VisibleRange returns the quotes of a sequence of count quotes that
// intersect a content area width pixels wide, given l's pitch and offset.
func (l Linear) VisibleRange(count int) Range {
	if count < 1 || l.Step <= 0 {
		return Range{}
	}
	width := l.ContentRect.Dx()
	first := int(math.Floor(float64(-l.Offset / l.Step)))
	last := int(math.Ceil(float64((width - l.Offset) / l.Step)))
	return Range{Start: first, End: last}.clamp(count)
}

// FollowOffset returns the offset that places the newest of count quotes
// flush against the right edge of the content area.
func (l Linear) FollowOffset(count int) float32 {
	return l.ContentRect.Dx() - float32(count)*l.Step
}

// PriceDomain returns the smallest and largest close within r. A range holding
// a single price is widened by half a unit on each side so that it maps onto a
// non-degenerate span.
func PriceDomain(data []quote.Quote, r Range) (lo, hi float64) {
	r = r.clamp(len(data))
	if r.Empty() {
		return 0, 1
	}
	closes := quote.Closes(data[r.Start:r.End])
	lo, hi = slices.Min(closes), slices.Max(closes)
	if lo == hi {
		lo -= .5
		hi += .5
	}
	return lo, hi
}
