package chart

import (
	"testing"

	"git.sr.ht/~whereswaldon/timeshare/geom"
	"git.sr.ht/~whereswaldon/timeshare/quote"
	"github.com/stretchr/testify/assert"
)

func TestLinearMapping(t *testing.T) {
	l := Linear{
		ContentRect: geom.RectXYWH(10, 20, 100, 50),
		Step:        10,
		PriceMin:    100,
		PriceMax:    200,
	}
	assert.Equal(t, float32(15), l.QuoteMidX(0))
	assert.Equal(t, float32(35), l.QuoteMidX(2))
	assert.Equal(t, float32(70), l.YOffset(100), "lowest price sits on the bottom edge")
	assert.Equal(t, float32(20), l.YOffset(200), "highest price sits on the top edge")
	assert.Equal(t, float32(45), l.YOffset(150))

	l.Offset = -20
	assert.Equal(t, float32(15), l.QuoteMidX(2))

	flat := Linear{ContentRect: geom.RectXYWH(0, 0, 10, 10), PriceMin: 5, PriceMax: 5}
	assert.Equal(t, float32(10), flat.YOffset(5), "a degenerate price span must not divide by zero")
}

func TestLinearVisibleRange(t *testing.T) {
	type testcase struct {
		name   string
		offset float32
		count  int
		want   Range
	}
	for _, tc := range []testcase{
		{name: "all fit", offset: 0, count: 5, want: Range{Start: 0, End: 5}},
		{name: "scrolled to newest", offset: -50, count: 15, want: Range{Start: 5, End: 15}},
		{name: "partial quotes on both edges", offset: -55, count: 20, want: Range{Start: 5, End: 16}},
		{name: "no quotes", offset: 0, count: 0, want: Range{}},
		{name: "scrolled past the data", offset: 500, count: 20, want: Range{Start: 0, End: 0}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			l := Linear{ContentRect: geom.RectXYWH(0, 0, 100, 100), Step: 10, Offset: tc.offset}
			assert.Equal(t, tc.want, l.VisibleRange(tc.count))
		})
	}
}

func TestLinearFollowOffset(t *testing.T) {
	l := Linear{ContentRect: geom.RectXYWH(0, 0, 100, 100), Step: 10}
	l.Offset = l.FollowOffset(30)
	assert.Equal(t, float32(-200), l.Offset)
	r := l.VisibleRange(30)
	assert.Equal(t, Range{Start: 20, End: 30}, r)
	assert.True(t, r.Contains(29))
}

func TestPriceDomain(t *testing.T) {
	qs := []quote.Quote{{Close: 5}, {Close: 2}, {Close: 9}, {Close: 4}}
	lo, hi := PriceDomain(qs, Range{Start: 0, End: 4})
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 9.0, hi)

	lo, hi = PriceDomain(qs, Range{Start: 3, End: 10})
	assert.Equal(t, 3.5, lo)
	assert.Equal(t, 4.5, hi)

	lo, hi = PriceDomain(nil, Range{Start: 0, End: 4})
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
}
