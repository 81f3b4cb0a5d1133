// Package quote defines the price samples drawn by the chart and the CSV
// format they travel in between the feed and the viewer.
package quote

import (
	"time"

	"github.com/moznion/go-optional"
)

// Quote is one time-ordered price sample. Only Close and the quote's position
// within its sequence are used to draw the price line; the remaining fields are
// carried for other consumers.
type Quote struct {
	Timestamp time.Time
	Low       float64
	High      float64
	Open      float64
	Close     float64
	Volume    float64
	Bid       optional.Option[float64]
	Sell      optional.Option[float64]
}

// Closes returns the close price of every quote in qs.
func Closes(qs []Quote) []float64 {
	out := make([]float64, len(qs))
	for i, q := range qs {
		out[i] = q.Close
	}
	return out
}
