// Package feed generates synthetic intraday quotes.
package feed

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"git.sr.ht/~whereswaldon/timeshare/config"
	"git.sr.ht/~whereswaldon/timeshare/quote"
	"github.com/moznion/go-optional"
)

// Generator produces a random walk of quotes. Each quote opens at the
// previous close.
type Generator struct {
	rng        *rand.Rand
	price      float64
	volatility float64
	spread     float64
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(cfg config.FeedConfig, seed uint64) *Generator {
	return &Generator{
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		price:      cfg.StartPrice,
		volatility: cfg.Volatility,
		spread:     cfg.Spread,
	}
}

func round(v float64) float64 {
	return math.Round(v*10_000) / 10_000
}

// Next returns the quote for the interval ending at ts.
func (g *Generator) Next(ts time.Time) quote.Quote {
	open := g.price
	closePrice := open * (1 + g.volatility*g.rng.NormFloat64())
	// Prices stay positive however unlucky the walk.
	closePrice = max(closePrice, 0.0001)
	wick := func() float64 {
		return 1 + math.Abs(g.volatility*g.rng.NormFloat64())/2
	}
	q := quote.Quote{
		Timestamp: ts,
		Open:      round(open),
		Close:     round(closePrice),
		High:      round(max(open, closePrice) * wick()),
		Low:       round(min(open, closePrice) / wick()),
		Volume:    math.Round(g.rng.Float64() * 1000),
	}
	if g.spread > 0 {
		q.Bid = optional.Some(round(q.Close - g.spread/2))
		q.Sell = optional.Some(round(q.Close + g.spread/2))
	}
	g.price = closePrice
	return q
}

// Run writes a quote to w every interval until ctx is cancelled or, when
// count is positive, count quotes have been written.
func (g *Generator) Run(ctx context.Context, w *quote.Writer, interval time.Duration, count int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for written := 0; count <= 0 || written < count; written++ {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticker.C:
			if err := w.Write(g.Next(t)); err != nil {
				return err
			}
		}
	}
	return nil
}
