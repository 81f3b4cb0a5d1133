package feed

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"git.sr.ht/~whereswaldon/timeshare/config"
	"git.sr.ht/~whereswaldon/timeshare/quote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorWalk(t *testing.T) {
	cfg := config.Default().Feed
	g := NewGenerator(cfg, 42)
	start := time.Unix(1_700_000_000, 0)
	prev := cfg.StartPrice
	for i := range 500 {
		q := g.Next(start.Add(time.Duration(i) * time.Second))
		assert.InDelta(t, prev, q.Open, 1e-4, "quote %d opens at the previous close", i)
		assert.LessOrEqual(t, q.Low, min(q.Open, q.Close))
		assert.GreaterOrEqual(t, q.High, max(q.Open, q.Close))
		assert.Positive(t, q.Close)
		require.True(t, q.Bid.IsSome())
		require.True(t, q.Sell.IsSome())
		assert.Less(t, q.Bid.Unwrap(), q.Sell.Unwrap())
		prev = q.Close
	}
}

func TestGeneratorSeeded(t *testing.T) {
	cfg := config.Default().Feed
	a, b := NewGenerator(cfg, 7), NewGenerator(cfg, 7)
	ts := time.Unix(0, 0)
	for range 10 {
		assert.Equal(t, a.Next(ts), b.Next(ts))
	}
}

func TestGeneratorNoSpread(t *testing.T) {
	cfg := config.Default().Feed
	cfg.Spread = 0
	q := NewGenerator(cfg, 1).Next(time.Unix(0, 0))
	assert.True(t, q.Bid.IsNone())
	assert.True(t, q.Sell.IsNone())
}

func TestRunCount(t *testing.T) {
	var buf bytes.Buffer
	g := NewGenerator(config.Default().Feed, 3)
	require.NoError(t, g.Run(context.Background(), quote.NewWriter(&buf), time.Millisecond, 5))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 6)
	assert.Equal(t, quote.Header, recs[0])
	for _, rec := range recs[1:] {
		_, err := quote.ParseRecord(rec)
		assert.NoError(t, err)
	}
}

func TestRunCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	g := NewGenerator(config.Default().Feed, 3)
	require.NoError(t, g.Run(ctx, quote.NewWriter(&buf), time.Hour, 0))
	assert.Zero(t, buf.Len())
}
