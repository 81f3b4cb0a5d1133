package quote

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	type testcase struct {
		name    string
		rec     []string
		want    Quote
		wantErr bool
	}
	for _, tc := range []testcase{
		{
			name: "all fields",
			rec:  []string{"1000", "1.5", "2", "1", "1.75", "300", "1.7", "1.8"},
			want: Quote{
				Timestamp: time.Unix(0, 1000),
				Open:      1.5,
				High:      2,
				Low:       1,
				Close:     1.75,
				Volume:    300,
				Bid:       optional.Some(1.7),
				Sell:      optional.Some(1.8),
			},
		},
		{
			name: "empty bid and sell",
			rec:  []string{"2000", " 1", " 1", " 1", " 1", " 0", "", " "},
			want: Quote{
				Timestamp: time.Unix(0, 2000),
				Open:      1,
				High:      1,
				Low:       1,
				Close:     1,
				Bid:       optional.None[float64](),
				Sell:      optional.None[float64](),
			},
		},
		{
			name: "missing bid and sell columns",
			rec:  []string{"3000", "1", "1", "1", "2", "0"},
			want: Quote{
				Timestamp: time.Unix(0, 3000),
				Open:      1,
				High:      1,
				Low:       1,
				Close:     2,
				Bid:       optional.None[float64](),
				Sell:      optional.None[float64](),
			},
		},
		{
			name:    "short record",
			rec:     []string{"3000", "1"},
			wantErr: true,
		},
		{
			name:    "bad close",
			rec:     []string{"3000", "1", "1", "1", "x", "0"},
			wantErr: true,
		},
		{
			name:    "bad bid",
			rec:     []string{"3000", "1", "1", "1", "1", "0", "nope"},
			wantErr: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRecord(tc.rec)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.want.Timestamp.Equal(got.Timestamp))
			assert.Equal(t, tc.want.Close, got.Close)
			assert.Equal(t, tc.want.Open, got.Open)
			assert.Equal(t, tc.want.Volume, got.Volume)
			assert.Equal(t, tc.want.Bid.IsSome(), got.Bid.IsSome())
			assert.Equal(t, tc.want.Sell.IsSome(), got.Sell.IsSome())
			if tc.want.Bid.IsSome() {
				assert.Equal(t, tc.want.Bid.Unwrap(), got.Bid.Unwrap())
			}
		})
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	q := Quote{
		Timestamp: time.Unix(0, 42),
		Open:      1,
		High:      3,
		Low:       0.5,
		Close:     2.25,
		Volume:    10,
		Bid:       optional.Some(2.2),
		Sell:      optional.None[float64](),
	}
	require.NoError(t, w.Write(q))
	require.NoError(t, w.Write(q))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header must only be written once")
	assert.Equal(t, Header, records[0])

	got, err := ParseRecord(records[1])
	require.NoError(t, err)
	assert.Equal(t, 2.25, got.Close)
	assert.Equal(t, 2.2, got.Bid.Unwrap())
	assert.True(t, got.Sell.IsNone())
}

func TestCloses(t *testing.T) {
	qs := []Quote{{Close: 1}, {Close: 2}, {Close: 3}}
	assert.Equal(t, []float64{1, 2, 3}, Closes(qs))
}
