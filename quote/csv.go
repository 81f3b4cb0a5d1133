package quote

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/moznion/go-optional"
)

// Header is the first record of every quote CSV stream.
var Header = []string{"timestamp (ns)", "open", "high", "low", "close", "volume", "bid", "sell"}

const (
	colTimestamp = iota
	colOpen
	colHigh
	colLow
	colClose
	colVolume
	colBid
	colSell
	numCols
)

// ParseRecord decodes a single CSV record. Bid and sell cells may be empty or
// missing entirely.
func ParseRecord(rec []string) (Quote, error) {
	if len(rec) < colBid {
		return Quote{}, fmt.Errorf("quote record has %d fields, need at least %d", len(rec), colBid)
	}
	ns, err := strconv.ParseInt(strings.TrimSpace(rec[colTimestamp]), 10, 64)
	if err != nil {
		return Quote{}, fmt.Errorf("failed parsing timestamp %q: %w", rec[colTimestamp], err)
	}
	var values [colVolume + 1]float64
	for i := colOpen; i <= colVolume; i++ {
		values[i], err = strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
		if err != nil {
			return Quote{}, fmt.Errorf("failed parsing %s=%q: %w", Header[i], rec[i], err)
		}
	}
	q := Quote{
		Timestamp: time.Unix(0, ns),
		Open:      values[colOpen],
		High:      values[colHigh],
		Low:       values[colLow],
		Close:     values[colClose],
		Volume:    values[colVolume],
	}
	if q.Bid, err = parseOptional(rec, colBid); err != nil {
		return Quote{}, err
	}
	if q.Sell, err = parseOptional(rec, colSell); err != nil {
		return Quote{}, err
	}
	return q, nil
}

func parseOptional(rec []string, col int) (optional.Option[float64], error) {
	if col >= len(rec) {
		return optional.None[float64](), nil
	}
	cell := strings.TrimSpace(rec[col])
	if len(cell) < 1 {
		return optional.None[float64](), nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil, fmt.Errorf("failed parsing %s=%q: %w", Header[col], cell, err)
	}
	return optional.Some(v), nil
}

// Record encodes q in the column order of Header.
func Record(q Quote) []string {
	rec := make([]string, numCols)
	rec[colTimestamp] = strconv.FormatInt(q.Timestamp.UnixNano(), 10)
	rec[colOpen] = formatFloat(q.Open)
	rec[colHigh] = formatFloat(q.High)
	rec[colLow] = formatFloat(q.Low)
	rec[colClose] = formatFloat(q.Close)
	rec[colVolume] = formatFloat(q.Volume)
	if q.Bid.IsSome() {
		rec[colBid] = formatFloat(q.Bid.Unwrap())
	}
	if q.Sell.IsSome() {
		rec[colSell] = formatFloat(q.Sell.Unwrap())
	}
	return rec
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Writer emits quotes as CSV.
type Writer struct {
	w           *csv.Writer
	wroteHeader bool
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w)}
}

// Write emits q, preceded by the header on the first call, and flushes.
func (w *Writer) Write(q Quote) error {
	if !w.wroteHeader {
		if err := w.w.Write(Header); err != nil {
			return fmt.Errorf("failed writing quote header: %w", err)
		}
		w.wroteHeader = true
	}
	if err := w.w.Write(Record(q)); err != nil {
		return fmt.Errorf("failed writing quote: %w", err)
	}
	w.w.Flush()
	return w.w.Error()
}
