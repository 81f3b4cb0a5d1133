package backend

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"git.sr.ht/~gioverse/skel/stream"
	"git.sr.ht/~whereswaldon/timeshare/quote"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type Mode uint8

const (
	ModeNone Mode = iota
	// ModeStreaming reads a source until it ends.
	ModeStreaming
	// ModeFollowing keeps reading a file as it grows.
	ModeFollowing
)

func (m Mode) String() string {
	switch m {
	case ModeStreaming:
		return "streaming"
	case ModeFollowing:
		return "following"
	default:
		return "none"
	}
}

// Session is the state of the quote source at one instant. Quotes is shared
// between sessions and must be treated as read-only.
type Session struct {
	ID      string
	Source  string
	Mode    Mode
	Quotes  []quote.Quote
	Skipped int
	Done    bool
	Err     error
}

// Latest returns the newest quote, if any.
func (s Session) Latest() (quote.Quote, bool) {
	if len(s.Quotes) == 0 {
		return quote.Quote{}, false
	}
	return s.Quotes[len(s.Quotes)-1], true
}

// Datasource reads quotes from CSV sources. Each source is recorded as a
// mutation in a pool keyed by session ID, publishing a Session after every
// change.
type Datasource struct {
	logger    *zap.Logger
	maxQuotes int
	pool      *stream.MutationPool[string, Session]
}

// NewDatasource returns an idle datasource. When maxQuotes is positive only
// the newest maxQuotes quotes are retained.
func NewDatasource(logger *zap.Logger, maxQuotes int, mutator *stream.Mutator) *Datasource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Datasource{
		logger:    logger,
		maxQuotes: maxQuotes,
		pool:      stream.NewMutationPool[string, Session](mutator),
	}
}

// SessionStream delivers every recorded session.
func (d *Datasource) SessionStream(ctx context.Context) <-chan map[string]*stream.Mutation[Session] {
	return d.pool.Stream(ctx)
}

// Stream delivers the state of the newest session, switching to each new
// session as it starts, until ctx is cancelled.
func (d *Datasource) Stream(ctx context.Context) <-chan Session {
	return stream.Multiplex(d.SessionStream(ctx), func(ctx context.Context, current string, mutations map[string]*stream.Mutation[Session]) (<-chan Session, string) {
		id, m := newestSession(mutations)
		if m == nil || id == current {
			return nil, current
		}
		return m.Stream(ctx), id
	})
}

// newestSession picks the mutation with the greatest ID. IDs are fixed-width
// timestamps, so they sort by start time.
func newestSession(mutations map[string]*stream.Mutation[Session]) (string, *stream.Mutation[Session]) {
	var (
		newest string
		found  *stream.Mutation[Session]
	)
	for id, m := range mutations {
		if found == nil || id > newest {
			newest, found = id, m
		}
	}
	return newest, found
}

func generateSessionID() string {
	return strings.Replace(time.Now().UTC().Format("20060102150405.000000000"), ".", "", 1)
}

// recorder accumulates one session and emits a copy after every change.
type recorder struct {
	session   Session
	maxQuotes int
	out       chan<- Session
	// done closes once the mutation is no longer read.
	done <-chan struct{}
}

func (r *recorder) emit() {
	select {
	case r.out <- r.session:
	case <-r.done:
	}
}

// push appends q. Emitted sessions never see their quotes change: appends
// only write past the end of every earlier slice.
func (r *recorder) push(q quote.Quote) {
	quotes := append(r.session.Quotes, q)
	if r.maxQuotes > 0 && len(quotes) > r.maxQuotes {
		quotes = quotes[len(quotes)-r.maxQuotes:]
	}
	r.session.Quotes = quotes
	r.emit()
}

func (r *recorder) skip() {
	r.session.Skipped++
	r.emit()
}

func (r *recorder) finish(err error) {
	r.session.Done = true
	r.session.Err = err
	r.emit()
}

// record runs read as a new session and waits for it to end. The read stops
// when either ctx or the mutator's context is cancelled.
func (d *Datasource) record(ctx context.Context, source string, mode Mode, read func(context.Context, *zap.Logger, *recorder) error) error {
	id := generateSessionID()
	logger := d.logger.With(zap.String("session", id), zap.String("source", source))
	result := make(chan error, 1)
	_, isNew := stream.Mutate(d.pool, id, func(mutCtx context.Context) <-chan Session {
		out := make(chan Session, 1)
		go func() {
			defer close(out)
			readCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			stop := context.AfterFunc(mutCtx, cancel)
			defer stop()

			rec := &recorder{
				session:   Session{ID: id, Source: source, Mode: mode},
				maxQuotes: d.maxQuotes,
				out:       out,
				done:      mutCtx.Done(),
			}
			rec.emit()
			err := read(readCtx, logger, rec)
			rec.finish(err)
			result <- err
		}()
		return out
	})
	if !isNew {
		return fmt.Errorf("session %s is already running", id)
	}
	return <-result
}

// LoadStream reads r until it ends or ctx is cancelled as a new session. It
// returns the error that ended the read, if any.
func (d *Datasource) LoadStream(ctx context.Context, name string, r io.Reader) error {
	return d.record(ctx, name, ModeStreaming, func(ctx context.Context, logger *zap.Logger, rec *recorder) error {
		return readSource(ctx, logger, rec, r, nil)
	})
}

// FollowFile reads the file at path and then keeps reading as it grows, until
// ctx is cancelled.
func (d *Datasource) FollowFile(ctx context.Context, path string) error {
	return d.record(ctx, path, ModeFollowing, func(ctx context.Context, logger *zap.Logger, rec *recorder) error {
		return followFile(ctx, logger, rec, path)
	})
}

func followFile(ctx context.Context, logger *zap.Logger, rec *recorder, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed opening quote file: %w", err)
	}
	defer file.Close()
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed creating file watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("failed watching %q: %w", path, err)
	}
	return readSource(ctx, logger, rec, file, watcher)
}

// waitForWrite blocks until the watched file is written to. It reports false
// when reading should stop.
func waitForWrite(ctx context.Context, logger *zap.Logger, watcher *fsnotify.Watcher) (bool, error) {
	for {
		select {
		case <-ctx.Done():
			return false, nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return false, nil
			}
			if ev.Has(fsnotify.Write) {
				return true, nil
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				logger.Info("quote file went away", zap.String("op", ev.Op.String()))
				return false, nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return false, nil
			}
			return false, fmt.Errorf("file watcher failed: %w", err)
		}
	}
}

// readSource parses quote records from source. When watcher is nil the first
// EOF ends the read; otherwise it waits for the file to grow.
func readSource(ctx context.Context, logger *zap.Logger, rec *recorder, source io.Reader, watcher *fsnotify.Watcher) error {
	bufRead := NewLineReader(source)
	csvReader := csv.NewReader(bufRead)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1
	sawHeader := false
	for {
		if ctx.Err() != nil {
			return nil
		}
		rec, err := csvReader.Read()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				var parseErr *csv.ParseError
				if errors.As(err, &parseErr) {
					logger.Warn("skipping malformed CSV line", zap.Error(err))
					rec.skip()
					continue
				}
				return fmt.Errorf("could not read quote data: %w", err)
			}
			if watcher == nil {
				return nil
			}
			more, err := waitForWrite(ctx, logger, watcher)
			if !more || err != nil {
				return err
			}
			continue
		}
		if !sawHeader {
			sawHeader = true
			if isHeader(rec) {
				continue
			}
		}
		q, err := quote.ParseRecord(rec)
		if err != nil {
			logger.Warn("skipping malformed quote", zap.Error(err))
			rec.skip()
			continue
		}
		rec.push(q)
	}
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.HasPrefix(strings.TrimSpace(rec[0]), "timestamp")
}
