package main

import (
	"errors"
	"testing"

	"git.sr.ht/~whereswaldon/timeshare/backend"
	"git.sr.ht/~whereswaldon/timeshare/quote"
	"github.com/stretchr/testify/assert"
)

func TestStatusText(t *testing.T) {
	type testcase struct {
		name    string
		session backend.Session
		want    string
	}
	for _, tc := range []testcase{
		{
			name:    "following",
			session: backend.Session{Source: "q.csv", Mode: backend.ModeFollowing, Quotes: []quote.Quote{{Close: 1}, {Close: 101.236}}},
			want:    "q.csv: 2 quotes, last 101.24, following",
		},
		{
			name:    "ended with skips",
			session: backend.Session{Source: "stdin", Mode: backend.ModeStreaming, Quotes: []quote.Quote{{Close: 9}}, Skipped: 2, Done: true},
			want:    "stdin: 1 quotes, last 9.00, 2 skipped, ended",
		},
		{
			name:    "empty",
			session: backend.Session{Source: "stdin", Mode: backend.ModeStreaming, Err: errors.New("ignored")},
			want:    "stdin: 0 quotes, streaming",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ui := &UI{session: tc.session}
			assert.Equal(t, tc.want, ui.statusText())
		})
	}
}
