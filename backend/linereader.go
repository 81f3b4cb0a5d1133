package backend

import (
	"bufio"
	"io"
)

// lineReader is a specialized reader that ensures only entire newline-delimited lines are
// read at a time. This is useful when attempting to parse a file that is being actively
// written to as a CSV, as you don't actually attempt to parse any partial lines.
type lineReader struct {
	r       *bufio.Reader
	partial []byte
}

var _ io.Reader = (*lineReader)(nil)

func NewLineReader(r io.Reader) *lineReader {
	return &lineReader{
		r: bufio.NewReader(r),
	}
}

// Read returns at most one line. A trailing unterminated line is held back
// and io.EOF returned until the rest of it arrives.
func (l *lineReader) Read(b []byte) (int, error) {
	if n := len(l.partial); n > 0 && l.partial[n-1] == '\n' {
		return l.drain(b, nil), nil
	}
	data, err := l.r.ReadBytes(byte('\n'))
	if err != nil {
		l.partial = append(l.partial, data...)
		return 0, io.EOF
	}
	return l.drain(b, data), nil
}

// drain copies the held-back bytes followed by data into b, keeping whatever
// does not fit for the next call.
func (l *lineReader) drain(b, data []byte) int {
	data = append(l.partial, data...)
	n := copy(b, data)
	l.partial = append([]byte(nil), data[n:]...)
	return n
}
