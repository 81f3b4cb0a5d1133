package backend

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectToRead(t *testing.T, reader io.Reader, expected string) {
	t.Helper()
	var scratch [1024]byte
	n, err := reader.Read(scratch[:])
	require.NoError(t, err)
	assert.Equal(t, expected, string(scratch[:n]))
}

func expectReadEOF(t *testing.T, reader io.Reader) {
	t.Helper()
	var scratch [1024]byte
	n, err := reader.Read(scratch[:])
	require.ErrorIs(t, err, io.EOF)
	assert.Zero(t, n, "read %q", scratch[:n])
}

func TestLineReader(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	first := "hello\n"
	second := "there\n"
	buf.WriteString("hello\n")
	buf.WriteString("there\n")
	l := NewLineReader(buf)
	expectToRead(t, l, first)
	expectToRead(t, l, second)
	third := "unterminated"
	buf.WriteString(third)
	expectReadEOF(t, l)
	fourth := "line\n"
	buf.WriteString(fourth)
	expectToRead(t, l, third+fourth)
	buf.WriteString("foo")
	expectReadEOF(t, l)
	buf.WriteString("bar")
	expectReadEOF(t, l)
	buf.WriteString("bin\nbaz")
	expectToRead(t, l, "foobarbin\n")
}

func TestLineReaderShortBuffer(t *testing.T) {
	l := NewLineReader(bytes.NewBufferString("1700000000, 1, 2\n"))
	var out []byte
	scratch := make([]byte, 4)
	for {
		n, err := l.Read(scratch)
		out = append(out, scratch[:n]...)
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			break
		}
	}
	assert.Equal(t, "1700000000, 1, 2\n", string(out), "a line longer than the buffer survives intact")
}
