package sse

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/itemo/types"
)

// Reader splits a byte stream into frames on blank lines. Frames may arrive
// in arbitrary chunks.
type Reader struct {
	scanner *bufio.Scanner
}

func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	s.Split(splitFrames)
	return &Reader{scanner: s}
}

// Next returns the next event. Frames without a data line, such as
// comments or keep-alives, are skipped. At the end of the stream it
// returns io.EOF; a trailing partial frame is discarded.
func (r *Reader) Next() (types.StreamEvent, error) {
	for r.scanner.Scan() {
		ev, err := Decode(r.scanner.Bytes())
		if errors.Is(err, ErrNoData) {
			continue
		}
		return ev, err
	}
	if err := r.scanner.Err(); err != nil {
		return types.StreamEvent{}, err
	}
	return types.StreamEvent{}, io.EOF
}

func splitFrames(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := bytes.Index(data, terminator); i >= 0 {
		return i + len(terminator), data[:i], nil
	}
	if i := bytes.Index(data, []byte("\r\n\r\n")); i >= 0 {
		return i + 4, data[:i], nil
	}
	if atEOF {
		// the remainder never saw its terminator
		return len(data), nil, nil
	}
	return 0, nil, nil
}
