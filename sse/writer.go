package sse

import (
	"errors"
	"net/http"
	"sync"

	"github.com/itemo/types"
)

var ErrStreamingUnsupported = errors.New("sse: streaming unsupported")

// Writer streams events to one HTTP response, flushing after every frame.
type Writer struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewWriter writes the stream headers and the 200 status.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", ContentType)
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &Writer{w: w, flusher: flusher}, nil
}

func (sw *Writer) Emit(ev types.StreamEvent) error {
	frame, err := Encode(ev)
	if err != nil {
		return err
	}

	sw.mu.Lock()
	defer sw.mu.Unlock()
	if _, err := sw.w.Write(frame); err != nil {
		return err
	}
	sw.flusher.Flush()
	return nil
}
