package sse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/itemo/types"
)

const ContentType = "text/event-stream"

var (
	dataPrefix = []byte("data: ")
	terminator = []byte("\n\n")
)

var ErrNoData = errors.New("sse: frame has no data line")

// Encode renders ev as one frame: "data: <json>\n\n".
func Encode(ev types.StreamEvent) ([]byte, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("sse: encode %s event: %w", ev.Type, err)
	}
	frame := make([]byte, 0, len(dataPrefix)+len(payload)+len(terminator))
	frame = append(frame, dataPrefix...)
	frame = append(frame, payload...)
	frame = append(frame, terminator...)
	return frame, nil
}

// Decode parses one frame. Lines other than data lines are ignored and
// multiple data lines are joined with a newline.
func Decode(frame []byte) (types.StreamEvent, error) {
	var data [][]byte
	for _, line := range bytes.Split(frame, []byte("\n")) {
		line = bytes.TrimSuffix(line, []byte("\r"))
		switch {
		case bytes.HasPrefix(line, dataPrefix):
			data = append(data, line[len(dataPrefix):])
		case bytes.HasPrefix(line, []byte("data:")):
			data = append(data, line[len("data:"):])
		}
	}
	if len(data) == 0 {
		return types.StreamEvent{}, ErrNoData
	}

	var ev types.StreamEvent
	if err := json.Unmarshal(bytes.Join(data, []byte("\n")), &ev); err != nil {
		return types.StreamEvent{}, fmt.Errorf("sse: decode frame: %w", err)
	}
	return ev, nil
}
