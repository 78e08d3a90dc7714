package stdio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrStop ends ReadLines without an error.
var ErrStop = errors.New("stop reading")

// ReadLines calls handle with every non-blank line read from r, trimmed.
// Reading ends at EOF or when handle returns an error. ErrStop is swallowed.
func ReadLines(r io.Reader, prompt io.Writer, handle func(line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	writePrompt(prompt)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			writePrompt(prompt)
			continue
		}
		if err := handle(line); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
		writePrompt(prompt)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func writePrompt(w io.Writer) {
	if w != nil {
		fmt.Fprint(w, "> ")
	}
}
