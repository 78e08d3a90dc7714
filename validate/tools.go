package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

var ErrInvalidInput = errors.New("invalid tool input")

// ValidationError lists every schema violation of one tool input.
type ValidationError struct {
	Tool   string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("input validation failed for tool '%s': %s", e.Tool, strings.Join(e.Issues, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

var (
	schemaMu    sync.Mutex
	schemaCache = make(map[string]*gojsonschema.Schema)
)

func compile(raw []byte) (*gojsonschema.Schema, error) {
	key := string(raw)

	schemaMu.Lock()
	defer schemaMu.Unlock()
	if s, ok := schemaCache[key]; ok {
		return s, nil
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, err
	}
	schemaCache[key] = s
	return s, nil
}

// ToolInput checks input against the JSON schema advertised for tool.
// Empty input is treated as an empty object. Free-text string fields must not
// carry hidden unicode.
func ToolInput(tool string, schema []byte, input json.RawMessage) error {
	if len(strings.TrimSpace(string(input))) == 0 {
		input = json.RawMessage(`{}`)
	}

	if len(schema) > 0 {
		s, err := compile(schema)
		if err != nil {
			return fmt.Errorf("internal schema error for tool '%s': %w", tool, err)
		}

		result, err := s.Validate(gojsonschema.NewBytesLoader(input))
		if err != nil {
			return &ValidationError{Tool: tool, Issues: []string{err.Error()}}
		}

		if !result.Valid() {
			var issues []string
			for _, desc := range result.Errors() {
				issues = append(issues, desc.String())
			}
			return &ValidationError{Tool: tool, Issues: issues}
		}
	}

	var fields map[string]any
	if err := json.Unmarshal(input, &fields); err != nil {
		return &ValidationError{Tool: tool, Issues: []string{"input must be a JSON object"}}
	}

	var issues []string
	for name, v := range fields {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if found := DetectHiddenUnicode(s); len(found) > 0 {
			issues = append(issues, fmt.Sprintf("%s: hidden character %s at index %d", name, found[0].Hex, found[0].Index))
		}
	}
	if len(issues) > 0 {
		return &ValidationError{Tool: tool, Issues: issues}
	}
	return nil
}
