package types

import "encoding/json"

// ToolDefinition describes one tool offered to the language model.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`

	// Schema is the JSON encoding of Parameters, used for validation.
	Schema []byte `json:"-"`
}

// Required returns the names of the required parameters.
func (d ToolDefinition) Required() []string {
	var names []string
	switch req := d.Parameters["required"].(type) {
	case []string:
		names = append(names, req...)
	case []any:
		for _, v := range req {
			if s, ok := v.(string); ok {
				names = append(names, s)
			}
		}
	}
	return names
}

// ToolInvocation is a tool call requested by the model.
type ToolInvocation struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// ToolResult is the executor's answer to one ToolInvocation.
type ToolResult struct {
	InvocationID string          `json:"invocation_id"`
	Content      json.RawMessage `json:"content"`
	IsError      bool            `json:"is_error,omitempty"`
}
