package models

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/itemo/config"
	"github.com/itemo/types"
)

const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llama3.1"
)

// Ollama talks to a local Ollama server through /api/chat.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOllama(cfg config.Model) *Ollama {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}

	model := cfg.Name
	if model == "" {
		model = DefaultOllamaModel
	}

	return &Ollama{baseURL: baseURL, model: model, client: http.DefaultClient}
}

type ollamaToolCall struct {
	Function struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"function"`
}

type ollamaMessage struct {
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	ToolCalls []ollamaToolCall `json:"tool_calls,omitempty"`
	ToolName  string           `json:"tool_name,omitempty"`
}

type ollamaTool struct {
	Type     string `json:"type"`
	Function struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Parameters  map[string]any `json:"parameters"`
	} `json:"function"`
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Tools    []ollamaTool    `json:"tools,omitempty"`
	Stream   bool            `json:"stream"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaResponse struct {
	Message    ollamaMessage `json:"message"`
	DoneReason string        `json:"done_reason"`
}

func (o *Ollama) Complete(ctx context.Context, req *Request) (*Response, error) {
	body := ollamaRequest{
		Model:    o.model,
		Messages: ollamaMessages(req),
		Stream:   false,
	}
	for _, d := range req.Tools {
		var t ollamaTool
		t.Type = "function"
		t.Function.Name = d.Name
		t.Function.Description = d.Description
		t.Function.Parameters = d.Parameters
		body.Tools = append(body.Tools, t)
	}
	if req.MaxTokens > 0 {
		body.Options = map[string]any{"num_predict": req.MaxTokens}
	}

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := o.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("ollama: read response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status: %s", httpResp.Status)
	}

	var result ollamaResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("bad ollama response: %s", data)
	}

	resp := &Response{StopReason: StopEndTurn}
	if result.DoneReason == "length" {
		resp.StopReason = StopMaxTokens
	}
	if result.Message.Content != "" {
		resp.Blocks = append(resp.Blocks, TextBlock(result.Message.Content))
	}
	for _, call := range result.Message.ToolCalls {
		resp.Blocks = append(resp.Blocks, ToolUseBlock(types.ToolInvocation{
			ID:    "call_" + uuid.NewString(),
			Name:  call.Function.Name,
			Input: call.Function.Arguments,
		}))
		resp.StopReason = StopToolUse
	}
	return resp, nil
}

func ollamaMessages(req *Request) []ollamaMessage {
	var out []ollamaMessage
	if req.System != "" {
		out = append(out, ollamaMessage{Role: "system", Content: req.System})
	}

	// tool results are matched back to their call by name
	names := make(map[string]string)

	for _, turn := range req.Turns {
		msg := ollamaMessage{Role: string(turn.Role)}
		for _, b := range turn.Blocks {
			switch b.Type {
			case BlockText:
				msg.Content += b.Text
			case BlockToolUse:
				var call ollamaToolCall
				call.Function.Name = b.Invocation.Name
				call.Function.Arguments = rawInput(b.Invocation.Input)
				msg.ToolCalls = append(msg.ToolCalls, call)
				names[b.Invocation.ID] = b.Invocation.Name
			case BlockToolResult:
				out = append(out, ollamaMessage{
					Role:     "tool",
					Content:  string(b.Result.Content),
					ToolName: names[b.Result.InvocationID],
				})
			}
		}
		if msg.Content != "" || len(msg.ToolCalls) > 0 {
			out = append(out, msg)
		}
	}
	return out
}
