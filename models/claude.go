package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/itemo/config"
	"github.com/itemo/types"
)

const DefaultClaudeModel = "claude-sonnet-4-20250514"

// Claude talks to the Anthropic Messages API.
type Claude struct {
	client anthropic.Client
	model  string
}

func NewClaude(cfg config.Model) *Claude {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Name
	if model == "" {
		model = DefaultClaudeModel
	}

	return &Claude{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (c *Claude) Complete(ctx context.Context, req *Request) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(req.MaxTokens),
		Messages:  claudeMessages(req.Turns),
		Tools:     claudeTools(req.Tools),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("claude: %w", err)
	}

	resp := &Response{StopReason: StopEndTurn}
	switch msg.StopReason {
	case anthropic.StopReasonToolUse:
		resp.StopReason = StopToolUse
	case anthropic.StopReasonMaxTokens:
		resp.StopReason = StopMaxTokens
	}

	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			resp.Blocks = append(resp.Blocks, TextBlock(block.Text))
		case "tool_use":
			resp.Blocks = append(resp.Blocks, ToolUseBlock(types.ToolInvocation{
				ID:    block.ID,
				Name:  block.Name,
				Input: append(json.RawMessage(nil), block.Input...),
			}))
		}
	}
	return resp, nil
}

func claudeMessages(turns []Turn) []anthropic.MessageParam {
	var out []anthropic.MessageParam
	for _, turn := range turns {
		var blocks []anthropic.ContentBlockParamUnion
		for _, b := range turn.Blocks {
			switch b.Type {
			case BlockText:
				if b.Text != "" {
					blocks = append(blocks, anthropic.NewTextBlock(b.Text))
				}
			case BlockToolUse:
				blocks = append(blocks, anthropic.NewToolUseBlock(b.Invocation.ID, rawInput(b.Invocation.Input), b.Invocation.Name))
			case BlockToolResult:
				blocks = append(blocks, anthropic.NewToolResultBlock(b.Result.InvocationID, string(b.Result.Content), b.Result.IsError))
			}
		}
		if len(blocks) == 0 {
			continue
		}

		if turn.Role == types.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		} else {
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}
	return out
}

func claudeTools(defs []types.ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, d := range defs {
		out = append(out, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        d.Name,
				Description: anthropic.String(d.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: d.Parameters["properties"],
					Required:   d.Required(),
				},
			},
		})
	}
	return out
}

func rawInput(input json.RawMessage) json.RawMessage {
	if len(input) == 0 {
		return json.RawMessage(`{}`)
	}
	return input
}
