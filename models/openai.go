package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"

	"github.com/itemo/config"
	"github.com/itemo/types"
)

const DefaultOpenAIModel = "gpt-4.1"

// OpenAI talks to the OpenAI Responses API, or any endpoint compatible with it.
type OpenAI struct {
	client openai.Client
	model  string
}

func NewOpenAI(cfg config.Model) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Name
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (o *OpenAI) Complete(ctx context.Context, req *Request) (*Response, error) {
	params := responses.ResponseNewParams{
		Model: o.model,
		Input: responses.ResponseNewParamsInputUnion{OfInputItemList: openaiInput(req.Turns)},
		Tools: openaiTools(req.Tools),
	}
	if req.System != "" {
		params.Instructions = openai.String(req.System)
	}
	if req.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(req.MaxTokens))
	}

	r, err := o.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	resp := &Response{StopReason: StopEndTurn}
	if r.Status == "incomplete" {
		resp.StopReason = StopMaxTokens
	}

	for _, item := range r.Output {
		switch item.Type {
		case "message":
			for _, part := range item.AsMessage().Content {
				if part.Type == "output_text" && part.Text != "" {
					resp.Blocks = append(resp.Blocks, TextBlock(part.Text))
				}
			}
		case "function_call":
			call := item.AsFunctionCall()
			resp.Blocks = append(resp.Blocks, ToolUseBlock(types.ToolInvocation{
				ID:    call.CallID,
				Name:  call.Name,
				Input: json.RawMessage(call.Arguments),
			}))
			resp.StopReason = StopToolUse
		}
	}
	return resp, nil
}

func openaiInput(turns []Turn) []responses.ResponseInputItemUnionParam {
	var out []responses.ResponseInputItemUnionParam
	for _, turn := range turns {
		role := responses.EasyInputMessageRoleUser
		if turn.Role == types.RoleAssistant {
			role = responses.EasyInputMessageRoleAssistant
		}

		for _, b := range turn.Blocks {
			switch b.Type {
			case BlockText:
				if b.Text == "" {
					continue
				}
				out = append(out, responses.ResponseInputItemUnionParam{
					OfMessage: &responses.EasyInputMessageParam{
						Role:    role,
						Content: responses.EasyInputMessageContentUnionParam{OfString: openai.String(b.Text)},
					},
				})
			case BlockToolUse:
				out = append(out, responses.ResponseInputItemUnionParam{
					OfFunctionCall: &responses.ResponseFunctionToolCallParam{
						CallID:    b.Invocation.ID,
						Name:      b.Invocation.Name,
						Arguments: string(rawInput(b.Invocation.Input)),
					},
				})
			case BlockToolResult:
				out = append(out, responses.ResponseInputItemUnionParam{
					OfFunctionCallOutput: &responses.ResponseInputItemFunctionCallOutputParam{
						CallID: b.Result.InvocationID,
						Output: responses.ResponseInputItemFunctionCallOutputOutputUnionParam{
							OfString: openai.String(string(b.Result.Content)),
						},
					},
				})
			}
		}
	}
	return out
}

func openaiTools(defs []types.ToolDefinition) []responses.ToolUnionParam {
	var out []responses.ToolUnionParam
	for _, d := range defs {
		tool := responses.ToolParamOfFunction(d.Name, d.Parameters, false)
		if tool.OfFunction != nil {
			tool.OfFunction.Description = openai.String(d.Description)
		}
		out = append(out, tool)
	}
	return out
}
