package models

import (
	"context"
	"fmt"

	"github.com/itemo/config"
	"github.com/itemo/types"
)

type BlockType string

const (
	BlockText       BlockType = "text"
	BlockToolUse    BlockType = "tool_use"
	BlockToolResult BlockType = "tool_result"
)

// Block is one content block of a turn. Exactly one of Text, Invocation or
// Result is meaningful, according to Type.
type Block struct {
	Type       BlockType
	Text       string
	Invocation *types.ToolInvocation
	Result     *types.ToolResult
}

func TextBlock(text string) Block {
	return Block{Type: BlockText, Text: text}
}

func ToolUseBlock(inv types.ToolInvocation) Block {
	return Block{Type: BlockToolUse, Invocation: &inv}
}

func ToolResultBlock(res types.ToolResult) Block {
	return Block{Type: BlockToolResult, Result: &res}
}

type Turn struct {
	Role   types.Role
	Blocks []Block
}

type Request struct {
	System    string
	Turns     []Turn
	Tools     []types.ToolDefinition
	MaxTokens int
}

type StopReason string

const (
	StopToolUse   StopReason = "tool_use"
	StopEndTurn   StopReason = "end_turn"
	StopMaxTokens StopReason = "max_tokens"
)

type Response struct {
	StopReason StopReason
	Blocks     []Block
}

// Invocations returns the tool calls of r in the order the model issued them.
func (r *Response) Invocations() []types.ToolInvocation {
	var out []types.ToolInvocation
	for _, b := range r.Blocks {
		if b.Type == BlockToolUse && b.Invocation != nil {
			out = append(out, *b.Invocation)
		}
	}
	return out
}

// Model is a hosted language model endpoint.
type Model interface {
	Complete(ctx context.Context, req *Request) (*Response, error)
}

// New builds the adapter selected by cfg.Provider.
func New(cfg config.Model) (Model, error) {
	switch cfg.Provider {
	case config.ProviderClaude:
		return NewClaude(cfg), nil
	case config.ProviderOpenAI:
		return NewOpenAI(cfg), nil
	case config.ProviderOllama:
		return NewOllama(cfg), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}
