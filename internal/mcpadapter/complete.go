package mcpadapter

import (
	"context"

	"github.com/llmrelay/llmrelay"
	"github.com/llmrelay/llmrelay/internal/batchio"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CompleteInput is the MCP tool input schema (matches HTTP API field names).
type CompleteInput struct {
	ID           string   `json:"id,omitempty" jsonschema:"optional correlation key"`
	Prompt       string   `json:"prompt" jsonschema:"prompt to send to the model"`
	Model        *string  `json:"model,omitempty" jsonschema:"optional model override"`
	Temperature  *float64 `json:"temperature,omitempty" jsonschema:"optional sampling temperature"`
	RetryCount   *int     `json:"retry_count,omitempty" jsonschema:"retries after the first attempt"`
	TimeoutMs    *int     `json:"timeout_ms,omitempty" jsonschema:"per-attempt timeout in milliseconds"`
	MinTokens    *int     `json:"min_tokens,omitempty" jsonschema:"reject responses at or below this completion token count"`
	ValidateJSON *bool    `json:"validate_json,omitempty" jsonschema:"reject responses that are not well-formed JSON"`
}

// NewCompleteHandler returns a tool handler backed by the given relay
// client. Pass the returned function to mcp.AddTool.
func NewCompleteHandler(relay *llmrelay.Client) func(context.Context, *mcp.CallToolRequest, CompleteInput) (*mcp.CallToolResult, llmrelay.ItemResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CompleteInput) (*mcp.CallToolResult, llmrelay.ItemResult, error) {
		return Complete(ctx, relay, req, input)
	}
}

// Complete runs one relayed completion and returns its result with the
// full attempt history.
func Complete(
	ctx context.Context,
	relay *llmrelay.Client,
	req *mcp.CallToolRequest,
	input CompleteInput,
) (*mcp.CallToolResult, llmrelay.ItemResult, error) {
	record := batchio.PromptRecord{
		ID:           input.ID,
		Prompt:       input.Prompt,
		Model:        input.Model,
		Temperature:  input.Temperature,
		RetryCount:   input.RetryCount,
		TimeoutMs:    input.TimeoutMs,
		MinTokens:    input.MinTokens,
		ValidateJSON: input.ValidateJSON,
	}

	item := record.Item()
	result := relay.Request(ctx, item.Request)

	return nil, llmrelay.ItemResult{Key: item.Request.Key, Result: result}, nil
}
