// Package gpt adapts the OpenAI API to the relay's transport
// interfaces: chat completions, the moderation endpoint and image
// generation.
package gpt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/llmrelay/llmrelay"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Client struct {
	Client       openai.Client
	ModelID      string
	ImageModelID string
}

func NewClient(apiKey string, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("OpenAI model ID is required")
	}

	// The SDK's own retries stay off: the relay owns the retry loop.
	openaiClient := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)

	return &Client{
		Client:       openaiClient,
		ModelID:      model,
		ImageModelID: string(openai.ImageModelDallE3),
	}, nil
}

func (c *Client) Complete(ctx context.Context, req llmrelay.ChatRequest) (*llmrelay.ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = c.ModelID
	}

	messages, err := toOpenAIMessages(req.Messages)
	if err != nil {
		return nil, err
	}

	output, err := c.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       openai.ChatModel(model),
		Temperature: openai.Float(req.Temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to invoke gpt model. Error: %w", err)
	}

	if len(output.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	message := output.Choices[0].Message
	resp := &llmrelay.ChatResponse{
		Content: message.Content,
		// Usage may be absent on some providers; the zero value stands
		// for an unknown token count.
		Tokens: int(output.Usage.CompletionTokens),
	}

	if len(message.ToolCalls) > 0 {
		raw, err := json.Marshal(message.ToolCalls)
		if err == nil {
			resp.FunctionCall = raw
		}
	}

	return resp, nil
}

func toOpenAIMessages(messages []llmrelay.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llmrelay.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case llmrelay.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		case llmrelay.RoleUser:
			if len(m.Parts) == 0 {
				out = append(out, openai.UserMessage(m.Content))
				continue
			}
			parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(m.Parts))
			for _, p := range m.Parts {
				switch p.Type {
				case llmrelay.PartText:
					parts = append(parts, openai.TextContentPart(p.Text))
				case llmrelay.PartImageURL:
					parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
						URL: p.ImageURL,
					}))
				default:
					return nil, fmt.Errorf("unsupported content part type %q", p.Type)
				}
			}
			out = append(out, openai.UserMessage(parts))
		default:
			return nil, fmt.Errorf("unsupported message role %q", m.Role)
		}
	}
	return out, nil
}
