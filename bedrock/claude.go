package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/llmrelay/llmrelay"
)

type claudeMessageRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	Temperature      float64         `json:"temperature"`
	System           string          `json:"system,omitempty"`
	Messages         []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeMessageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

var anthropicVersion = "bedrock-2023-05-31"

// Complete invokes the Claude messages API through Bedrock. System
// messages are folded into the top-level system field since the
// messages array only accepts user and assistant turns.
func (c *Client) Complete(ctx context.Context, req llmrelay.ChatRequest) (*llmrelay.ChatResponse, error) {
	var system []string
	var messages []claudeMessage
	for _, m := range req.Messages {
		if len(m.Parts) > 0 {
			return nil, fmt.Errorf("multimodal content is not supported by the bedrock transport")
		}
		switch m.Role {
		case llmrelay.RoleSystem:
			system = append(system, m.Content)
		case llmrelay.RoleUser, llmrelay.RoleAssistant:
			messages = append(messages, claudeMessage{
				Role:    string(m.Role),
				Content: m.Content,
			})
		default:
			return nil, fmt.Errorf("unsupported message role %q", m.Role)
		}
	}

	payload := claudeMessageRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        c.MaxTokens,
		Temperature:      req.Temperature,
		System:           strings.Join(system, "\n"),
		Messages:         messages,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to serialize claude request. Error: %w", err)
	}

	modelID := req.Model
	if modelID == "" {
		modelID = c.ModelID
	}

	output, err := c.Client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &modelID,
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to invoke claude model. Error: %w", err)
	}

	var response claudeMessageResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bedrock response. Error: %w", err)
	}

	var content string
	if len(response.Content) > 0 {
		content = response.Content[0].Text
	}

	return &llmrelay.ChatResponse{
		Content: content,
		Tokens:  response.Usage.OutputTokens,
	}, nil
}
