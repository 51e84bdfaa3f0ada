package gpt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/llmrelay/llmrelay"
	"github.com/openai/openai-go"
)

// Classify sends the prompt text to the OpenAI moderation endpoint and
// converts the first result into the relay's classification shape.
func (c *Client) Classify(ctx context.Context, text string) (*llmrelay.Classification, error) {
	output, err := c.Client.Moderations.New(ctx, openai.ModerationNewParams{
		Input: openai.ModerationNewParamsInputUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to invoke moderation endpoint. Error: %w", err)
	}

	if len(output.Results) == 0 {
		return nil, fmt.Errorf("no results in moderation response")
	}

	result := output.Results[0]
	scores, err := categoryScores(result.CategoryScores)
	if err != nil {
		return nil, err
	}

	return &llmrelay.Classification{
		Flagged: result.Flagged,
		Scores:  scores,
	}, nil
}

// categoryScores flattens the SDK's typed score struct into the
// category name to score map the gate thresholds against.
func categoryScores(cs openai.ModerationCategoryScores) (map[string]float64, error) {
	raw, err := json.Marshal(cs)
	if err != nil {
		return nil, fmt.Errorf("unable to decode moderation scores. Error: %w", err)
	}
	scores := make(map[string]float64)
	if err := json.Unmarshal(raw, &scores); err != nil {
		return nil, fmt.Errorf("unable to decode moderation scores. Error: %w", err)
	}
	return scores, nil
}
