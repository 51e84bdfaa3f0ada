// Package bedrock adapts Anthropic models on AWS Bedrock to the
// relay's completion transport.
package bedrock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

type Client struct {
	Client    *bedrockruntime.Client
	ModelID   string
	MaxTokens int
}

const defaultMaxTokens = 4096

func NewClient(ctx context.Context, region string, modelID string) (*Client, error) {
	if modelID == "" {
		return nil, fmt.Errorf("bedrock model ID is required")
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &Client{
		Client:    bedrockruntime.NewFromConfig(cfg),
		ModelID:   modelID,
		MaxTokens: defaultMaxTokens,
	}, nil
}
