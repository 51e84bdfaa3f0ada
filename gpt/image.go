package gpt

import (
	"context"
	"fmt"

	"github.com/llmrelay/llmrelay"
	"github.com/openai/openai-go"
)

// Generate produces images for the prompt and returns their URLs.
func (c *Client) Generate(ctx context.Context, req llmrelay.ImageRequest) (*llmrelay.ImageResponse, error) {
	count := req.Count
	if count <= 0 {
		count = 1
	}

	params := openai.ImageGenerateParams{
		Prompt: req.Prompt,
		Model:  openai.ImageModel(c.ImageModelID),
		N:      openai.Int(int64(count)),
	}
	if req.Size != "" {
		params.Size = openai.ImageGenerateParamsSize(req.Size)
	}

	output, err := c.Client.Images.Generate(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("unable to invoke image model. Error: %w", err)
	}

	if len(output.Data) == 0 {
		return nil, fmt.Errorf("no images in response")
	}

	urls := make([]string, 0, len(output.Data))
	for _, img := range output.Data {
		urls = append(urls, img.URL)
	}

	return &llmrelay.ImageResponse{URLs: urls}, nil
}
