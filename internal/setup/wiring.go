package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/llmrelay/llmrelay"
	"github.com/llmrelay/llmrelay/bedrock"
	"github.com/llmrelay/llmrelay/gpt"
	"github.com/llmrelay/llmrelay/internal/config"
	"github.com/rs/zerolog"
)

type Config struct {
	AWSRegion        string
	ClaudeModelID    string
	OpenAIKey        string
	OpenAIModelID    string
	DefaultProvider  string
	EnableModeration bool
	EnableImages     bool
}

type Dependencies struct {
	Client *llmrelay.Client
	Logger *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:    getEnv("CLAUDE_MODEL_ID", ""),
		OpenAIKey:        getEnv("OPEN_AI_KEY", ""),
		OpenAIModelID:    getEnv("OPEN_AI_MODEL_ID", ""),
		DefaultProvider:  getEnv("DEFAULT_LLM_PROVIDER", "openai"),
		EnableModeration: getEnvBool("ENABLE_MODERATION", true),
		EnableImages:     getEnvBool("ENABLE_IMAGES", false),
	}
}

func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	// Relay defaults from the YAML config file
	defaults, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load relay defaults: %w", err)
	}

	relayConfig := llmrelay.Config{
		Defaults:            defaults.Options(),
		ModerationThreshold: defaults.ModerationThreshold,
		Logger:              logger,
	}

	switch cfg.DefaultProvider {
	case "openai":
		openaiClient, err := gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		relayConfig.Completions = openaiClient
		if cfg.EnableModeration {
			relayConfig.Moderation = openaiClient
		}
		if cfg.EnableImages {
			relayConfig.Images = openaiClient
		}
	case "bedrock":
		bedrockClient, err := bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
		if err != nil {
			return nil, fmt.Errorf("failed to create Bedrock client: %w", err)
		}
		relayConfig.Completions = bedrockClient

		// Bedrock has no moderation endpoint. Fall back to the OpenAI
		// one when a key is configured.
		if cfg.EnableModeration && cfg.OpenAIKey != "" {
			moderationClient, err := gpt.NewClient(cfg.OpenAIKey, "omni-moderation-latest")
			if err != nil {
				return nil, fmt.Errorf("failed to create moderation client: %w", err)
			}
			relayConfig.Moderation = moderationClient
		}
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.DefaultProvider)
	}

	client, err := llmrelay.New(relayConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create relay client: %w", err)
	}

	return &Dependencies{
		Client: client,
		Logger: logger,
	}, nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}
