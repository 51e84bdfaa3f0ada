package config

import (
	"fmt"
	"os"
	"time"

	"github.com/llmrelay/llmrelay"
	"gopkg.in/yaml.v3"
)

// Load reads the relay defaults from the YAML file named by
// RELAY_CONFIG_PATH, falling back to configs/defaults.yaml.
func Load() (*Config, error) {

	path := os.Getenv("RELAY_CONFIG_PATH")
	if path == "" {
		path = "configs/defaults.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.TimeoutMs == 0 {
		cfg.TimeoutMs = 60_000
	}
	if cfg.ModerationThreshold == 0 {
		cfg.ModerationThreshold = 0.5
	}
}

func (c *Config) Validate() error {
	if c.RetryCount < 0 {
		return fmt.Errorf("retry_count must not be negative, got %d", c.RetryCount)
	}
	if c.TimeoutMs < 0 {
		return fmt.Errorf("timeout_ms must not be negative, got %d", c.TimeoutMs)
	}
	if c.RetryDelayMs < 0 {
		return fmt.Errorf("retry_delay_ms must not be negative, got %d", c.RetryDelayMs)
	}
	if c.ModerationThreshold < 0 || c.ModerationThreshold > 1 {
		return fmt.Errorf("moderation_threshold must be between 0 and 1, got %g", c.ModerationThreshold)
	}
	return nil
}

// Options converts the file representation into the relay's default
// request options.
func (c *Config) Options() llmrelay.Options {
	return llmrelay.Options{
		Model:           c.Model,
		Temperature:     c.Temperature,
		Timeout:         time.Duration(c.TimeoutMs) * time.Millisecond,
		MinTokens:       c.MinTokens,
		MinResponseTime: time.Duration(c.MinResponseTimeMs) * time.Millisecond,
		RetryCount:      c.RetryCount,
		RetryDelay:      llmrelay.FixedDelay(time.Duration(c.RetryDelayMs) * time.Millisecond),
		ValidateJSON:    c.ValidateJSON,
	}
}
