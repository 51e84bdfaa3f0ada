package config

// Config represents the relay defaults loaded from YAML. Per-request
// overrides are layered on top of these by the library.
type Config struct {
	Model               string  `yaml:"model"`
	Temperature         float64 `yaml:"temperature"`
	TimeoutMs           int     `yaml:"timeout_ms"`
	RetryCount          int     `yaml:"retry_count"`
	RetryDelayMs        int     `yaml:"retry_delay_ms"`
	MinTokens           int     `yaml:"min_tokens"`
	MinResponseTimeMs   int     `yaml:"min_response_time_ms"`
	ValidateJSON        bool    `yaml:"validate_json"`
	ModerationThreshold float64 `yaml:"moderation_threshold"`
}
