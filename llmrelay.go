// Package llmrelay turns unreliable remote LLM calls into predictable
// units of work: per-request retries with configurable delay,
// response-quality gating, optional moderation pre-flight and
// bounded-concurrency batch dispatch with aggregated error reporting.
package llmrelay

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

//go:generate mockgen -destination internal/mocks/clients.go -package mocks github.com/llmrelay/llmrelay CompletionClient,ImageClient,ModerationClient

// CompletionClient is the transport to the remote completion service.
// The relay treats it as an opaque call; retries, timeouts and
// validation all live on this side of the boundary.
type CompletionClient interface {
	Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ImageClient is the transport for image generation.
type ImageClient interface {
	Generate(ctx context.Context, req ImageRequest) (*ImageResponse, error)
}

// ModerationClient classifies text for the pre-flight moderation gate.
type ModerationClient interface {
	Classify(ctx context.Context, text string) (*Classification, error)
}

// Request is one caller-submitted logical request. Prompt is shorthand
// for a single user message; Messages wins when both are set. Options
// overrides the client defaults per request; nil inherits everything.
type Request struct {
	// Key correlates the request in batch results and logs. Defaults
	// to the prompt text.
	Key      string
	Prompt   string
	Messages []Message
	Options  *Overrides
}

func (r Request) key() string {
	if r.Key != "" {
		return r.Key
	}
	return r.Prompt
}

// Config wires a Client.
type Config struct {
	// Completions is required.
	Completions CompletionClient

	// Images enables the image-generation path when set.
	Images ImageClient

	// Moderation enables the pre-flight gate when set.
	Moderation ModerationClient

	// ModerationThreshold is the category score at or above which a
	// category counts as violated. Defaults to 0.5.
	ModerationThreshold float64

	// Defaults are the client-level options merged with per-request
	// overrides at submission.
	Defaults Options

	// Logger receives orchestration events. Nil means no logging.
	Logger *zerolog.Logger
}

// Client is the caller-facing entry point. It opens no ports and keeps
// no persistent state; all coordination is in-process.
type Client struct {
	defaults Options
	orch     *orchestrator
	disp     *dispatcher
}

// DefaultTimeout bounds each attempt when the caller sets none.
const DefaultTimeout = 60 * time.Second

// New validates the configuration and builds a Client.
func New(cfg Config) (*Client, error) {
	if cfg.Completions == nil {
		return nil, errors.New("completion client is required")
	}
	if cfg.Defaults.RetryCount < 0 {
		return nil, errors.New("default retry count must not be negative")
	}
	if cfg.ModerationThreshold < 0 || cfg.ModerationThreshold > 1 {
		return nil, errors.New("moderation threshold must be in [0, 1]")
	}

	logger := cfg.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	defaults := cfg.Defaults
	if defaults.Timeout == 0 {
		defaults.Timeout = DefaultTimeout
	}

	var g *gate
	if cfg.Moderation != nil {
		threshold := cfg.ModerationThreshold
		if threshold == 0 {
			threshold = defaultModerationThreshold
		}
		g = &gate{client: cfg.Moderation, threshold: threshold, logger: logger}
	}

	orch := &orchestrator{
		completions: cfg.Completions,
		images:      cfg.Images,
		gate:        g,
		logger:      logger,
	}

	return &Client{
		defaults: defaults,
		orch:     orch,
		disp:     &dispatcher{orch: orch, defaults: defaults, logger: logger},
	}, nil
}

// Request drives one logical request to a terminal state and returns
// its result with the full attempt history.
func (c *Client) Request(ctx context.Context, req Request) Result {
	return c.orch.run(ctx, req, resolveOptions(c.defaults, req.Options))
}

// Parallel executes a batch with bounded concurrency. Results are
// ordered by submission index regardless of completion order.
func (c *Client) Parallel(ctx context.Context, batch Batch) BatchResult {
	return c.disp.runAll(ctx, batch)
}
