package llmrelay

import "time"

// Options is the fully-resolved configuration one orchestrator run
// consumes. Client-level defaults and per-request overrides are merged
// into a value of this type at the submission boundary; the shared
// defaults are never mutated per call.
type Options struct {
	// Model is the provider model identifier.
	Model string

	// Temperature is passed through to the completion call. Values
	// outside [0, 2] are a configuration error.
	Temperature float64

	// Timeout bounds each individual attempt. A zero client default is
	// replaced by DefaultTimeout at construction; a resolved value
	// that is not positive is a configuration error.
	Timeout time.Duration

	// MinTokens rejects responses whose completion token count is at
	// or below the floor. 0 disables the check.
	MinTokens int

	// MinResponseTime rejects responses that arrive at or below the
	// floor, guarding against suspiciously fast answers. 0 disables
	// the check.
	MinResponseTime time.Duration

	// RetryCount is the number of retries after the first attempt;
	// 0 means exactly one attempt.
	RetryCount int

	// RetryDelay runs strictly between a failed attempt and the next
	// one, never after the final attempt.
	RetryDelay RetryDelay

	// ValidateJSON rejects responses that are not well-formed JSON.
	// Ignored on the image-generation path.
	ValidateJSON bool

	// ImageCount switches the request to image generation when > 0.
	ImageCount int

	// ImageSize is the provider size hint for image generation.
	ImageSize string
}

// ImageOptions overrides the image-generation settings of a request.
type ImageOptions struct {
	Count int
	Size  string
}

// Overrides carries per-request settings. Nil fields inherit the
// client defaults.
type Overrides struct {
	Model           *string
	Temperature     *float64
	Timeout         *time.Duration
	MinTokens       *int
	MinResponseTime *time.Duration
	RetryCount      *int
	RetryDelay      *RetryDelay
	ValidateJSON    *bool
	Images          *ImageOptions
}

// resolveOptions merges per-request overrides onto the client defaults,
// producing the immutable options value the orchestrator consumes.
func resolveOptions(defaults Options, o *Overrides) Options {
	opts := defaults
	if o == nil {
		return opts
	}
	if o.Model != nil {
		opts.Model = *o.Model
	}
	if o.Temperature != nil {
		opts.Temperature = *o.Temperature
	}
	if o.Timeout != nil {
		opts.Timeout = *o.Timeout
	}
	if o.MinTokens != nil {
		opts.MinTokens = *o.MinTokens
	}
	if o.MinResponseTime != nil {
		opts.MinResponseTime = *o.MinResponseTime
	}
	if o.RetryCount != nil {
		opts.RetryCount = *o.RetryCount
	}
	if o.RetryDelay != nil {
		opts.RetryDelay = *o.RetryDelay
	}
	if o.ValidateJSON != nil {
		opts.ValidateJSON = *o.ValidateJSON
	}
	if o.Images != nil {
		opts.ImageCount = o.Images.Count
		opts.ImageSize = o.Images.Size
	}
	return opts
}
