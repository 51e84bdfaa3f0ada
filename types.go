package llmrelay

import (
	"encoding/json"
	"time"
)

// Role identifies who authored a conversational turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// PartType discriminates multimodal message parts.
type PartType string

const (
	PartText     PartType = "text"
	PartImageURL PartType = "image_url"
)

// Part is one element of a multimodal message.
type Part struct {
	Type     PartType `json:"type"`
	Text     string   `json:"text,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
}

// Message is one conversational turn. Content and Parts are mutually
// exclusive; Parts is used for multimodal turns.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content,omitempty"`
	Parts   []Part `json:"parts,omitempty"`
}

// ChatRequest is the resolved payload handed to a CompletionClient.
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature float64
}

// ChatResponse is what a CompletionClient returns. Tokens is the
// completion token count from the provider's usage field; adapters
// report 0 when usage is absent or unparsable.
type ChatResponse struct {
	Content      string
	FunctionCall json.RawMessage
	Tokens       int
}

// ImageRequest is the resolved payload handed to an ImageClient.
type ImageRequest struct {
	Model  string
	Prompt string
	Size   string
	Count  int
}

// ImageResponse carries the generated image URLs.
type ImageResponse struct {
	URLs []string
}

// Classification is the raw output of a ModerationClient: the
// provider's own flagged decision plus per-category scores.
type Classification struct {
	Flagged bool
	Scores  map[string]float64
}

// Verdict is the moderation gate's decision for one logical request.
// Categories lists the names whose score met or exceeded the
// configured threshold.
type Verdict struct {
	Flagged    bool     `json:"flagged"`
	Categories []string `json:"categories,omitempty"`
}

// AttemptStatus marks the outcome of a single attempt.
type AttemptStatus string

const (
	AttemptSuccess AttemptStatus = "success"
	AttemptFailure AttemptStatus = "failure"
)

// Attempt is one element of a request's history: one execution of the
// remote call plus its validation. The history is append-only and is
// returned to the caller regardless of the terminal outcome.
type Attempt struct {
	Status  AttemptStatus `json:"status"`
	Content string        `json:"content,omitempty"`
	Elapsed time.Duration `json:"elapsed_ns"`
	Tokens  int           `json:"tokens"`
	Err     string        `json:"error,omitempty"`
}

// Response is the final usable answer of a logical request.
type Response struct {
	Content      string          `json:"content,omitempty"`
	FunctionCall json.RawMessage `json:"function_call,omitempty"`
	Tokens       int             `json:"tokens,omitempty"`
	ImageURLs    []string        `json:"image_urls,omitempty"`
}

// Result is the terminal state of one logical request. Err is empty
// iff the last attempt succeeded. Response may be populated on
// terminal failure when a partial body was obtainable. History is nil
// only when the request never entered the attempt loop (moderation
// veto or configuration error).
type Result struct {
	Err      string    `json:"error,omitempty"`
	Response *Response `json:"response,omitempty"`
	History  []Attempt `json:"history,omitempty"`
}

// Succeeded reports whether the request reached a successful terminal
// state.
func (r Result) Succeeded() bool {
	return r.Err == ""
}

// ItemResult pairs one batch item's Result with its correlation key
// (the caller-supplied key, or the prompt text when none was given).
type ItemResult struct {
	Key string `json:"key"`
	Result
}

// BatchResult holds per-item results ordered by submission index,
// regardless of completion order.
type BatchResult struct {
	Results []ItemResult `json:"results"`
}

// Errors returns the error messages of every failed item, in
// submission order. It returns nil when every item succeeded.
func (b BatchResult) Errors() []string {
	var errs []string
	for _, r := range b.Results {
		if r.Err != "" {
			errs = append(errs, r.Err)
		}
	}
	return errs
}

// Split returns the legacy three-array view: positionally aligned
// errors (empty string for successes), responses and histories.
func (b BatchResult) Split() ([]string, []*Response, [][]Attempt) {
	errs := make([]string, len(b.Results))
	responses := make([]*Response, len(b.Results))
	histories := make([][]Attempt, len(b.Results))
	for i, r := range b.Results {
		errs[i] = r.Err
		responses[i] = r.Response
		histories[i] = r.History
	}
	return errs, responses, histories
}
