package llmrelay

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// state tracks where a logical request is in its lifecycle.
type state string

const (
	statePending        state = "PENDING"
	stateAttempting     state = "ATTEMPTING"
	stateWaitingToRetry state = "WAITING_TO_RETRY"
	stateSucceeded      state = "SUCCEEDED"
	stateExhausted      state = "EXHAUSTED"
)

// orchestrator drives one logical request through moderation check,
// attempt loop, remote call, validation and retry bookkeeping. It owns
// no shared mutable state; every run gets its own history.
type orchestrator struct {
	completions CompletionClient
	images      ImageClient
	gate        *gate
	logger      *zerolog.Logger
}

func (o *orchestrator) run(ctx context.Context, req Request, opts Options) Result {
	key := req.key()
	o.transition(key, statePending)

	messages, cfgErr := normalizeRequest(req, opts, o.images != nil)
	if cfgErr != nil {
		o.logger.Error().Str("key", key).Str("reason", cfgErr.Reason).Msg("request rejected")
		return Result{Err: cfgErr.Error()}
	}

	if o.gate != nil {
		verdict, err := o.gate.Check(ctx, promptText(req, messages))
		if err != nil {
			return Result{Err: "moderation check failed: " + err.Error()}
		}
		if verdict.Flagged {
			return Result{Err: (&ModerationError{Categories: verdict.Categories}).Error()}
		}
	}

	history := make([]Attempt, 0, opts.RetryCount+1)
	var lastErr string
	var partial *Response

	for attempt := 0; attempt <= opts.RetryCount; attempt++ {
		o.transition(key, stateAttempting)

		start := time.Now()
		resp, err := o.invoke(ctx, req, messages, opts)
		elapsed := time.Since(start)

		tokens := 0
		content := ""
		if resp != nil {
			tokens = resp.Tokens
			content = resp.Content
			if len(resp.ImageURLs) > 0 {
				content = strings.Join(resp.ImageURLs, "\n")
			}
		}

		if err == nil {
			if verr := o.validate(resp, opts, elapsed); verr != nil {
				err = verr
			}
		}

		if err == nil {
			history = append(history, Attempt{
				Status:  AttemptSuccess,
				Content: content,
				Elapsed: elapsed,
				Tokens:  tokens,
			})
			o.transition(key, stateSucceeded)
			o.logger.Info().
				Str("key", key).
				Int("attempts", attempt+1).
				Dur("elapsed", elapsed).
				Msg("request succeeded")
			return Result{Response: resp, History: history}
		}

		lastErr = err.Error()
		history = append(history, Attempt{
			Status:  AttemptFailure,
			Content: content,
			Elapsed: elapsed,
			Tokens:  tokens,
			Err:     lastErr,
		})
		if resp != nil {
			partial = resp
		}
		o.logger.Warn().
			Str("key", key).
			Int("attempt", attempt).
			Str("error", lastErr).
			Msg("attempt failed")

		// Delay only between attempts, never after the last one.
		if attempt < opts.RetryCount {
			o.transition(key, stateWaitingToRetry)
			if d := opts.RetryDelay.Next(attempt); d > 0 {
				select {
				case <-time.After(d):
				case <-ctx.Done():
					return Result{Err: ctx.Err().Error(), Response: partial, History: history}
				}
			}
		}
	}

	o.transition(key, stateExhausted)
	return Result{Err: lastErr, Response: partial, History: history}
}

// invoke races the remote call against the per-attempt timeout so that
// the retry loop stays transport-agnostic: a non-settling call becomes
// a uniform timeout failure instead of whatever the transport throws.
func (o *orchestrator) invoke(ctx context.Context, req Request, messages []Message, opts Options) (*Response, error) {
	type outcome struct {
		resp *Response
		err  error
	}

	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan outcome, 1)
	go func() {
		if opts.ImageCount > 0 {
			imgResp, err := o.images.Generate(cctx, ImageRequest{
				Model:  opts.Model,
				Prompt: req.Prompt,
				Size:   opts.ImageSize,
				Count:  opts.ImageCount,
			})
			if err != nil {
				ch <- outcome{err: err}
				return
			}
			ch <- outcome{resp: &Response{ImageURLs: imgResp.URLs}}
			return
		}

		chatResp, err := o.completions.Complete(cctx, ChatRequest{
			Model:       opts.Model,
			Messages:    messages,
			Temperature: opts.Temperature,
		})
		if err != nil {
			ch <- outcome{err: err}
			return
		}
		ch <- outcome{resp: &Response{
			Content:      chatResp.Content,
			FunctionCall: chatResp.FunctionCall,
			Tokens:       chatResp.Tokens,
		}}
	}()

	var timeout <-chan time.Time
	if opts.Timeout > 0 {
		timer := time.NewTimer(opts.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case out := <-ch:
		return out.resp, out.err
	case <-timeout:
		return nil, errTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (o *orchestrator) validate(resp *Response, opts Options, elapsed time.Duration) *ValidationError {
	if opts.ImageCount > 0 {
		return validateImageResponse(opts, elapsed)
	}
	return validateResponse(opts, resp.Content, elapsed, resp.Tokens)
}

func (o *orchestrator) transition(key string, s state) {
	o.logger.Debug().Str("key", key).Str("state", string(s)).Msg("state transition")
}

// normalizeRequest validates caller input and materializes the message
// list. Configuration failures are fatal and happen before the gate
// and before any attempt.
func normalizeRequest(req Request, opts Options, hasImages bool) ([]Message, *ConfigError) {
	if opts.RetryCount < 0 {
		return nil, &ConfigError{Reason: "retry count must not be negative"}
	}
	if opts.Timeout <= 0 {
		return nil, &ConfigError{Reason: "timeout must be positive"}
	}
	if opts.Temperature < 0 || opts.Temperature > 2 {
		return nil, &ConfigError{Reason: "temperature must be between 0 and 2"}
	}

	if opts.ImageCount > 0 {
		if !hasImages {
			return nil, &ConfigError{Reason: "no image client configured"}
		}
		if strings.TrimSpace(req.Prompt) == "" {
			return nil, &ConfigError{Reason: "image generation requires a prompt"}
		}
		return nil, nil
	}

	messages := req.Messages
	if len(messages) == 0 {
		if strings.TrimSpace(req.Prompt) == "" {
			return nil, &ConfigError{Reason: "empty conversation"}
		}
		messages = []Message{{Role: RoleUser, Content: req.Prompt}}
	}
	for _, m := range messages {
		switch m.Role {
		case RoleSystem, RoleUser, RoleAssistant:
		default:
			return nil, &ConfigError{Reason: "unknown message role " + string(m.Role)}
		}
	}
	return messages, nil
}

// promptText is the text handed to the moderation gate: the user-side
// content of the conversation.
func promptText(req Request, messages []Message) string {
	if len(messages) == 0 {
		return req.Prompt
	}
	var parts []string
	for _, m := range messages {
		if m.Role != RoleUser {
			continue
		}
		if m.Content != "" {
			parts = append(parts, m.Content)
		}
		for _, p := range m.Parts {
			if p.Type == PartText && p.Text != "" {
				parts = append(parts, p.Text)
			}
		}
	}
	return strings.Join(parts, "\n")
}
