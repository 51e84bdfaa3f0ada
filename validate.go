package llmrelay

import (
	"encoding/json"
	"strings"
	"time"
)

// Response-quality checks. All pure, no side effects. The orchestrator
// evaluates them in the order JSON well-formedness, latency floor,
// token floor; the first violation aborts further checks for that
// attempt.

func checkWellFormedJSON(content string) *ValidationError {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" || !json.Valid([]byte(trimmed)) {
		return newValidationError("json", "response is not well-formed JSON")
	}
	return nil
}

// Floors are inclusive-reject: the threshold value itself is invalid.

func checkLatencyFloor(elapsed, floor time.Duration) *ValidationError {
	if floor > 0 && elapsed <= floor {
		return newValidationError("latency", "response latency %s at or below the %s floor", elapsed, floor)
	}
	return nil
}

func checkTokenFloor(tokens, floor int) *ValidationError {
	if floor > 0 && tokens <= floor {
		return newValidationError("tokens", "completion used %d tokens, at or below the floor of %d", tokens, floor)
	}
	return nil
}

// validateResponse runs the check chain for a chat attempt.
func validateResponse(opts Options, content string, elapsed time.Duration, tokens int) *ValidationError {
	if opts.ValidateJSON {
		if err := checkWellFormedJSON(content); err != nil {
			return err
		}
	}
	if err := checkLatencyFloor(elapsed, opts.MinResponseTime); err != nil {
		return err
	}
	return checkTokenFloor(tokens, opts.MinTokens)
}

// validateImageResponse runs the check chain for an image attempt.
// The JSON check never applies to the image path.
func validateImageResponse(opts Options, elapsed time.Duration) *ValidationError {
	if err := checkLatencyFloor(elapsed, opts.MinResponseTime); err != nil {
		return err
	}
	return checkTokenFloor(0, opts.MinTokens)
}
