package llmrelay

import (
	"errors"
	"fmt"
	"strings"
)

// timeoutMessage is the uniform sentinel recorded when an attempt does
// not settle within its timeout, whatever the transport did underneath.
const timeoutMessage = "Request timed out"

var errTimeout = errors.New(timeoutMessage)

// ConfigError reports malformed caller input. It is raised before any
// attempt starts and is never retried.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid request: " + e.Reason
}

// ModerationError reports a flagged pre-flight verdict. It is fatal
// and consumes zero attempts.
type ModerationError struct {
	Categories []string
}

func (e *ModerationError) Error() string {
	if len(e.Categories) == 0 {
		return "prompt flagged by moderation"
	}
	return "prompt flagged by moderation: " + strings.Join(e.Categories, ", ")
}

// ValidationError reports a response-quality check failure. It is
// retryable on the same budget as transport failures.
type ValidationError struct {
	Check   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(check, format string, args ...any) *ValidationError {
	return &ValidationError{Check: check, Message: fmt.Sprintf(format, args...)}
}
