// Package batchio reads JSONL prompt files and writes relay results
// for the batch CLI.
package batchio

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/llmrelay/llmrelay"
	"github.com/rs/zerolog"
)

// PromptRecord is one JSONL input line. Besides the prompt itself it
// carries optional per-request overrides; absent fields inherit the
// relay defaults.
type PromptRecord struct {
	ID                string             `json:"id"`
	Prompt            string             `json:"prompt"`
	Messages          []llmrelay.Message `json:"messages,omitempty"`
	Model             *string            `json:"model,omitempty"`
	Temperature       *float64           `json:"temperature,omitempty"`
	TimeoutMs         *int               `json:"timeout_ms,omitempty"`
	RetryCount        *int               `json:"retry_count,omitempty"`
	RetryDelayMs      *int               `json:"retry_delay_ms,omitempty"`
	MinTokens         *int               `json:"min_tokens,omitempty"`
	MinResponseTimeMs *int               `json:"min_response_time_ms,omitempty"`
	ValidateJSON      *bool              `json:"validate_json,omitempty"`
	Priority          int                `json:"priority,omitempty"`
}

// InputRecord pairs a parsed line with its position in the file so
// parse failures stay addressable.
type InputRecord struct {
	LineNumber int
	Request    PromptRecord
	Error      error
}

// Item converts the record into a dispatchable batch item. Records
// without an ID receive a generated one so results stay addressable.
func (r *PromptRecord) Item() llmrelay.BatchItem {
	key := r.ID
	if key == "" {
		key = uuid.NewString()
	}

	return llmrelay.BatchItem{
		Request: llmrelay.Request{
			Key:      key,
			Prompt:   r.Prompt,
			Messages: r.Messages,
			Options:  r.overrides(),
		},
		Priority: r.Priority,
	}
}

func (r *PromptRecord) overrides() *llmrelay.Overrides {
	o := &llmrelay.Overrides{
		Model:        r.Model,
		Temperature:  r.Temperature,
		MinTokens:    r.MinTokens,
		RetryCount:   r.RetryCount,
		ValidateJSON: r.ValidateJSON,
	}
	if r.TimeoutMs != nil {
		d := time.Duration(*r.TimeoutMs) * time.Millisecond
		o.Timeout = &d
	}
	if r.MinResponseTimeMs != nil {
		d := time.Duration(*r.MinResponseTimeMs) * time.Millisecond
		o.MinResponseTime = &d
	}
	if r.RetryDelayMs != nil {
		delay := llmrelay.FixedDelay(time.Duration(*r.RetryDelayMs) * time.Millisecond)
		o.RetryDelay = &delay
	}
	if *o == (llmrelay.Overrides{}) {
		return nil
	}
	return o
}

type Reader struct {
	r      io.Reader
	logger *zerolog.Logger
}

func NewReader(r io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{r: r, logger: logger}
}

// ReadAll streams parsed records on the returned channel. Blank lines
// are skipped, malformed lines are emitted with Error set, and the
// channel closes on EOF or context cancellation.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	out := make(chan InputRecord)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r.r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		lineNumber := 0
		for scanner.Scan() {
			lineNumber++

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			record := InputRecord{LineNumber: lineNumber}
			if err := json.Unmarshal([]byte(line), &record.Request); err != nil {
				r.logger.Error().Int("line", lineNumber).Err(err).Msg("Failed to parse input line")
				record.Error = err
			}

			select {
			case out <- record:
			case <-ctx.Done():
				r.logger.Warn().Int("line", lineNumber).Msg("Reader stopped by context")
				return
			}
		}

		if err := scanner.Err(); err != nil {
			select {
			case out <- InputRecord{LineNumber: lineNumber + 1, Error: err}:
			case <-ctx.Done():
			}
		}
	}()

	return out
}
