package batchio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/llmrelay/llmrelay"
	"github.com/rs/zerolog"
)

// OutputRecord is one JSONL output line.
type OutputRecord struct {
	ID        string   `json:"id"`
	Success   bool     `json:"success"`
	Content   string   `json:"content,omitempty"`
	Tokens    int      `json:"tokens,omitempty"`
	ImageURLs []string `json:"image_urls,omitempty"`
	Attempts  int      `json:"attempts"`
	Error     string   `json:"error,omitempty"`
}

// Summary aggregates a whole run for the summary output format.
type Summary struct {
	Total         int     `json:"total"`
	Succeeded     int     `json:"succeeded"`
	Failed        int     `json:"failed"`
	TotalAttempts int     `json:"total_attempts"`
	TotalTokens   int     `json:"total_tokens"`
	SuccessRate   float64 `json:"success_rate"`
}

type Writer struct {
	w       io.Writer
	format  string
	logger  *zerolog.Logger
	summary Summary
}

func NewWriter(w io.Writer, format string, logger *zerolog.Logger) (*Writer, error) {
	switch format {
	case "jsonl", "summary":
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	return &Writer{w: w, format: format, logger: logger}, nil
}

func (w *Writer) Write(result llmrelay.ItemResult) error {
	record := toOutputRecord(result)

	w.summary.Total++
	w.summary.TotalAttempts += record.Attempts
	w.summary.TotalTokens += record.Tokens
	if record.Success {
		w.summary.Succeeded++
	} else {
		w.summary.Failed++
	}

	if w.format != "jsonl" {
		return nil
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal output record: %w", err)
	}
	if _, err := w.w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write output record: %w", err)
	}
	return nil
}

// Close flushes the summary when the summary format is selected.
func (w *Writer) Close() error {
	if w.format != "summary" {
		return nil
	}

	if w.summary.Total > 0 {
		w.summary.SuccessRate = float64(w.summary.Succeeded) / float64(w.summary.Total)
	}

	out, err := json.MarshalIndent(w.summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if _, err := w.w.Write(append(out, '\n')); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// Stats returns the aggregate counters collected so far.
func (w *Writer) Stats() Summary {
	return w.summary
}

func toOutputRecord(result llmrelay.ItemResult) OutputRecord {
	record := OutputRecord{
		ID:       result.Key,
		Success:  result.Succeeded(),
		Attempts: len(result.History),
		Error:    result.Err,
	}

	if result.Response != nil {
		record.Content = result.Response.Content
		record.Tokens = result.Response.Tokens
		record.ImageURLs = result.Response.ImageURLs
	}

	return record
}
