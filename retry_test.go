package llmrelay

import (
	"testing"
	"time"
)

func TestFixedDelay(t *testing.T) {
	d := FixedDelay(250 * time.Millisecond)

	for attempt := 0; attempt < 3; attempt++ {
		if got := d.Next(attempt); got != 250*time.Millisecond {
			t.Errorf("Next(%d) = %v, want 250ms", attempt, got)
		}
	}
}

func TestFixedDelay_NegativeClampedToZero(t *testing.T) {
	d := FixedDelay(-time.Second)
	if got := d.Next(0); got != 0 {
		t.Errorf("Next(0) = %v, want 0", got)
	}
}

func TestDelayFunc(t *testing.T) {
	d := DelayFunc(func(attempt int) time.Duration {
		return time.Duration(attempt) * 100 * time.Millisecond
	})

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 0},
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := d.Next(tt.attempt); got != tt.want {
			t.Errorf("Next(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestDelayFunc_NegativeClampedToZero(t *testing.T) {
	d := DelayFunc(func(int) time.Duration { return -time.Second })
	if got := d.Next(3); got != 0 {
		t.Errorf("Next(3) = %v, want 0", got)
	}
}

func TestRetryDelay_ZeroValue(t *testing.T) {
	var d RetryDelay
	if got := d.Next(0); got != 0 {
		t.Errorf("zero-value Next(0) = %v, want 0", got)
	}
}
