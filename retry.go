package llmrelay

import "time"

// RetryDelay describes how long to wait between a failed attempt and
// the next one: either a fixed duration or a function of the
// zero-based index of the attempt that just failed. The zero value
// means no delay.
type RetryDelay struct {
	fixed time.Duration
	fn    func(attempt int) time.Duration
}

// FixedDelay returns a RetryDelay that waits the same duration after
// every failed attempt. Negative durations are treated as zero.
func FixedDelay(d time.Duration) RetryDelay {
	if d < 0 {
		d = 0
	}
	return RetryDelay{fixed: d}
}

// DelayFunc returns a RetryDelay computed from the zero-based index of
// the attempt that just failed. The function must be pure; it is
// re-evaluated on every retry of the same request.
func DelayFunc(fn func(attempt int) time.Duration) RetryDelay {
	return RetryDelay{fn: fn}
}

// Next resolves the delay to apply after the given failed attempt.
func (d RetryDelay) Next(attempt int) time.Duration {
	if d.fn != nil {
		if v := d.fn(attempt); v > 0 {
			return v
		}
		return 0
	}
	return d.fixed
}
