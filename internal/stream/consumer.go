package stream

import "context"

// StreamConsumer pulls prompt messages from a broker and feeds them
// through the relay.
type StreamConsumer interface {
	Setup(ctx context.Context) error
	Start(ctx context.Context) error
	Stop() error
}
