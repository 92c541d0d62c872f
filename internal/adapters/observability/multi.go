package observability

import (
	"context"
	"time"

	"github.com/example/patta/internal/ports/secondary"
)

// Multi fans every event out to each observer in order.
type Multi []secondary.Observer

func (m Multi) OperationCompleted(ctx context.Context, op, key string, elapsed time.Duration, err error) {
	for _, o := range m {
		o.OperationCompleted(ctx, op, key, elapsed, err)
	}
}

func (m Multi) RecordSkipped(ctx context.Context, key string, err error) {
	for _, o := range m {
		o.RecordSkipped(ctx, key, err)
	}
}

var _ secondary.Observer = Multi(nil)
