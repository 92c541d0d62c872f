package secondary

import (
	"context"
	"time"
)

// Observer receives one event per operation boundary. Implementations must
// not fail the operation.
type Observer interface {
	// OperationCompleted reports a finished operation. key is what the
	// operation targeted: a receipt, a certificate number, or the status or
	// custodian a list filtered on. It is empty for ListAll. err is nil on
	// success.
	OperationCompleted(ctx context.Context, op string, key string, elapsed time.Duration, err error)

	// RecordSkipped reports a stored value that could not be decoded during
	// a scan and was left out of the result.
	RecordSkipped(ctx context.Context, key string, err error)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) OperationCompleted(context.Context, string, string, time.Duration, error) {}
func (NopObserver) RecordSkipped(context.Context, string, error)                            {}
