package browser

import (
	"context"
	"errors"
	"time"

	"github.com/use-agent/kitchenscan/models"
)

// categorizeError wraps a raw browser error into a typed ExtractError.
// Deadline and cancellation errors, or an expired phase context, map to
// timeoutCode; anything else maps to failCode.
func categorizeError(phase context.Context, err error, timeoutCode, failCode, msg string) *models.ExtractError {
	switch {
	case errors.Is(err, context.DeadlineExceeded), phase.Err() == context.DeadlineExceeded:
		return models.NewExtractError(timeoutCode, msg, err)
	case errors.Is(err, context.Canceled), phase.Err() == context.Canceled:
		return models.NewExtractError(timeoutCode, "request canceled", err)
	default:
		return models.NewExtractError(failCode, msg, err)
	}
}

// withTimeout is context.WithTimeout that treats d <= 0 as no phase limit.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
