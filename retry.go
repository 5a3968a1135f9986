package netbird

import (
	"context"
	"errors"
	"math"
	"net"
	"time"
)

// DefaultRetryPolicy is the default retry condition used by [Client]. It
// retries on transport-level failures ([NetworkError] and [TimeoutError])
// and never on classified API errors: any 4xx/5xx response propagates to the
// caller on first occurrence. DNS resolution failures are not retried.
//
// Supply a custom function via [WithRetryPolicy] to override this behaviour.
func DefaultRetryPolicy(err error) bool {
	if err == nil {
		return false
	}

	// Don't retry on DNS resolution errors
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return false
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}

	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}

// backoffDelay computes the exponential backoff delay before the attempt
// following the given zero-based attempt number.
func backoffDelay(base time.Duration, factor float64, attempt int) time.Duration {
	return time.Duration(float64(base) * math.Pow(factor, float64(attempt)))
}

// sleepContext suspends for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
