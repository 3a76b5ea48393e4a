package rpc

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// RetryPolicy repeats calls that failed in transit. MaxAttempts counts the
// first try; one or less disables retries.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy tries three times with delays of about 0.5s then 1s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    4 * time.Second,
	}
}

// WithRetry enables retries of transient failures.
func WithRetry(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// HTTPStatusError is a reply with a status the client cannot read a
// JSON-RPC response from.
type HTTPStatusError struct {
	StatusCode int
	RetryAfter time.Duration
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// nonIdempotent lists methods that must not be sent twice.
//
//nolint:gochecknoglobals // Read-only lookup table
var nonIdempotent = map[string]bool{
	"eth_sendRawTransaction": true,
	"eth_sendTransaction":    true,
}

// retryable reports whether a failed call of method may be repeated.
// Only transport failures qualify; node error objects are answers.
func retryable(method string, err error) bool {
	if nonIdempotent[method] || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, kiterr.ErrNetworkError)
}

// backoff returns the wait before retry number attempt (0-based): an
// exponential delay with jitter in [d/2, d), raised to the node's
// Retry-After when it asked for longer, and capped at MaxDelay.
func (p RetryPolicy) backoff(attempt int, err error) time.Duration {
	d := p.BaseDelay << attempt
	if d <= 0 || d > p.MaxDelay {
		d = p.MaxDelay
	}
	if half := d / 2; half > 0 {
		d = half + rand.N(half) //nolint:gosec // G404: jitter does not need a CSPRNG
	}

	var status *HTTPStatusError
	if errors.As(err, &status) && status.RetryAfter > d {
		d = status.RetryAfter
	}
	return min(d, p.MaxDelay)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
