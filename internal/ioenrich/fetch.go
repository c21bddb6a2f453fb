package ioenrich

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/albummap/amdb/pkg/source"
)

// transientBackoff is the wait between attempts when a source fails
// without advertising its own backoff.
const transientBackoff = 2 * time.Second

// fetchWithRetry runs one source lookup with bounded retries. Not-found
// is permanent and returned as-is; throttle responses wait the
// advertised Retry-After before the next attempt; any other failure
// waits a fixed backoff. When attempts run out the last error is
// returned and the caller degrades the lookup to not-found.
func fetchWithRetry[T any](
	ctx context.Context,
	maxRetries int,
	what string,
	fn func(context.Context) (T, error),
) (T, error) {
	var zero T
	var lastErr error
	attempts := maxRetries + 1
	for i := 0; i < attempts; i++ {
		res, err := fn(ctx)
		if err == nil {
			return res, nil
		}
		if errors.Is(err, source.ErrNotFound) {
			return zero, err
		}
		lastErr = err

		wait := transientBackoff
		var throttled *source.ThrottledError
		if errors.As(err, &throttled) {
			wait = throttled.RetryAfter
			slog.Warn("Source throttled", "what", what, "retryAfter", wait)
		} else {
			slog.Warn("Source error", "what", what, "error", err)
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(wait):
		}
	}
	slog.Warn("Giving up on source lookup", "what", what, "error", lastErr)
	return zero, lastErr
}
