package store

import (
	"context"
	"fmt"
	"time"
)

// Backoff policy for store reads/writes: 1s, 2s, 4s... between
// attempts, a small fixed attempt count, then the failure surfaces.
var retryBaseDelay = time.Second

const DefaultAttempts = 3

// Retry runs fn up to maxAttempts times with geometric backoff between
// failures. The context cancels any pending wait.
func Retry(ctx context.Context, maxAttempts int, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}
		delay := retryBaseDelay * time.Duration(1<<uint(attempt-1))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("after %d attempts: %w", maxAttempts, err)
}
