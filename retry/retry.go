// Package retry provides exponential backoff retry logic with jitter.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Config holds retry configuration.
type Config struct {
	// MaxRetries is the maximum number of retry attempts.
	MaxRetries int
	// InitialBackoff is the initial delay before retrying.
	InitialBackoff time.Duration
	// MaxBackoff is the maximum delay between retries.
	MaxBackoff time.Duration
	// Multiplier is the exponential backoff multiplier.
	Multiplier float64
	// JitterFraction is the fraction of backoff used for jitter (0.0-1.0).
	JitterFraction float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxRetries:     3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.2, // +/- 20% jitter
	}
}

// ErrorClassifier determines if an error is retryable.
type ErrorClassifier func(error) bool

// IsRetryable is the default error classifier. Context errors are permanent;
// everything else is assumed transient.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// Do executes fn with retry logic, using the provided classifier to determine
// if errors are retryable.
func Do(ctx context.Context, cfg Config, classifier ErrorClassifier, fn func(context.Context) error) error {
	if classifier == nil {
		classifier = IsRetryable
	}

	var lastErr error
	backoff := cfg.InitialBackoff

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := fn(ctx); err == nil {
			return nil
		} else {
			lastErr = err
			if !classifier(err) {
				// Permanent error, don't retry
				return err
			}
		}

		// Last attempt, don't sleep
		if attempt == cfg.MaxRetries {
			break
		}

		sleep := backoff + jitter(backoff, cfg.JitterFraction)
		if sleep > cfg.MaxBackoff {
			sleep = cfg.MaxBackoff
		}

		select {
		case <-time.After(sleep):
			// Continue to next attempt
		case <-ctx.Done():
			return ctx.Err()
		}

		backoff = time.Duration(float64(backoff) * cfg.Multiplier)
		if backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}

	return &ExhaustedError{Retries: cfg.MaxRetries, Err: lastErr}
}

// jitter returns a random duration in range [-fraction*d, +fraction*d].
func jitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return 0
	}
	jitterRange := float64(d) * fraction
	jitterValue := (rand.Float64() - 0.5) * 2 * jitterRange
	return time.Duration(jitterValue)
}

// ExhaustedError wraps the final error after all retries were consumed.
type ExhaustedError struct {
	Retries int
	Err     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("failed after %d retries: %v", e.Retries, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}
