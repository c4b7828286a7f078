package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), nil, func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoRetriesTransientError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), nil, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("permanent")
	classifier := func(err error) bool { return !errors.Is(err, permanent) }

	calls := 0
	err := Do(context.Background(), fastConfig(), classifier, func(ctx context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("error = %v, want permanent error unchanged", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoExhaustsRetries(t *testing.T) {
	underlying := errors.New("always fails")
	calls := 0
	err := Do(context.Background(), fastConfig(), nil, func(ctx context.Context) error {
		calls++
		return underlying
	})

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("error = %v, want *ExhaustedError", err)
	}
	if exhausted.Retries != 3 {
		t.Errorf("Retries = %d, want 3", exhausted.Retries)
	}
	if !errors.Is(err, underlying) {
		t.Error("ExhaustedError does not unwrap to the underlying error")
	}
	if calls != 4 { // initial attempt + 3 retries
		t.Errorf("calls = %d, want 4", calls)
	}
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := fastConfig()
	cfg.InitialBackoff = time.Minute // would hang without cancellation
	cfg.MaxBackoff = time.Minute

	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, cfg, nil, func(ctx context.Context) error {
			return errors.New("transient")
		})
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Do did not return after cancellation")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"wrapped canceled", errors.Join(errors.New("wrap"), context.Canceled), false},
		{"generic", errors.New("boom"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestJitterBounds(t *testing.T) {
	d := 100 * time.Millisecond
	for i := 0; i < 100; i++ {
		j := jitter(d, 0.2)
		if j < -20*time.Millisecond || j > 20*time.Millisecond {
			t.Fatalf("jitter = %v, want within +/-20ms", j)
		}
	}
	if jitter(d, 0) != 0 {
		t.Error("jitter with zero fraction != 0")
	}
}
