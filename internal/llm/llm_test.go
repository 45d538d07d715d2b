// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/pdiddy/content-engine/pkg/types"
)

func TestMain(m *testing.M) {
	// Override backoff to avoid real sleeps in retry tests.
	backoffBase = time.Millisecond
	os.Exit(m.Run())
}

// failNTimesBackend fails the first N calls, then succeeds.
type failNTimesBackend struct {
	failures  int
	callCount int
	reply     string
}

func (f *failNTimesBackend) Complete(_ context.Context, _ string, _ int) (string, error) {
	f.callCount++
	if f.callCount <= f.failures {
		return "", fmt.Errorf("transient error (call %d)", f.callCount)
	}
	return f.reply, nil
}

func TestCompleteWithRetry(t *testing.T) {
	tests := []struct {
		name       string
		failures   int
		maxRetries int
		wantCalls  int
		wantErr    bool
	}{
		{name: "first call succeeds", failures: 0, maxRetries: 3, wantCalls: 1},
		{name: "recovers within budget", failures: 2, maxRetries: 3, wantCalls: 3},
		{name: "exhausts retries", failures: 10, maxRetries: 2, wantCalls: 3, wantErr: true},
		{name: "zero retries uses default of 3", failures: 3, maxRetries: 0, wantCalls: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &failNTimesBackend{failures: tt.failures, reply: "ok"}

			reply, err := CompleteWithRetry(context.Background(), backend, "prompt", 100, tt.maxRetries)

			if tt.wantErr != (err != nil) {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if !tt.wantErr && reply != "ok" {
				t.Errorf("reply = %q, want %q", reply, "ok")
			}
			if backend.callCount != tt.wantCalls {
				t.Errorf("calls = %d, want %d", backend.callCount, tt.wantCalls)
			}
		})
	}
}

func TestCompleteWithRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	backend := &failNTimesBackend{failures: 10}
	_, err := CompleteWithRetry(ctx, backend, "prompt", 100, 3)
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if backend.callCount != 1 {
		t.Errorf("calls = %d, want 1 (no retries after cancellation)", backend.callCount)
	}
}

func TestNewOpenAIBackendRequiresKey(t *testing.T) {
	if _, err := NewOpenAIBackend(types.AIConfig{}); err == nil {
		t.Fatal("expected error for missing API key")
	}

	backend, err := NewOpenAIBackend(types.AIConfig{APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("NewOpenAIBackend: %v", err)
	}
	if backend.Model != "gpt-4o" {
		t.Errorf("default model = %q, want gpt-4o", backend.Model)
	}
}
