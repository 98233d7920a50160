package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sacxy/codegraph/pkg/types"
)

type flakyClient struct {
	failures int
	calls    int
}

func (c *flakyClient) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	c.calls++
	if c.calls <= c.failures {
		return nil, errors.New("transient failure")
	}
	return &types.Response{Content: "ok"}, nil
}

func (c *flakyClient) Close() error { return nil }

func fastRetryConfig(maxRetries int) *RetryConfig {
	return &RetryConfig{
		MaxRetries:   maxRetries,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestRetryClientSucceedsAfterTransientFailures(t *testing.T) {
	inner := &flakyClient{failures: 2}
	client := NewRetryClient(inner, fastRetryConfig(3), nil)

	response, err := client.Chat(context.Background(), []types.Message{NewUserMessage("hi")})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if response.Content != "ok" {
		t.Errorf("expected content 'ok', got %q", response.Content)
	}
	if inner.calls != 3 {
		t.Errorf("expected 3 calls, got %d", inner.calls)
	}
}

func TestRetryClientExhaustsRetries(t *testing.T) {
	inner := &flakyClient{failures: 10}
	client := NewRetryClient(inner, fastRetryConfig(2), nil)

	_, err := client.Chat(context.Background(), []types.Message{NewUserMessage("hi")})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if inner.calls != 3 {
		t.Errorf("expected 3 calls (initial + 2 retries), got %d", inner.calls)
	}
}

func TestRetryClientHonorsContextCancellation(t *testing.T) {
	inner := &flakyClient{failures: 10}
	client := NewRetryClient(inner, &RetryConfig{
		MaxRetries:   5,
		InitialDelay: time.Second,
		MaxDelay:     time.Second,
		Multiplier:   1.0,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := client.Chat(ctx, []types.Message{NewUserMessage("hi")})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
