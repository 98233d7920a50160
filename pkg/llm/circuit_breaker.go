package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Sacxy/codegraph/pkg/types"
)

// CircuitBreakerConfig controls the circuit breaker wrapping LLM calls.
type CircuitBreakerConfig struct {
	MaxRequests  uint32        `json:"max_requests" mapstructure:"max_requests"`
	Interval     time.Duration `json:"interval" mapstructure:"interval"`
	Timeout      time.Duration `json:"timeout" mapstructure:"timeout"`
	MinRequests  uint32        `json:"min_requests" mapstructure:"min_requests"`
	FailureRatio float64       `json:"failure_ratio" mapstructure:"failure_ratio"`
}

// DefaultCircuitBreakerConfig returns sensible circuit breaker defaults.
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		MaxRequests:  3,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.6,
	}
}

// CircuitBreakerClient wraps a Client with a circuit breaker so a failing
// model endpoint sheds load instead of queueing doomed requests.
type CircuitBreakerClient struct {
	client  Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewCircuitBreakerClient wraps the given client with a circuit breaker.
func NewCircuitBreakerClient(client Client, config *CircuitBreakerConfig, logger *slog.Logger) *CircuitBreakerClient {
	if config == nil {
		config = DefaultCircuitBreakerConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:        "llm",
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= config.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"name", name, "from", from.String(), "to", to.String())
		},
	}

	return &CircuitBreakerClient{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// Chat implements the Client interface through the circuit breaker.
func (c *CircuitBreakerClient) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.client.Chat(ctx, messages)
	})
	if err != nil {
		return nil, err
	}
	return result.(*types.Response), nil
}

// Close implements the Client interface.
func (c *CircuitBreakerClient) Close() error {
	return c.client.Close()
}
