// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recruit-analytics/internal/common/config"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Client wraps the Zeebe gRPC client with connection checks and retry logic.
type Client struct {
	client zbc.Client
	config *ClientConfig
}

// ClientConfig holds configuration for the Camunda/Zeebe client.
type ClientConfig struct {
	GatewayAddress         string
	UsePlaintextConnection bool
	ConnectionTimeout      time.Duration
	RequestTimeout         time.Duration
	RetryConfig            *RetryConfig
}

// RetryConfig defines retry behavior for transient failures.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

var DefaultRetryConfig = &RetryConfig{
	MaxRetries: 3,
	BaseDelay:  1 * time.Second,
	MaxDelay:   10 * time.Second,
}

// Failure kinds reported by BrokerError.
const (
	FailureUnavailable  = "unavailable"
	FailureTimeout      = "timeout"
	FailureNotFound     = "not_found"
	FailureConflict     = "conflict"
	FailureUnauthorized = "unauthorized"
	FailureUnknown      = "unknown"
)

// BrokerError is a classified failure of a broker command.
type BrokerError struct {
	Operation string
	Kind      string
	Attempts  int
	Err       error
}

func (e *BrokerError) Error() string {
	msg := fmt.Sprintf("zeebe operation '%s' failed (%s)", e.Operation, e.Kind)
	if e.Attempts > 1 {
		msg += fmt.Sprintf(" after %d attempts", e.Attempts)
	}
	return msg + ": " + e.Err.Error()
}

func (e *BrokerError) Unwrap() error {
	return e.Err
}

// ConfigFromSettings builds a client config from the camunda section.
func ConfigFromSettings(c config.CamundaConfig) *ClientConfig {
	return &ClientConfig{
		GatewayAddress:         c.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      time.Duration(c.Timeout) * time.Millisecond,
		RequestTimeout:         time.Duration(c.RequestTimeout) * time.Millisecond,
		RetryConfig:            DefaultRetryConfig,
	}
}

// NewClient creates a client for a local plaintext gateway.
func NewClient(address string) (*Client, error) {
	return NewClientWithConfig(&ClientConfig{
		GatewayAddress:         address,
		UsePlaintextConnection: true,
		ConnectionTimeout:      10 * time.Second,
		RequestTimeout:         30 * time.Second,
		RetryConfig:            DefaultRetryConfig,
	})
}

// NewClientWithConfig connects to the gateway and waits for a topology
// response, retrying while the broker is still starting.
func NewClientWithConfig(cfg *ClientConfig) (*Client, error) {
	if cfg.RetryConfig == nil {
		cfg.RetryConfig = DefaultRetryConfig
	}

	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.GatewayAddress,
		UsePlaintextConnection: cfg.UsePlaintextConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	c := &Client{client: zeebeClient, config: cfg}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectionTimeout*time.Duration(cfg.RetryConfig.MaxRetries+1))
	defer cancel()

	if err := c.ExecuteWithRetry(ctx, "topology", c.HealthCheck); err != nil {
		zeebeClient.Close()
		return nil, fmt.Errorf("failed to connect to Zeebe broker at %s: %w", cfg.GatewayAddress, err)
	}

	return c, nil
}

// GetClient returns the raw Zeebe client for job worker registration.
func (c *Client) GetClient() zbc.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}

// ExecuteWithRetry runs fn with exponential backoff. Only transient failures
// are retried; the final failure is returned as a *BrokerError.
func (c *Client) ExecuteWithRetry(ctx context.Context, operation string, fn func(context.Context) error) error {
	retry := c.config.RetryConfig
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		kind := classify(err)
		if !retryable(kind) || attempt == retry.MaxRetries {
			return &BrokerError{Operation: operation, Kind: kind, Attempts: attempt + 1, Err: err}
		}

		delay := retry.BaseDelay * time.Duration(1<<attempt)
		if delay > retry.MaxDelay {
			delay = retry.MaxDelay
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("operation %s cancelled after %d attempts: %w", operation, attempt+1, ctx.Err())
		}
	}
}

// classify maps a gRPC error message to a failure kind.
func classify(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "connection refused", "connection reset", "unavailable", "unreachable", "broken pipe"):
		return FailureUnavailable
	case containsAny(msg, "timeout", "deadline exceeded"):
		return FailureTimeout
	case containsAny(msg, "not found"):
		return FailureNotFound
	case containsAny(msg, "already exists"):
		return FailureConflict
	case containsAny(msg, "permission denied", "unauthorized", "unauthenticated"):
		return FailureUnauthorized
	default:
		return FailureUnknown
	}
}

func retryable(kind string) bool {
	return kind == FailureUnavailable || kind == FailureTimeout
}

func containsAny(msg string, phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// HealthCheck asks the broker for its topology.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.ConnectionTimeout)
	defer cancel()

	if _, err := c.client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}
