// Package deepseek implements the DeepSeek chat-completion client.
// This package handles the AI collaborator surface of the hub: a single
// bounded passthrough with retry and a circuit breaker, degrading to a
// deterministic local reply whenever the upstream cannot answer.
package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/deutschflow/deutschflow-hub/internal/domain/catalog"
	"github.com/deutschflow/deutschflow-hub/pkg/circuitbreaker"
	"github.com/deutschflow/deutschflow-hub/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Reply sources reported to the caller.
const (
	SourceDeepSeek = "deepseek"
	SourceFallback = "fallback"
)

// Tutor persona for the language assistant.
const systemPrompt = "Ты — помощник по изучению немецкого. Отвечай кратко, с примером и мини-заданием."

// Config contains configuration for the DeepSeek client.
type Config struct {
	// BaseURL is the chat-completion endpoint.
	BaseURL string

	// APIKey is the bearer token. An empty key disables the upstream
	// entirely: every prompt resolves to the fallback reply.
	APIKey string

	// Model is the chat model name.
	Model string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// Temperature and MaxTokens bound the completion.
	Temperature float64
	MaxTokens   int

	// Logger for structured logging.
	Logger *slog.Logger
}

// DefaultConfig returns sensible defaults for the DeepSeek API.
func DefaultConfig() Config {
	return Config{
		BaseURL:     "https://api.deepseek.com/v1/chat/completions",
		Model:       "deepseek-chat",
		Timeout:     15 * time.Second,
		Temperature: 0.6,
		MaxTokens:   220,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the DeepSeek chat-completion client. It implements the
// assistant port of the application layer: Ask never returns an error,
// upstream trouble turns into a fallback reply.
type Client struct {
	config         Config
	httpClient     *http.Client
	logger         *slog.Logger
	retrier        *retry.Retrier
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewClient creates a new DeepSeek client.
func NewClient(config Config) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.Model == "" {
		config.Model = DefaultConfig().Model
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if config.Temperature == 0 {
		config.Temperature = DefaultConfig().Temperature
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultConfig().MaxTokens
	}

	logger := config.Logger

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
		retrier: retry.New(
			retry.WithMaxAttempts(2),
			retry.WithInitialDelay(200*time.Millisecond),
			retry.WithMaxDelay(2*time.Second),
		),
		circuitBreaker: circuitbreaker.New("deepseek",
			circuitbreaker.WithFailureThreshold(4),
			circuitbreaker.WithTimeout(45*time.Second),
			circuitbreaker.WithOnStateChange(func(name string, from, to circuitbreaker.State) {
				logger.Warn("circuit state changed", "breaker", name, "from", from.String(), "to", to.String())
			}),
		),
	}
}

// Ask forwards the prompt to DeepSeek and returns the reply text with its
// source. Missing API key, open circuit, timeouts and upstream errors all
// resolve to the deterministic fallback.
func (c *Client) Ask(ctx context.Context, prompt string) (string, string) {
	if c.config.APIKey == "" {
		return catalog.FallbackReply(prompt), SourceFallback
	}

	var reply string
	err := c.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Do(ctx, func(ctx context.Context) error {
			text, err := c.complete(ctx, prompt)
			if err != nil {
				return err
			}
			reply = text
			return nil
		})
	})
	if err != nil {
		c.logger.Warn("deepseek request failed, serving fallback", "error", err)
		return catalog.FallbackReply(prompt), SourceFallback
	}

	if reply == "" {
		return catalog.FallbackReply(prompt), SourceFallback
	}
	return reply, SourceDeepSeek
}

// complete performs one chat-completion round trip.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	payload := ChatRequestDTO{
		Model: c.config.Model,
		Messages: []MessageDTO{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", retry.Retryable(fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", retry.Retryable(fmt.Errorf("read response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// fallthrough to decode
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", retry.Retryable(fmt.Errorf("deepseek returned status %d: %s", resp.StatusCode, apiErrorMessage(data)))
	default:
		return "", retry.Permanent(fmt.Errorf("deepseek returned status %d: %s", resp.StatusCode, apiErrorMessage(data)))
	}

	var completion ChatResponseDTO
	if err := json.Unmarshal(data, &completion); err != nil {
		return "", retry.Permanent(fmt.Errorf("decode response: %w", err))
	}

	return completion.FirstReply(), nil
}

func apiErrorMessage(data []byte) string {
	var apiErr ErrorResponseDTO
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	return "no error detail"
}
