package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements CompletionClient against an Anthropic-compatible
// messages endpoint. Custom base URLs cover the bigmodel.cn GLM gateway the
// default configuration points at.
type AnthropicClient struct {
	client  anthropic.Client
	retry   RetryConfig
	timeout time.Duration
}

// Compile-time check that AnthropicClient implements CompletionClient
var _ CompletionClient = (*AnthropicClient)(nil)

// ClientConfig configures the Anthropic-backed completion client
type ClientConfig struct {
	APIKey  string
	BaseURL string        // empty = api.anthropic.com
	Timeout time.Duration // per-request timeout, 0 = no deadline beyond ctx
	Retry   RetryConfig
}

// NewAnthropicClient creates a completion client for the given endpoint
func NewAnthropicClient(cfg ClientConfig) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	retry := cfg.Retry
	if retry.MaxRetries == 0 && retry.InitialBackoff == 0 {
		retry = DefaultRetryConfig()
	}
	return &AnthropicClient{
		client:  anthropic.NewClient(opts...),
		retry:   retry,
		timeout: cfg.Timeout,
	}, nil
}

// Complete issues one messages call and returns the response text.
// Transient API failures are retried with exponential backoff; the last
// error is returned once retries are exhausted.
func (c *AnthropicClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if req.Model == "" {
		return "", fmt.Errorf("model is required")
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	var response *anthropic.Message
	err := retryWithBackoff(ctx, c.retry, func(ctx context.Context) error {
		if c.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		resp, apiErr := c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:       anthropic.Model(req.Model),
			MaxTokens:   maxTokens,
			Temperature: anthropic.Float(req.Temperature),
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
			},
		})
		if apiErr != nil {
			return apiErr
		}
		response = resp
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var text string
	for _, block := range response.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text, nil
}
