package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/logging"
)

// maxObituaryTokens bounds the length of a generated obituary.
const maxObituaryTokens = 2048

// AnthropicClient generates obituary text through the Anthropic messages API.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
	logger *zap.Logger
}

// AnthropicConfig holds configuration for creating an Anthropic client.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// NewAnthropicClient creates a new Anthropic-backed generator.
func NewAnthropicClient(cfg *AnthropicConfig, logger *zap.Logger) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	return &AnthropicClient{
		client: anthropic.NewClient(cfg.APIKey),
		model:  cfg.Model,
		logger: logger.Named("llm.claude"),
	}, nil
}

// Generate produces a message completion for the given prompt.
func (c *AnthropicClient) Generate(ctx context.Context, prompt string, systemMessage string) (*GenerateResult, error) {
	c.logger.Debug("generation request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(prompt)))

	start := time.Now()

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		System:    systemMessage,
		MaxTokens: maxObituaryTokens,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
	})
	if err != nil {
		c.logger.Error("generation request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("anthropic completion failed: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("no content in response")
	}

	totalTokens := resp.Usage.InputTokens + resp.Usage.OutputTokens

	c.logger.Info("generation request completed",
		zap.Int("total_tokens", totalTokens),
		zap.Duration("elapsed", time.Since(start)))

	return &GenerateResult{
		Text:        resp.Content[0].GetText(),
		TotalTokens: totalTokens,
	}, nil
}

// Provider returns the provider name.
func (c *AnthropicClient) Provider() string { return ProviderClaude }

// Model returns the configured model name.
func (c *AnthropicClient) Model() string { return c.model }
