package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/logging"
)

// OpenAIClient generates obituary text through the OpenAI chat API.
type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// OpenAIConfig holds configuration for creating an OpenAI client.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // Optional override, e.g. for a compatible proxy
	Model   string // Model name, e.g. "gpt-4o"
}

// NewOpenAIClient creates a new OpenAI-backed generator.
func NewOpenAIClient(cfg *OpenAIConfig, logger *zap.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		logger: logger.Named("llm.openai"),
	}, nil
}

// Generate produces a chat completion for the given prompt.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string, systemMessage string) (*GenerateResult, error) {
	c.logger.Debug("generation request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(prompt)))

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		c.logger.Error("generation request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("openai completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	c.logger.Info("generation request completed",
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("elapsed", time.Since(start)))

	return &GenerateResult{
		Text:        resp.Choices[0].Message.Content,
		TotalTokens: resp.Usage.TotalTokens,
	}, nil
}

// Provider returns the provider name.
func (c *OpenAIClient) Provider() string { return ProviderOpenAI }

// Model returns the configured model name.
func (c *OpenAIClient) Model() string { return c.model }
