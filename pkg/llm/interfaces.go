// Package llm provides the text-generation clients used for obituary
// writing. Two providers are supported (OpenAI and Anthropic); both sit
// behind the Generator interface so services can run either, both, or a
// mock in tests.
package llm

import (
	"context"
)

// Provider names, persisted alongside generated text.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
)

// GenerateResult carries one provider's generated text and token usage.
type GenerateResult struct {
	Text        string
	TotalTokens int
}

// Generator defines the interface for obituary text generation.
// Use this interface for dependency injection to enable mocking in tests.
type Generator interface {
	// Generate produces a completion for the given prompt.
	Generate(ctx context.Context, prompt string, systemMessage string) (*GenerateResult, error)

	// Provider returns the provider name ("openai" or "claude").
	Provider() string

	// Model returns the configured model name.
	Model() string
}

// Ensure both clients implement Generator at compile time.
var (
	_ Generator = (*OpenAIClient)(nil)
	_ Generator = (*AnthropicClient)(nil)
)
