package llm

import (
	"context"
)

// MockGenerator is a configurable mock for testing generation flows.
// Set GenerateFunc to control behavior in tests.
type MockGenerator struct {
	// GenerateFunc is called when Generate is invoked.
	// If nil, returns an empty result and nil error.
	GenerateFunc func(ctx context.Context, prompt string, systemMessage string) (*GenerateResult, error)

	// ProviderName is returned by Provider. Defaults to "mock".
	ProviderName string

	// ModelName is returned by Model. Defaults to "mock-model".
	ModelName string

	// GenerateCalls counts Generate invocations for verification.
	GenerateCalls int

	// LastPrompt captures the most recent prompt for verification.
	LastPrompt string
}

// NewMockGenerator creates a new mock with sensible defaults.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{
		ProviderName: "mock",
		ModelName:    "mock-model",
	}
}

// Generate implements Generator.
func (m *MockGenerator) Generate(ctx context.Context, prompt string, systemMessage string) (*GenerateResult, error) {
	m.GenerateCalls++
	m.LastPrompt = prompt
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, systemMessage)
	}
	return &GenerateResult{}, nil
}

// Provider implements Generator.
func (m *MockGenerator) Provider() string { return m.ProviderName }

// Model implements Generator.
func (m *MockGenerator) Model() string { return m.ModelName }

// Ensure MockGenerator implements Generator at compile time.
var _ Generator = (*MockGenerator)(nil)
