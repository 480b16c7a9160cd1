package mock

import (
	"github.com/halcyondata/paperdex/ai"
)

// MockProvider is a test double for ai.Provider bundling mock services.
type MockProvider struct {
	MockEmbedder *MockEmbedder
	MockAnswerer *MockAnswerer
}

var _ ai.Provider = (*MockProvider)(nil)

// NewMockProvider creates a provider with default deterministic mocks.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		MockEmbedder: NewMockEmbedder(),
		MockAnswerer: NewMockAnswerer(),
	}
}

// Embedder returns the mock embedding service.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.MockEmbedder
}

// Answerer returns the mock answer generation service.
func (p *MockProvider) Answerer() ai.Answerer {
	return p.MockAnswerer
}

// Close is a no-op.
func (p *MockProvider) Close() error {
	return nil
}
