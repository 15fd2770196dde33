package mock

import (
	"context"
	"sync/atomic"

	"github.com/poiesic/indexit/ai"
)

// defaultAnalysisJSON is the canned response CompleteJSON returns when no
// custom function is set. It parses as a valid chunk analysis document.
const defaultAnalysisJSON = `{
  "contextual_summary": "A short summary of the passage.",
  "key_concepts": ["testing", "fixtures"],
  "keywords": ["test", "mock", "fixture"],
  "topic": "test fixtures",
  "questions": ["What is this passage about?"]
}`

// MockGenerator is a test double for ai.TextGenerator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// CompleteFunc is called by Complete if set.
	// If nil, returns a fixed plain-text response.
	CompleteFunc func(ctx context.Context, system, prompt string) (string, error)

	// CompleteJSONFunc is called by CompleteJSON if set.
	// If nil, returns a canned JSON analysis document.
	CompleteJSONFunc func(ctx context.Context, system, prompt string) (string, error)

	callCount atomic.Int64
}

var _ ai.TextGenerator = (*MockGenerator)(nil)

// NewMockGenerator creates a mock generator with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via CallCount().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Complete returns a fixed plain-text response unless CompleteFunc is set.
func (m *MockGenerator) Complete(ctx context.Context, system, prompt string) (string, error) {
	m.callCount.Add(1)

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, prompt)
	}

	return "A concise summary of the document.", nil
}

// CompleteJSON returns a canned JSON analysis unless CompleteJSONFunc is set.
func (m *MockGenerator) CompleteJSON(ctx context.Context, system, prompt string) (string, error) {
	m.callCount.Add(1)

	if m.CompleteJSONFunc != nil {
		return m.CompleteJSONFunc(ctx, system, prompt)
	}

	return defaultAnalysisJSON, nil
}

// CallCount returns the number of times any method was called.
func (m *MockGenerator) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockGenerator) Reset() {
	m.callCount.Store(0)
	m.CompleteFunc = nil
	m.CompleteJSONFunc = nil
}
