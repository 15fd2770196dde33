// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.TextGenerator and
// ai.Embedder for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	generator := mock.NewMockGenerator()
//	text, err := generator.CompleteJSON(ctx, system, prompt)
//
//	// Custom behavior injection
//	generator.CompleteJSONFunc = func(ctx context.Context, system, prompt string) (string, error) {
//	    return `{"topic": "custom"}`, nil
//	}
//
//	// Check call counts
//	count := generator.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockGenerator: Complete returns a fixed summary sentence, CompleteJSON
//     returns a canned analysis document that parses cleanly
//   - MockEmbedder: Returns deterministic unit vectors based on text hash,
//     with a configurable Dimension
package mock
