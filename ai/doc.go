// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides abstractions for the AI services used by the indexer.
//
// This package defines interfaces for AI operations including chat completion
// and text embeddings. It follows the dependency inversion principle, allowing
// the enrichment and embedding stages to depend on abstractions rather than
// concrete implementations.
//
// # Design Principles
//
// The package is designed around two key interfaces:
//
//   - TextGenerator: Produces chat completions, with an optional JSON mode
//   - Embedder: Generates vector embeddings from text
//
// # Implementation Packages
//
// The ai package includes three implementation sub-packages:
//
//   - ai/openai: Chat and embedding implementations for OpenAI-compatible APIs
//   - ai/anthropic: Chat implementation for the Anthropic messages API
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Embeddings are always served by the OpenAI-compatible endpoint; the
// Anthropic API exposes no embedding models, so selecting it as provider
// only changes which service performs text generation.
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewGenerator, openai.NewEmbedder,
// anthropic.NewGenerator) return INTERFACE types to enforce abstraction and
// prevent accidental coupling to concrete implementations.
//
//	generator, err := openai.NewGenerator(config)  // returns ai.TextGenerator
//
// Test utility constructors (mock.NewMockGenerator, mock.NewMockEmbedder)
// return CONCRETE types to enable test assertions and behavior injection via
// the mock's public fields and methods (CompleteFunc, CallCount, Reset, etc).
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithAPIKey(key))
//	generator, err := openai.NewGenerator(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	text, err := generator.Complete(ctx, "You summarize documents.", prompt)
package ai
