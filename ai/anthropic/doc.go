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


// Package anthropic provides text generation using the Anthropic messages API.
//
// This package implements the ai.TextGenerator interface via langchaingo.
// Anthropic exposes no embedding models, so deployments selecting this
// provider still pair it with the OpenAI-compatible embedder from ai/openai.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithProvider(ai.ProviderAnthropic),
//	    ai.WithAPIKey("sk-..."),          // embeddings still need OpenAI
//	    ai.WithAnthropicAPIKey("sk-ant-..."),
//	)
//
//	generator, err := anthropic.NewGenerator(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	text, err := generator.Complete(ctx, systemPrompt, userPrompt)
package anthropic
