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


package ai

import (
	"errors"
	"strings"
)

// Provider identifiers accepted by Config.Provider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds configuration for AI service providers.
type Config struct {
	// Provider selects the text generation service, either ProviderOpenAI
	// or ProviderAnthropic. Embeddings always use the OpenAI-compatible
	// endpoint regardless of this setting.
	// Default: ProviderOpenAI
	Provider string

	// APIKey authenticates against the OpenAI API. Required unless BaseURL
	// points at a local OpenAI-compatible server that skips authentication.
	APIKey string

	// BaseURL overrides the OpenAI API endpoint.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	BaseURL string

	// ChatModel is the model identifier used for chat completions.
	// Example: "gpt-4-turbo-preview", "gpt-4o-mini"
	ChatModel string

	// EmbeddingModel is the model identifier used for text embeddings.
	// Example: "text-embedding-3-large", "text-embedding-3-small"
	EmbeddingModel string

	// AnthropicAPIKey authenticates against the Anthropic API.
	// Required only when Provider is ProviderAnthropic.
	AnthropicAPIKey string

	// AnthropicModel is the model identifier for Anthropic chat completions.
	// Example: "claude-3-5-sonnet-20241022"
	AnthropicModel string

	// Temperature controls sampling randomness for chat completions.
	// Default: 0.3
	Temperature float64

	// MaxTokens caps the length of each chat completion.
	// Default: 1024
	MaxTokens int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider selects the text generation provider.
func WithProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithAPIKey sets the OpenAI API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithBaseURL sets the OpenAI-compatible endpoint URL.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithChatModel sets the chat completion model identifier.
func WithChatModel(model string) ConfigOption {
	return func(c *Config) {
		c.ChatModel = model
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithAnthropicAPIKey sets the Anthropic API key.
func WithAnthropicAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.AnthropicAPIKey = key
	}
}

// WithAnthropicModel sets the Anthropic chat model identifier.
func WithAnthropicModel(model string) ConfigOption {
	return func(c *Config) {
		c.AnthropicModel = model
	}
}

// WithTemperature sets the sampling temperature for chat completions.
func WithTemperature(temperature float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = temperature
	}
}

// WithMaxTokens sets the completion length cap.
func WithMaxTokens(maxTokens int) ConfigOption {
	return func(c *Config) {
		c.MaxTokens = maxTokens
	}
}

// DefaultConfig returns a Config with sensible defaults for the hosted
// OpenAI and Anthropic APIs. API keys must still be provided before the
// configuration validates.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderOpenAI,
		ChatModel:      "gpt-4-turbo-preview",
		EmbeddingModel: "text-embedding-3-large",
		AnthropicModel: "claude-3-5-sonnet-20241022",
		Temperature:    0.3,
		MaxTokens:      1024,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//   cfg := NewConfig(
//       WithAPIKey("sk-..."),
//       WithEmbeddingModel("text-embedding-3-small"),
//   )
//
// Example with a local OpenAI-compatible server:
//   cfg := NewConfig(
//       WithBaseURL("http://localhost:11434/v1"),
//       WithChatModel("qwen2.5:3b"),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to BaseURL if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.BaseURL != "" && !strings.HasSuffix(c.BaseURL, "/v1") {
		// Remove trailing slash if present before adding /v1
		c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
		c.BaseURL = c.BaseURL + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	// Normalize first to ensure the endpoint is in correct format
	c.Normalize()

	if c.Provider != ProviderOpenAI && c.Provider != ProviderAnthropic {
		return errors.New(`ai config: Provider must be "openai" or "anthropic"`)
	}
	if c.APIKey == "" && c.BaseURL == "" {
		return errors.New("ai config: APIKey is required")
	}
	if c.ChatModel == "" {
		return errors.New("ai config: ChatModel is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.Provider == ProviderAnthropic {
		if c.AnthropicAPIKey == "" {
			return errors.New(`ai config: AnthropicAPIKey is required when Provider is "anthropic"`)
		}
		if c.AnthropicModel == "" {
			return errors.New(`ai config: AnthropicModel is required when Provider is "anthropic"`)
		}
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("ai config: Temperature must be between 0 and 2")
	}
	if c.MaxTokens < 1 {
		return errors.New("ai config: MaxTokens must be positive")
	}
	return nil
}
