package anthropic

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/indexit/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
)

// Generator implements ai.TextGenerator using the Anthropic messages API.
type Generator struct {
	client      llms.Model
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.AnthropicAPIKey == "" {
		return nil, errors.New("anthropic: AnthropicAPIKey is required")
	}
	if config.AnthropicModel == "" {
		return nil, errors.New("anthropic: AnthropicModel is required")
	}

	client, err := anthropic.New(
		anthropic.WithToken(config.AnthropicAPIKey),
		anthropic.WithModel(config.AnthropicModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:      client,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
		logger:      slog.Default().With("component", "anthropic-generator"),
	}, nil
}

// NewGenerator creates a chat completion client using the provided configuration.
//
// Returns ai.TextGenerator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.TextGenerator, error) {
	return newGenerator(config)
}

// Complete sends the prompts to the model and returns the generated text.
func (g *Generator) Complete(ctx context.Context, system, prompt string) (string, error) {
	return g.generate(ctx, system, prompt)
}

// CompleteJSON behaves like Complete. The messages API has no JSON response
// mode, so callers rely on prompt instructions and tolerant response parsing.
func (g *Generator) CompleteJSON(ctx context.Context, system, prompt string) (string, error) {
	return g.generate(ctx, system, prompt)
}

func (g *Generator) generate(ctx context.Context, system, prompt string) (string, error) {
	content := make([]llms.MessageContent, 0, 2)
	if system != "" {
		content = append(content, llms.MessageContent{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(system),
			},
		})
	}
	content = append(content, llms.MessageContent{
		Role: llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{
			llms.TextPart(prompt),
		},
	})

	g.logger.Debug("generating completion", "prompt_length", len(prompt))

	response, err := g.client.GenerateContent(ctx, content,
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		g.logger.Error("failed to generate content", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		g.logger.Warn("model returned no choices")
		return "", errors.New("model returned no choices")
	}

	return response.Choices[0].Content, nil
}
