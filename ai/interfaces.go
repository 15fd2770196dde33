package ai

import "context"

// TextGenerator produces chat completions from prompt text.
// Implementations must be thread-safe for concurrent use.
type TextGenerator interface {
	// Complete sends the system and user prompts to the model and returns
	// the generated text. Returns an error if the call fails or the model
	// produces no output.
	Complete(ctx context.Context, system, prompt string) (string, error)

	// CompleteJSON behaves like Complete but asks the model to emit a JSON
	// object when the backing API supports a JSON response mode. Callers
	// must still validate the returned text: not every service can enforce
	// the format.
	CompleteJSON(ctx context.Context, system, prompt string) (string, error)
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
