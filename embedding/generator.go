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


package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/indexit/ai"
	"github.com/poiesic/indexit/core"
	"github.com/poiesic/indexit/retry"
)

// DefaultModel is the embedding model assumed when none is configured.
const DefaultModel = "text-embedding-3-large"

// DefaultBatchSize is the number of texts sent per embedding request.
const DefaultBatchSize = 100

// DefaultDimension applies to models not listed in ModelDimensions.
const DefaultDimension = 1536

// ModelDimensions maps known embedding models to their vector dimensions.
var ModelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// ModelDimension returns the vector dimension for model, falling back to
// DefaultDimension for models it does not know about.
func ModelDimension(model string) int {
	if dimension, ok := ModelDimensions[model]; ok {
		return dimension
	}
	return DefaultDimension
}

// Generator turns chunk text into embedding vectors and assembles the
// vector records that get upserted into a store.
type Generator struct {
	embedder  ai.Embedder
	model     string
	dimension int
	batchSize int
	policy    retry.Policy
	logger    *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator) error

// WithModel sets the embedding model name and derives the vector dimension
// from it. Apply WithDimension afterwards to override the derived value.
func WithModel(model string) Option {
	return func(g *Generator) error {
		g.model = model
		g.dimension = ModelDimension(model)
		return nil
	}
}

// WithDimension overrides the vector dimension.
func WithDimension(dimension int) Option {
	return func(g *Generator) error {
		if dimension < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidDimension, dimension)
		}
		g.dimension = dimension
		return nil
	}
}

// WithBatchSize sets how many texts are embedded per request.
func WithBatchSize(size int) Option {
	return func(g *Generator) error {
		if size < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidBatchSize, size)
		}
		g.batchSize = size
		return nil
	}
}

// WithRetryPolicy sets the retry policy for embedding requests.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(g *Generator) error {
		if policy.MaxAttempts < 1 {
			return retry.ErrInvalidMaxAttempts
		}
		g.policy = policy
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
		return nil
	}
}

// New creates a Generator backed by the given embedder.
func New(embedder ai.Embedder, opts ...Option) (*Generator, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	g := &Generator{
		embedder:  embedder,
		model:     DefaultModel,
		dimension: ModelDimension(DefaultModel),
		batchSize: DefaultBatchSize,
		policy:    retry.DefaultPolicy(),
		logger:    slog.Default().With("component", "embedding-generator"),
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Dimension returns the configured vector dimension.
func (g *Generator) Dimension() int {
	return g.dimension
}

// cleanText normalizes text before it is sent to the embeddings endpoint.
// The endpoint rejects empty input, so a blank becomes a single space.
func cleanText(text string) string {
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if cleaned == "" {
		return " "
	}
	return cleaned
}

// Embed generates the embedding for a single text, retrying transient
// failures. Unlike EmbedBatch there is no zero-vector fallback: callers
// embedding one text (search queries in particular) need the real vector
// or the error.
func (g *Generator) Embed(ctx context.Context, text string) ([]float32, error) {
	var vector []float32
	err := retry.WithBackoff(ctx, g.policy, func() error {
		var embedErr error
		vector, embedErr = g.embedder.EmbedText(ctx, cleanText(text))
		return embedErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	return vector, nil
}

// EmbedBatch embeds texts in groups of the configured batch size. A failed
// group is retried item by item, and an item that still fails is replaced
// with a zero vector so its siblings survive. The returned slice always
// has one vector per input text; the error is non-nil only when the
// context is canceled.
//
// progress, when non-nil, is called after each group with the number of
// texts embedded so far and the total.
func (g *Generator) EmbedBatch(ctx context.Context, texts []string, progress func(done, total int)) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += g.batchSize {
		end := min(start+g.batchSize, len(texts))
		group := texts[start:end]

		cleaned := make([]string, len(group))
		for i, text := range group {
			cleaned[i] = cleanText(text)
		}

		embeddings, err := g.embedder.EmbedTexts(ctx, cleaned)
		if err == nil && len(embeddings) != len(group) {
			err = fmt.Errorf("embedding count mismatch: expected %d, got %d", len(group), len(embeddings))
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			g.logger.Warn("batch embedding failed, retrying texts individually",
				"batch_start", start,
				"batch_size", len(group),
				"error", err)

			embeddings = make([][]float32, 0, len(group))
			for _, text := range group {
				vector, itemErr := g.Embed(ctx, text)
				if itemErr != nil {
					if ctx.Err() != nil {
						return nil, ctx.Err()
					}
					g.logger.Error("substituting zero vector for failed text", "error", itemErr)
					vector = make([]float32, g.dimension)
				}
				embeddings = append(embeddings, vector)
			}
		}

		vectors = append(vectors, embeddings...)
		if progress != nil {
			progress(len(vectors), len(texts))
		}
	}

	g.logger.Info("embeddings generated", "count", len(vectors))
	return vectors, nil
}

// EmbedChunks embeds enriched chunks and assembles their vector records.
// When useEnhanced is true the enhanced text is embedded, otherwise the
// original chunk text. Items whose embedding failed after retries carry a
// zero vector. The error is non-nil on context cancellation or when a
// vector does not match the configured dimension.
func (g *Generator) EmbedChunks(ctx context.Context, enriched []core.EnrichedChunk, useEnhanced bool, progress func(done, total int)) ([]core.VectorRecord, error) {
	texts := make([]string, len(enriched))
	for i, chunk := range enriched {
		if useEnhanced {
			texts[i] = chunk.EnhancedText
		} else {
			texts[i] = chunk.Chunk.Text
		}
	}

	vectors, err := g.EmbedBatch(ctx, texts, progress)
	if err != nil {
		return nil, err
	}

	records := make([]core.VectorRecord, 0, len(enriched))
	for i, chunk := range enriched {
		record, err := g.BuildRecord(chunk, vectors[i])
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	g.logger.Info("vector records built", "count", len(records))
	return records, nil
}

// BuildRecord assembles the vector record for an enriched chunk. The record
// id is deterministic, so re-indexing a document overwrites its previous
// vectors in place. A vector whose length differs from the configured
// dimension means the model and the store disagree, which is fatal.
func (g *Generator) BuildRecord(enriched core.EnrichedChunk, vector []float32) (core.VectorRecord, error) {
	chunk := enriched.Chunk
	record := core.VectorRecord{
		ID:       core.VectorID(chunk.DocID, chunk.ChunkIndex),
		Values:   vector,
		Metadata: buildMetadata(enriched),
	}
	if err := core.ValidateVectorRecord(&record, g.dimension); err != nil {
		return core.VectorRecord{}, err
	}
	return record, nil
}
