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


package indexit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/indexit/ai"
	"github.com/poiesic/indexit/ai/anthropic"
	"github.com/poiesic/indexit/ai/openai"
	"github.com/poiesic/indexit/chunking"
	"github.com/poiesic/indexit/config"
	"github.com/poiesic/indexit/embedding"
	"github.com/poiesic/indexit/enrich"
	"github.com/poiesic/indexit/indexer"
	"github.com/poiesic/indexit/source"
	"github.com/poiesic/indexit/source/postgres"
	"github.com/poiesic/indexit/vectorstore"
	"github.com/poiesic/indexit/vectorstore/badger"
	"github.com/poiesic/indexit/vectorstore/pgvector"
	"github.com/poiesic/indexit/vectorstore/pinecone"
)

// System is a fully wired indexing pipeline: document source, chunker,
// enricher, embedding generator, vector store and the indexer that
// drives them, all constructed from one Settings value.
type System struct {
	source  source.Source
	store   vectorstore.Store
	indexer *indexer.Indexer
	logger  *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	source    source.Source
	store     vectorstore.Store
	counter   chunking.TokenCounter
	generator ai.TextGenerator
	embedder  ai.Embedder
}

// WithSource replaces the settings-built PostgreSQL source, for callers
// that read documents from somewhere else.
func WithSource(src source.Source) SystemOption {
	return func(o *systemOptions) {
		o.source = src
	}
}

// WithStore replaces the settings-selected vector store backend.
func WithStore(store vectorstore.Store) SystemOption {
	return func(o *systemOptions) {
		o.store = store
	}
}

// WithTokenCounter replaces the tiktoken counter, for tokenizers the
// tiktoken registry does not cover.
func WithTokenCounter(counter chunking.TokenCounter) SystemOption {
	return func(o *systemOptions) {
		o.counter = counter
	}
}

// WithTextGenerator replaces the settings-selected chat client used for
// enrichment.
func WithTextGenerator(generator ai.TextGenerator) SystemOption {
	return func(o *systemOptions) {
		o.generator = generator
	}
}

// WithEmbedder replaces the settings-built embedding client.
func WithEmbedder(embedder ai.Embedder) SystemOption {
	return func(o *systemOptions) {
		o.embedder = embedder
	}
}

// NewSystem builds every pipeline component from settings and connects
// them. Components replaced through options are used as given; the rest
// are constructed from the relevant settings group. Close releases all
// of them, replaced ones included.
func NewSystem(ctx context.Context, settings *config.Settings, opts ...SystemOption) (*System, error) {
	if settings == nil {
		return nil, errors.New("settings are required")
	}

	options := &systemOptions{}
	for _, opt := range opts {
		opt(options)
	}

	template, err := enrich.ParseTemplate(settings.Enrich.Template)
	if err != nil {
		return nil, err
	}
	strategy, err := chunking.ParseStrategy(settings.Chunking.Strategy)
	if err != nil {
		return nil, err
	}

	counter := options.counter
	if counter == nil {
		counter, err = chunking.NewTiktokenCounter(settings.Chunking.Encoding)
		if err != nil {
			return nil, fmt.Errorf("failed to create token counter: %w", err)
		}
	}

	chunker, err := chunking.New(counter, chunking.Config{
		ChunkSize:    settings.Chunking.ChunkSize,
		ChunkOverlap: settings.Chunking.ChunkOverlap,
		MaxChunkSize: settings.Chunking.MaxChunkSize,
	}, chunking.WithStrategy(strategy))
	if err != nil {
		return nil, err
	}

	aiConfig := ai.NewConfig(
		ai.WithProvider(settings.Enrich.Provider),
		ai.WithAPIKey(settings.OpenAI.APIKey),
		ai.WithBaseURL(settings.OpenAI.BaseURL),
		ai.WithChatModel(settings.OpenAI.Model),
		ai.WithEmbeddingModel(settings.OpenAI.EmbeddingModel),
		ai.WithAnthropicAPIKey(settings.Anthropic.APIKey),
		ai.WithAnthropicModel(settings.Anthropic.Model),
	)
	needsClient := options.embedder == nil ||
		(settings.Enrich.UseContext && options.generator == nil)
	if needsClient {
		if err := aiConfig.Validate(); err != nil {
			return nil, fmt.Errorf("invalid AI settings: %w", err)
		}
	}

	var enricher indexer.Enricher
	if settings.Enrich.UseContext {
		generator := options.generator
		if generator == nil {
			switch settings.Enrich.Provider {
			case ai.ProviderAnthropic:
				generator, err = anthropic.NewGenerator(aiConfig)
			default:
				generator, err = openai.NewGenerator(aiConfig)
			}
			if err != nil {
				return nil, fmt.Errorf("failed to create text generator: %w", err)
			}
		}
		enricher, err = enrich.New(generator)
		if err != nil {
			return nil, err
		}
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(aiConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedder: %w", err)
		}
	}
	generator, err := embedding.New(embedder,
		embedding.WithModel(settings.OpenAI.EmbeddingModel),
		embedding.WithDimension(settings.EmbeddingDimension()),
		embedding.WithBatchSize(settings.Embedding.BatchSize),
	)
	if err != nil {
		return nil, err
	}

	src := options.source
	if src == nil {
		if settings.Database.URL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres document source")
		}
		src, err = postgres.New(ctx, settings.Database.URL,
			postgres.WithTable(settings.Database.Table),
			postgres.WithIDColumn(settings.Database.IDColumn),
		)
		if err != nil {
			return nil, err
		}
	}

	store := options.store
	if store == nil {
		store, err = buildStore(ctx, settings)
		if err != nil {
			src.Close()
			return nil, err
		}
	}

	ix, err := indexer.New(src, chunker, enricher, generator, store, indexer.Config{
		TextField:     settings.Indexer.TextField,
		Namespace:     settings.Indexer.Namespace,
		UseContext:    settings.Enrich.UseContext,
		UpdateStatus:  settings.Indexer.UpdateStatus,
		Template:      template,
		Workers:       settings.Indexer.Workers,
		SkipUnchanged: settings.Indexer.SkipUnchanged,
	})
	if err != nil {
		if closeErr := store.Close(); closeErr != nil {
			slog.Default().Error("error closing vector store", "err", closeErr)
		}
		src.Close()
		return nil, err
	}

	return &System{
		source:  src,
		store:   store,
		indexer: ix,
		logger:  slog.Default(),
	}, nil
}

// buildStore opens the vector store backend named by the settings.
func buildStore(ctx context.Context, settings *config.Settings) (vectorstore.Store, error) {
	switch settings.Store.Backend {
	case "pinecone":
		if settings.Pinecone.APIKey == "" {
			return nil, errors.New("PINECONE_API_KEY is required for the pinecone store")
		}
		if settings.Pinecone.Host == "" {
			return nil, errors.New("PINECONE_HOST is required for the pinecone store")
		}
		return pinecone.New(settings.Pinecone.Host, settings.Pinecone.APIKey)
	case "pgvector":
		if settings.Database.URL == "" {
			return nil, errors.New("DATABASE_URL is required for the pgvector store")
		}
		return pgvector.New(ctx, settings.Database.URL,
			pgvector.WithTable(settings.Store.PGTable),
			pgvector.WithDimension(settings.EmbeddingDimension()),
		)
	case "badger":
		return badger.New(settings.Store.BadgerPath, false)
	default:
		return nil, fmt.Errorf("unknown vector store backend %q", settings.Store.Backend)
	}
}

// Indexer returns the pipeline orchestrator.
func (s *System) Indexer() *indexer.Indexer {
	return s.indexer
}

// Source returns the document source.
func (s *System) Source() source.Source {
	return s.source
}

// Store returns the vector store.
func (s *System) Store() vectorstore.Store {
	return s.store
}

// Close releases the source, the store and everything between them.
func (s *System) Close() error {
	return s.indexer.Close()
}
