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


package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/poiesic/indexit/embedding"
)

// DatabaseSettings configures the relational document source. URL may
// stay empty when a command does not touch the database; commands that
// do will refuse to run without it.
type DatabaseSettings struct {
	URL      string `env:"DATABASE_URL"`
	Table    string `env:"DATABASE_TABLE" envDefault:"documents"`
	IDColumn string `env:"DATABASE_ID_COLUMN" envDefault:"id"`
}

// PineconeSettings configures the Pinecone backend. Host is the index
// data-plane endpoint.
type PineconeSettings struct {
	APIKey string `env:"PINECONE_API_KEY"`
	Host   string `env:"PINECONE_HOST"`
}

// OpenAISettings configures the OpenAI provider. BaseURL points the
// client at a proxy or an OpenAI-compatible local server when set.
type OpenAISettings struct {
	APIKey         string `env:"OPENAI_API_KEY"`
	BaseURL        string `env:"OPENAI_BASE_URL"`
	Model          string `env:"OPENAI_MODEL" envDefault:"gpt-4-turbo-preview"`
	EmbeddingModel string `env:"OPENAI_EMBEDDING_MODEL" envDefault:"text-embedding-3-large"`
}

// AnthropicSettings configures the Anthropic provider.
type AnthropicSettings struct {
	APIKey string `env:"ANTHROPIC_API_KEY"`
	Model  string `env:"ANTHROPIC_MODEL" envDefault:"claude-3-5-sonnet-20241022"`
}

// ChunkingSettings bounds chunk sizes and selects the splitting strategy.
type ChunkingSettings struct {
	ChunkSize    int    `env:"CHUNK_SIZE" envDefault:"1000" validate:"gt=0"`
	ChunkOverlap int    `env:"CHUNK_OVERLAP" envDefault:"200" validate:"gte=0"`
	MaxChunkSize int    `env:"MAX_CHUNK_SIZE" envDefault:"2000" validate:"gte=0"`
	Strategy     string `env:"CHUNK_STRATEGY" envDefault:"recursive" validate:"oneof=fixed_size recursive sentence semantic"`
	Encoding     string `env:"TIKTOKEN_ENCODING" envDefault:"cl100k_base"`
}

// EnrichSettings controls LLM context generation.
type EnrichSettings struct {
	Provider   string `env:"LLM_PROVIDER" envDefault:"openai" validate:"oneof=openai anthropic"`
	UseContext bool   `env:"USE_LLM_CONTEXT" envDefault:"true"`
	Template   string `env:"CONTEXT_PROMPT_TEMPLATE" envDefault:"default" validate:"oneof=default detailed technical"`
}

// EmbeddingSettings controls vector generation. Dimension overrides the
// model's known dimension; it must be set for models the generator does
// not know about.
type EmbeddingSettings struct {
	Dimension int `env:"EMBEDDING_DIMENSION" envDefault:"0" validate:"gte=0"`
	BatchSize int `env:"EMBEDDING_BATCH_SIZE" envDefault:"100" validate:"gt=0"`
}

// StoreSettings selects and configures the vector store backend.
type StoreSettings struct {
	Backend    string `env:"VECTOR_STORE" envDefault:"pinecone" validate:"oneof=pinecone pgvector badger"`
	PGTable    string `env:"PGVECTOR_TABLE" envDefault:"vectors"`
	BadgerPath string `env:"BADGER_PATH" envDefault:"./data/vectors"`
}

// IndexerSettings controls pipeline behavior.
type IndexerSettings struct {
	TextField     string `env:"INDEXER_TEXT_FIELD" envDefault:"content"`
	Namespace     string `env:"INDEXER_NAMESPACE"`
	UpdateStatus  bool   `env:"INDEXER_UPDATE_STATUS" envDefault:"true"`
	Workers       int    `env:"INDEXER_WORKERS" envDefault:"1" validate:"gte=1"`
	SkipUnchanged bool   `env:"INDEXER_SKIP_UNCHANGED" envDefault:"false"`
}

// LogSettings controls log output.
type LogSettings struct {
	Level string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	File  string `env:"LOG_FILE"`
}

// Settings aggregates every configuration group.
type Settings struct {
	Database  DatabaseSettings
	Pinecone  PineconeSettings
	OpenAI    OpenAISettings
	Anthropic AnthropicSettings
	Chunking  ChunkingSettings
	Enrich    EnrichSettings
	Embedding EmbeddingSettings
	Store     StoreSettings
	Indexer   IndexerSettings
	Log       LogSettings
}

var validate = validator.New()

// Load reads settings from the environment. When envFile is set it must
// exist; otherwise the default .env file is loaded if present and
// silently skipped if not.
func Load(envFile string) (*Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %q: %w", envFile, err)
		}
	} else {
		// Ignore errors - the .env file might not exist and that's ok
		_ = godotenv.Load()
	}

	settings := &Settings{}
	if err := env.Parse(settings); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	settings.Log.Level = strings.ToLower(settings.Log.Level)

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks tagged constraints plus the cross-field rules the tags
// cannot express.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	if s.Chunking.ChunkOverlap >= s.Chunking.ChunkSize {
		return fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d",
			ErrInvalidSettings, s.Chunking.ChunkOverlap, s.Chunking.ChunkSize)
	}

	if s.Embedding.Dimension == 0 {
		if _, ok := embedding.ModelDimensions[s.OpenAI.EmbeddingModel]; !ok {
			return fmt.Errorf("%w: %q has no known dimension, set EMBEDDING_DIMENSION",
				ErrUnknownEmbeddingModel, s.OpenAI.EmbeddingModel)
		}
	}
	return nil
}

// EmbeddingDimension returns the configured dimension, deferring to the
// model table when no override is set.
func (s *Settings) EmbeddingDimension() int {
	if s.Embedding.Dimension > 0 {
		return s.Embedding.Dimension
	}
	return embedding.ModelDimension(s.OpenAI.EmbeddingModel)
}
