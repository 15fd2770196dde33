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


package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/indexit/chunking"
	"github.com/poiesic/indexit/core"
	"github.com/poiesic/indexit/embedding"
	"github.com/poiesic/indexit/enrich"
	"github.com/poiesic/indexit/source"
	"github.com/poiesic/indexit/vectorstore"
)

// DefaultTextField is the document field read as the text body.
const DefaultTextField = "content"

// Chunker splits document text into chunks.
type Chunker interface {
	Chunk(text, docID string, metadata map[string]any) ([]core.Chunk, error)
}

// Enricher annotates chunks with LLM-generated context.
type Enricher interface {
	Summarize(ctx context.Context, fullText string, maxLength int) (string, error)
	EnrichBatch(ctx context.Context, chunks []core.Chunk, docContext string, template enrich.Template, progress func(done, total int)) ([]core.EnrichedChunk, error)
}

// Embedder turns enriched chunks into vector records and queries into
// vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedChunks(ctx context.Context, enriched []core.EnrichedChunk, useEnhanced bool, progress func(done, total int)) ([]core.VectorRecord, error)
}

var (
	_ Chunker  = (*chunking.Chunker)(nil)
	_ Enricher = (*enrich.Enricher)(nil)
	_ Embedder = (*embedding.Generator)(nil)
)

// Config controls how documents move through the pipeline.
type Config struct {
	// TextField names the document field holding the text body.
	TextField string

	// Namespace is the vector store namespace written to and queried.
	Namespace string

	// UseContext enables LLM enrichment of chunks before embedding.
	UseContext bool

	// UpdateStatus writes indexing outcomes back to the document source.
	UpdateStatus bool

	// Template selects the enrichment prompt.
	Template enrich.Template

	// Workers is the number of documents indexed concurrently by
	// IndexAll. Values below 2 mean sequential processing.
	Workers int

	// SkipUnchanged skips documents whose stored content hash already
	// matches the current text.
	SkipUnchanged bool
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		TextField:    DefaultTextField,
		UseContext:   true,
		UpdateStatus: true,
		Template:     enrich.TemplateDefault,
		Workers:      1,
	}
}

func (c *Config) normalize() {
	if c.TextField == "" {
		c.TextField = DefaultTextField
	}
	if c.Template == "" {
		c.Template = enrich.TemplateDefault
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
}

// Indexer drives documents from the source through chunking, enrichment
// and embedding into the vector store.
type Indexer struct {
	source    source.Source
	chunker   Chunker
	enricher  Enricher
	generator Embedder
	store     vectorstore.Store
	cfg       Config
	logger    *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithLogger sets the logger. A nil logger falls back to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// New creates an Indexer from its pipeline stages. The enricher may be
// nil when cfg.UseContext is false.
func New(
	src source.Source,
	chunker Chunker,
	enricher Enricher,
	generator Embedder,
	store vectorstore.Store,
	cfg Config,
	opts ...Option,
) (*Indexer, error) {
	if src == nil {
		return nil, ErrSourceRequired
	}
	if chunker == nil {
		return nil, ErrChunkerRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	cfg.normalize()
	if cfg.UseContext && enricher == nil {
		return nil, ErrEnricherRequired
	}

	ix := &Indexer{
		source:    src,
		chunker:   chunker,
		enricher:  enricher,
		generator: generator,
		store:     store,
		cfg:       cfg,
		logger:    slog.Default().With("component", "indexer"),
	}
	for _, opt := range opts {
		if err := opt(ix); err != nil {
			return nil, err
		}
	}

	ix.logger.Info("indexer initialized",
		"namespace", cfg.Namespace,
		"text_field", cfg.TextField,
		"use_context", cfg.UseContext,
		"workers", cfg.Workers)
	return ix, nil
}

// IndexDocument runs the full pipeline for one document. On failure the
// document status is set to error when status updates are enabled, and
// the failure is returned.
func (ix *Indexer) IndexDocument(ctx context.Context, docID string) (*DocumentResult, error) {
	if docID == "" {
		return nil, ErrDocIDRequired
	}

	result, err := ix.indexDocument(ctx, docID)
	if err != nil {
		ix.logger.Error("document indexing failed", "doc_id", docID, "error", err)
		ix.markError(ctx, docID)
		return nil, err
	}
	return result, nil
}

func (ix *Indexer) indexDocument(ctx context.Context, docID string) (*DocumentResult, error) {
	record, err := ix.source.FetchByID(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}

	text := record.Text(ix.cfg.TextField)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %q", ErrEmptyTextField, ix.cfg.TextField)
	}
	ix.logger.Info("document loaded", "doc_id", docID, "chars", len(text))

	hash := core.ContentHash(text)
	if ix.cfg.SkipUnchanged && ix.unchanged(ctx, docID, hash) {
		ix.logger.Info("document unchanged, skipping", "doc_id", docID)
		return &DocumentResult{DocID: docID, Skipped: true}, nil
	}

	metadata := make(map[string]any, len(record.Fields))
	for key, value := range record.Fields {
		if key == ix.cfg.TextField {
			continue
		}
		metadata[key] = value
	}
	metadata["content_hash"] = hash

	chunks, err := ix.chunker.Chunk(text, docID, metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk document: %w", err)
	}
	if len(chunks) == 0 {
		ix.logger.Warn("document produced no chunks", "doc_id", docID)
		if ix.cfg.UpdateStatus {
			if err := ix.source.UpdateStatus(ctx, docID, source.StatusIndexed); err != nil {
				return nil, fmt.Errorf("failed to update document status: %w", err)
			}
		}
		return &DocumentResult{DocID: docID, Warning: "document produced no chunks"}, nil
	}

	enriched, err := ix.enrichChunks(ctx, text, chunks)
	if err != nil {
		return nil, err
	}

	records, err := ix.generator.EmbedChunks(ctx, enriched, ix.cfg.UseContext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}

	upserted, err := ix.store.Upsert(ctx, records, ix.cfg.Namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert vectors: %w", err)
	}

	if ix.cfg.UpdateStatus {
		if err := ix.source.UpdateStatus(ctx, docID, source.StatusIndexed); err != nil {
			return nil, fmt.Errorf("failed to update document status: %w", err)
		}
	}

	tokens := 0
	for _, chunk := range chunks {
		tokens += chunk.TokenCount
	}
	result := &DocumentResult{
		DocID:   docID,
		Chunks:  len(chunks),
		Vectors: upserted,
		Tokens:  tokens,
	}
	ix.logger.Info("document indexed",
		"doc_id", docID, "chunks", result.Chunks, "vectors", result.Vectors, "tokens", result.Tokens)
	return result, nil
}

// unchanged reports whether the first vector of the document is already
// stored with the same content hash. Read failures disable the skip
// rather than failing the document.
func (ix *Indexer) unchanged(ctx context.Context, docID, hash string) bool {
	firstID := core.VectorID(docID, 0)
	stored, err := ix.store.Fetch(ctx, []string{firstID}, ix.cfg.Namespace)
	if err != nil {
		ix.logger.Warn("failed to read stored content hash", "doc_id", docID, "error", err)
		return false
	}
	existing, ok := stored[firstID]
	if !ok {
		return false
	}
	prior, _ := existing.Metadata["content_hash"].(string)
	return prior != "" && prior == hash
}

func (ix *Indexer) enrichChunks(ctx context.Context, text string, chunks []core.Chunk) ([]core.EnrichedChunk, error) {
	if !ix.cfg.UseContext {
		return plainEnriched(chunks), nil
	}

	docContext, err := ix.enricher.Summarize(ctx, text, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize document: %w", err)
	}
	enriched, err := ix.enricher.EnrichBatch(ctx, chunks, docContext, ix.cfg.Template, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to enrich chunks: %w", err)
	}
	return enriched, nil
}

// plainEnriched wraps chunks without LLM enrichment so the embedding
// stage sees a uniform input.
func plainEnriched(chunks []core.Chunk) []core.EnrichedChunk {
	enriched := make([]core.EnrichedChunk, len(chunks))
	for i, chunk := range chunks {
		enriched[i] = core.EnrichedChunk{Chunk: chunk, EnhancedText: chunk.Text}
	}
	return enriched
}

func (ix *Indexer) markError(ctx context.Context, docID string) {
	if !ix.cfg.UpdateStatus {
		return
	}
	if err := ix.source.UpdateStatus(ctx, docID, source.StatusError); err != nil {
		ix.logger.Warn("failed to record error status", "doc_id", docID, "error", err)
	}
}

// IndexAll indexes every document FetchMany returns for the limit and
// filters. Documents fail independently: one failure is recorded and the
// batch continues. The optional progress callback receives the running
// done count after each document.
func (ix *Indexer) IndexAll(ctx context.Context, limit int, filters map[string]any, progress func(done, total int)) (*BatchStats, error) {
	runID := uuid.NewString()
	logger := ix.logger.With("run_id", runID)

	available, err := ix.source.Count(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}
	docs, err := ix.source.FetchMany(ctx, limit, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}

	stats := &BatchStats{Total: len(docs)}
	logger.Info("batch indexing started",
		"documents", len(docs), "available", available, "workers", ix.cfg.Workers)

	var mu sync.Mutex
	done := 0
	record := func(docID string, result *DocumentResult, err error) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case err != nil:
			stats.Failed++
			stats.Errors = append(stats.Errors, DocumentError{DocID: docID, Err: err})
		case result.Skipped:
			stats.Skipped++
		default:
			stats.Successful++
			stats.TotalChunks += result.Chunks
			stats.TotalVectors += result.Vectors
		}
		done++
		if progress != nil {
			progress(done, stats.Total)
		}
	}

	if ix.cfg.Workers > 1 {
		if err := ix.indexParallel(ctx, docs, record); err != nil {
			return stats, err
		}
	} else {
		for _, doc := range docs {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			result, err := ix.IndexDocument(ctx, doc.ID)
			record(doc.ID, result, err)
		}
	}

	logger.Info("batch indexing finished",
		"successful", stats.Successful,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
		"chunks", stats.TotalChunks,
		"vectors", stats.TotalVectors)
	return stats, nil
}

func (ix *Indexer) indexParallel(ctx context.Context, docs []source.Record, record func(string, *DocumentResult, error)) error {
	pool, err := ants.NewPool(ix.cfg.Workers)
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, doc := range docs {
		if ctx.Err() != nil {
			break
		}
		docID := doc.ID
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			result, err := ix.IndexDocument(ctx, docID)
			record(docID, result, err)
		})
		if submitErr != nil {
			wg.Done()
			record(docID, nil, fmt.Errorf("failed to submit document: %w", submitErr))
		}
	}
	wg.Wait()
	return ctx.Err()
}

// Search embeds the query and returns the closest matches from the
// configured namespace.
func (ix *Indexer) Search(ctx context.Context, query string, topK int, filters map[string]any) ([]vectorstore.Match, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	vector, err := ix.generator.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	matches, err := ix.store.Query(ctx, vector, topK, filters, ix.cfg.Namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}

	ix.logger.Info("search completed", "matches", len(matches))
	return matches, nil
}

// Delete removes every vector of the document from the configured
// namespace.
func (ix *Indexer) Delete(ctx context.Context, docID string) error {
	if docID == "" {
		return ErrDocIDRequired
	}
	if err := ix.store.DeleteByFilter(ctx, map[string]any{"doc_id": docID}, ix.cfg.Namespace); err != nil {
		return fmt.Errorf("failed to delete document vectors: %w", err)
	}
	ix.logger.Info("document removed from index", "doc_id", docID)
	return nil
}

// DeleteAll removes every vector in the configured namespace.
func (ix *Indexer) DeleteAll(ctx context.Context) error {
	if err := ix.store.DeleteByFilter(ctx, nil, ix.cfg.Namespace); err != nil {
		return fmt.Errorf("failed to clear namespace: %w", err)
	}
	ix.logger.Info("namespace cleared", "namespace", ix.cfg.Namespace)
	return nil
}

// Stats reports vector store statistics.
func (ix *Indexer) Stats(ctx context.Context) (*vectorstore.Stats, error) {
	return ix.store.Stats(ctx)
}

// Close releases the source and store connections.
func (ix *Indexer) Close() error {
	ix.source.Close()
	err := ix.store.Close()
	ix.logger.Info("indexer closed")
	return err
}
