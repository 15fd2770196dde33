package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/indexit/ai"
	"github.com/poiesic/indexit/core"
	"github.com/poiesic/indexit/retry"
)

// Placeholder values substituted when the model cannot provide context.
// They are stable markers: downstream consumers match on them to find
// degraded chunks.
const (
	PlaceholderSummary = "context unavailable"
	PlaceholderTopic   = "unavailable"
)

// documentSummaryFallback stands in for a whole-document synopsis.
const documentSummaryFallback = "no summary available"

// DefaultSummaryLength is the character budget given to Summarize when the
// caller passes a non-positive max length.
const DefaultSummaryLength = 500

// Document texts above summarySampleThreshold runes are sampled down to
// their head and tail fragments before summarization.
const (
	summarySampleThreshold = 10000
	summarySampleEdge      = 5000
)

// Enricher wraps chunks with model-derived semantic context.
type Enricher struct {
	generator ai.TextGenerator
	policy    retry.Policy
	logger    *slog.Logger
}

// Option configures an Enricher.
type Option func(*Enricher) error

// WithRetryPolicy sets the backoff policy for model calls.
// Default is retry.DefaultPolicy().
func WithRetryPolicy(policy retry.Policy) Option {
	return func(e *Enricher) error {
		if policy.MaxAttempts < 1 {
			return retry.ErrInvalidMaxAttempts
		}
		e.policy = policy
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enricher) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// New creates an Enricher.
func New(generator ai.TextGenerator, opts ...Option) (*Enricher, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	e := &Enricher{
		generator: generator,
		policy:    retry.DefaultPolicy(),
		logger:    slog.Default().With("component", "enricher"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// EnrichChunk analyzes one chunk and wraps it with model-derived context.
// Transient call failures are retried under the configured policy; a
// malformed response is not retried. Both exhausted retries and parse
// failures degrade to a placeholder result. The returned error is non-nil
// only when ctx is canceled.
func (e *Enricher) EnrichChunk(ctx context.Context, chunk core.Chunk, docContext string, template Template) (core.EnrichedChunk, error) {
	prompt := renderPrompt(template, chunk.Text, docContext)

	return retry.WithFallback(ctx, e.policy,
		func() (core.EnrichedChunk, error) {
			response, err := e.generator.CompleteJSON(ctx, analysisSystemPrompt, prompt)
			if err != nil {
				return core.EnrichedChunk{}, err
			}

			result, perr := parseAnalysis(response)
			if perr != nil {
				e.logger.Warn("discarding unparsable analysis",
					"doc_id", chunk.DocID,
					"chunk_index", chunk.ChunkIndex,
					"err", perr)
				return Placeholder(chunk), nil
			}

			e.logger.Debug("context generated",
				"doc_id", chunk.DocID,
				"chunk_index", chunk.ChunkIndex)
			return fromAnalysis(chunk, result), nil
		},
		func(err error) core.EnrichedChunk {
			e.logger.Error("enrichment failed",
				"doc_id", chunk.DocID,
				"chunk_index", chunk.ChunkIndex,
				"err", err)
			return Placeholder(chunk)
		})
}

// EnrichBatch enriches chunks in order. Each chunk is processed
// independently: a failure degrades only that chunk's result, and the
// output always has exactly one element per input. The optional progress
// callback receives the running done count after each chunk. Returns an
// error only when ctx is canceled.
func (e *Enricher) EnrichBatch(ctx context.Context, chunks []core.Chunk, docContext string, template Template, progress func(done, total int)) ([]core.EnrichedChunk, error) {
	enriched := make([]core.EnrichedChunk, 0, len(chunks))
	for _, chunk := range chunks {
		ec, err := e.EnrichChunk(ctx, chunk, docContext, template)
		if err != nil {
			return nil, err
		}
		enriched = append(enriched, ec)
		if progress != nil {
			progress(len(enriched), len(chunks))
		}
	}

	e.logger.Info("contexts generated", "chunks", len(enriched))
	return enriched, nil
}

// Summarize produces a whole-document synopsis used as shared context for
// the detailed template. Texts above a size threshold are sampled head and
// tail rather than sent whole, bounding the cost of the call. On failure
// after retries the fixed fallback string is returned; the error is
// non-nil only when ctx is canceled.
func (e *Enricher) Summarize(ctx context.Context, fullText string, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = DefaultSummaryLength
	}
	prompt := fmt.Sprintf(summaryPromptTemplate, maxLength, sampleForSummary(fullText))

	return retry.WithFallback(ctx, e.policy,
		func() (string, error) {
			summary, err := e.generator.Complete(ctx, summarySystemPrompt, prompt)
			if err != nil {
				return "", err
			}
			summary = strings.TrimSpace(summary)
			e.logger.Info("document summary generated", "length", len(summary))
			return summary, nil
		},
		func(err error) string {
			e.logger.Error("document summarization failed", "err", err)
			return documentSummaryFallback
		})
}

// Placeholder builds the degraded EnrichedChunk used when analysis fails.
// Every field is populated: slices are empty but non-nil, and EnhancedText
// carries the original chunk text so embedding always has input.
func Placeholder(chunk core.Chunk) core.EnrichedChunk {
	return core.EnrichedChunk{
		Chunk:             chunk,
		ContextualSummary: PlaceholderSummary,
		KeyConcepts:       []string{},
		Keywords:          []string{},
		Topic:             PlaceholderTopic,
		Questions:         []string{},
		EnhancedText:      chunk.Text,
	}
}

func fromAnalysis(chunk core.Chunk, result analysis) core.EnrichedChunk {
	return core.EnrichedChunk{
		Chunk:             chunk,
		ContextualSummary: result.ContextualSummary,
		KeyConcepts:       orEmpty(result.KeyConcepts),
		Keywords:          orEmpty(result.Keywords),
		Topic:             result.Topic,
		Questions:         orEmpty(result.Questions),
		EnhancedText:      buildEnhancedText(chunk.Text, result),
	}
}

// orEmpty keeps slice fields non-nil: JSON null and absent fields both
// decode to nil.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// enhancedTextFormat interleaves the analysis with the original chunk
// text. The layout is a contract with the embedding stage and must stay
// stable across versions for reproducible embeddings.
const enhancedTextFormat = `CONTEXT: %s

TOPIC: %s

KEY CONCEPTS: %s

CONTENT:
%s

RELATED QUESTIONS:
%s

KEYWORDS: %s`

func buildEnhancedText(text string, result analysis) string {
	questions := make([]string, len(result.Questions))
	for i, q := range result.Questions {
		questions[i] = "- " + q
	}

	return fmt.Sprintf(enhancedTextFormat,
		result.ContextualSummary,
		result.Topic,
		strings.Join(result.KeyConcepts, ", "),
		text,
		strings.Join(questions, "\n"),
		strings.Join(result.Keywords, ", "))
}

// sampleForSummary bounds the prompt size for whole-document summaries.
func sampleForSummary(text string) string {
	runes := []rune(text)
	if len(runes) <= summarySampleThreshold {
		return text
	}
	return string(runes[:summarySampleEdge]) + "\n...\n" + string(runes[len(runes)-summarySampleEdge:])
}
