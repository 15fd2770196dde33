package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/indexit/ai/mock"
	"github.com/poiesic/indexit/core"
	"github.com/poiesic/indexit/retry"
)

func testChunk(index int) core.Chunk {
	return core.Chunk{
		Text:       "The quick brown fox jumps over the lazy dog.",
		ChunkIndex: index,
		DocID:      "doc-1",
		StartChar:  0,
		EndChar:    44,
		TokenCount: 10,
	}
}

func fastPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestNew(t *testing.T) {
	t.Run("nil generator", func(t *testing.T) {
		enricher, err := New(nil)

		assert.Nil(t, enricher)
		assert.ErrorIs(t, err, ErrGeneratorRequired)
	})

	t.Run("defaults", func(t *testing.T) {
		enricher, err := New(mock.NewMockGenerator())

		require.NoError(t, err)
		assert.Equal(t, retry.DefaultPolicy(), enricher.policy)
	})

	t.Run("invalid retry policy", func(t *testing.T) {
		_, err := New(mock.NewMockGenerator(), WithRetryPolicy(retry.Policy{}))

		assert.ErrorIs(t, err, retry.ErrInvalidMaxAttempts)
	})
}

func TestEnrichChunk_Success(t *testing.T) {
	generator := mock.NewMockGenerator()
	enricher, err := New(generator)
	require.NoError(t, err)

	chunk := testChunk(0)
	enriched, err := enricher.EnrichChunk(context.Background(), chunk, "", TemplateDefault)

	require.NoError(t, err)
	assert.Equal(t, chunk, enriched.Chunk)
	assert.Equal(t, "A short summary of the passage.", enriched.ContextualSummary)
	assert.Equal(t, []string{"testing", "fixtures"}, enriched.KeyConcepts)
	assert.Equal(t, []string{"test", "mock", "fixture"}, enriched.Keywords)
	assert.Equal(t, "test fixtures", enriched.Topic)
	assert.Equal(t, []string{"What is this passage about?"}, enriched.Questions)
	assert.Contains(t, enriched.EnhancedText, "CONTENT:\n"+chunk.Text)
	assert.Contains(t, enriched.EnhancedText, "TOPIC: test fixtures")
	assert.Contains(t, enriched.EnhancedText, "- What is this passage about?")
	assert.Equal(t, 1, generator.CallCount())
}

func TestEnrichChunk_EnhancedTextLayout(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.CompleteJSONFunc = func(ctx context.Context, system, prompt string) (string, error) {
		return `{
			"contextual_summary": "Sums it up.",
			"key_concepts": ["alpha", "beta"],
			"keywords": ["one", "two"],
			"topic": "things",
			"questions": ["Why?", "How?"]
		}`, nil
	}
	enricher, err := New(generator)
	require.NoError(t, err)

	chunk := testChunk(0)
	enriched, err := enricher.EnrichChunk(context.Background(), chunk, "", TemplateDefault)
	require.NoError(t, err)

	want := "CONTEXT: Sums it up.\n\n" +
		"TOPIC: things\n\n" +
		"KEY CONCEPTS: alpha, beta\n\n" +
		"CONTENT:\n" + chunk.Text + "\n\n" +
		"RELATED QUESTIONS:\n- Why?\n- How?\n\n" +
		"KEYWORDS: one, two"
	assert.Equal(t, want, enriched.EnhancedText)
}

func TestEnrichChunk_ParseFailureDegradesImmediately(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.CompleteJSONFunc = func(ctx context.Context, system, prompt string) (string, error) {
		return "I could not produce the requested analysis.", nil
	}
	enricher, err := New(generator, WithRetryPolicy(fastPolicy()))
	require.NoError(t, err)

	chunk := testChunk(2)
	enriched, err := enricher.EnrichChunk(context.Background(), chunk, "", TemplateDefault)

	require.NoError(t, err)
	// Malformed output is not transient: exactly one call, no retries
	assert.Equal(t, 1, generator.CallCount())
	assert.Equal(t, Placeholder(chunk), enriched)
	assert.NotNil(t, enriched.KeyConcepts)
	assert.Empty(t, enriched.KeyConcepts)
	assert.Equal(t, chunk.Text, enriched.EnhancedText)
}

func TestEnrichChunk_TransportFailureRetriesThenDegrades(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.CompleteJSONFunc = func(ctx context.Context, system, prompt string) (string, error) {
		return "", errors.New("rate limited")
	}
	enricher, err := New(generator, WithRetryPolicy(fastPolicy()))
	require.NoError(t, err)

	chunk := testChunk(0)
	enriched, err := enricher.EnrichChunk(context.Background(), chunk, "", TemplateDefault)

	require.NoError(t, err)
	assert.Equal(t, 3, generator.CallCount())
	assert.Equal(t, Placeholder(chunk), enriched)
}

func TestEnrichChunk_TransientThenSuccess(t *testing.T) {
	generator := mock.NewMockGenerator()
	calls := 0
	generator.CompleteJSONFunc = func(ctx context.Context, system, prompt string) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("connection reset")
		}
		return `{"topic": "recovered"}`, nil
	}
	enricher, err := New(generator, WithRetryPolicy(fastPolicy()))
	require.NoError(t, err)

	enriched, err := enricher.EnrichChunk(context.Background(), testChunk(0), "", TemplateDefault)

	require.NoError(t, err)
	assert.Equal(t, 2, generator.CallCount())
	assert.Equal(t, "recovered", enriched.Topic)
	// Fields the model omitted decode to empty values, not the placeholder
	assert.Empty(t, enriched.ContextualSummary)
	assert.NotNil(t, enriched.Keywords)
	assert.Empty(t, enriched.Keywords)
}

func TestEnrichChunk_ContextCanceled(t *testing.T) {
	generator := mock.NewMockGenerator()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	enricher, err := New(generator, WithRetryPolicy(fastPolicy()))
	require.NoError(t, err)

	_, err = enricher.EnrichChunk(ctx, testChunk(0), "", TemplateDefault)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, generator.CallCount())
}

func TestEnrichBatch_SiblingIsolation(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.CompleteJSONFunc = func(ctx context.Context, system, prompt string) (string, error) {
		if strings.Contains(prompt, "second") {
			return "garbage", nil
		}
		return `{"topic": "fine", "key_concepts": ["ok"]}`, nil
	}

	chunks := []core.Chunk{
		{Text: "first passage", ChunkIndex: 0, DocID: "doc-1", EndChar: 13},
		{Text: "second passage", ChunkIndex: 1, DocID: "doc-1", EndChar: 14},
		{Text: "third passage", ChunkIndex: 2, DocID: "doc-1", EndChar: 13},
	}

	enricher, err := New(generator, WithRetryPolicy(fastPolicy()))
	require.NoError(t, err)

	enriched, err := enricher.EnrichBatch(context.Background(), chunks, "", TemplateDefault, nil)

	require.NoError(t, err)
	require.Len(t, enriched, 3)
	assert.Equal(t, "fine", enriched[0].Topic)
	assert.Equal(t, PlaceholderTopic, enriched[1].Topic)
	assert.Equal(t, "second passage", enriched[1].EnhancedText)
	assert.Equal(t, "fine", enriched[2].Topic)
	// The middle failure leaves sibling chunks untouched
	assert.Equal(t, chunks[0], enriched[0].Chunk)
	assert.Equal(t, chunks[2], enriched[2].Chunk)
}

func TestEnrichBatch_Progress(t *testing.T) {
	generator := mock.NewMockGenerator()
	enricher, err := New(generator)
	require.NoError(t, err)

	chunks := []core.Chunk{testChunk(0), testChunk(1), testChunk(2)}

	var calls [][2]int
	_, err = enricher.EnrichBatch(context.Background(), chunks, "", TemplateDefault, func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})

	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, calls)
}

func TestEnrichBatch_Empty(t *testing.T) {
	enricher, err := New(mock.NewMockGenerator())
	require.NoError(t, err)

	enriched, err := enricher.EnrichBatch(context.Background(), nil, "", TemplateDefault, nil)

	require.NoError(t, err)
	assert.NotNil(t, enriched)
	assert.Empty(t, enriched)
}

func TestSummarize(t *testing.T) {
	t.Run("returns trimmed model output", func(t *testing.T) {
		generator := mock.NewMockGenerator()
		generator.CompleteFunc = func(ctx context.Context, system, prompt string) (string, error) {
			return "  A document about foxes.  \n", nil
		}
		enricher, err := New(generator)
		require.NoError(t, err)

		summary, err := enricher.Summarize(context.Background(), "some text", 500)

		require.NoError(t, err)
		assert.Equal(t, "A document about foxes.", summary)
	})

	t.Run("falls back on persistent failure", func(t *testing.T) {
		generator := mock.NewMockGenerator()
		generator.CompleteFunc = func(ctx context.Context, system, prompt string) (string, error) {
			return "", errors.New("service unavailable")
		}
		enricher, err := New(generator, WithRetryPolicy(fastPolicy()))
		require.NoError(t, err)

		summary, err := enricher.Summarize(context.Background(), "some text", 500)

		require.NoError(t, err)
		assert.Equal(t, "no summary available", summary)
		assert.Equal(t, 3, generator.CallCount())
	})

	t.Run("samples long documents head and tail", func(t *testing.T) {
		var prompt string
		generator := mock.NewMockGenerator()
		generator.CompleteFunc = func(ctx context.Context, system, p string) (string, error) {
			prompt = p
			return "summary", nil
		}
		enricher, err := New(generator)
		require.NoError(t, err)

		fullText := strings.Repeat("a", 6000) + strings.Repeat("b", 6000)
		_, err = enricher.Summarize(context.Background(), fullText, 500)

		require.NoError(t, err)
		assert.Contains(t, prompt, "\n...\n")
		assert.NotContains(t, prompt, fullText)
		assert.Contains(t, prompt, strings.Repeat("a", 5000))
		assert.NotContains(t, prompt, strings.Repeat("a", 5001))
		assert.Contains(t, prompt, strings.Repeat("b", 5000))
	})

	t.Run("short documents pass through whole", func(t *testing.T) {
		var prompt string
		generator := mock.NewMockGenerator()
		generator.CompleteFunc = func(ctx context.Context, system, p string) (string, error) {
			prompt = p
			return "summary", nil
		}
		enricher, err := New(generator)
		require.NoError(t, err)

		fullText := strings.Repeat("short text. ", 100)
		_, err = enricher.Summarize(context.Background(), fullText, 500)

		require.NoError(t, err)
		assert.Contains(t, prompt, fullText)
		assert.NotContains(t, prompt, "\n...\n")
	})

	t.Run("canceled context returns error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		enricher, err := New(mock.NewMockGenerator(), WithRetryPolicy(fastPolicy()))
		require.NoError(t, err)

		_, err = enricher.Summarize(ctx, "some text", 500)

		assert.ErrorIs(t, err, context.Canceled)
	})
}
