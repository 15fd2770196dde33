package embedding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/indexit/ai/mock"
	"github.com/poiesic/indexit/core"
)

func TestBuildMetadata(t *testing.T) {
	t.Run("flattens enrichment into scalars", func(t *testing.T) {
		enriched := enrichedFixture(2)
		metadata := buildMetadata(enriched)

		assert.Equal(t, "doc-1", metadata["doc_id"])
		assert.Equal(t, 2, metadata["chunk_index"])
		assert.Equal(t, 60, metadata["start_char"])
		assert.Equal(t, 6, metadata["token_count"])
		assert.Equal(t, "Passage number 2 about foxes.", metadata["text"])
		assert.Equal(t, "A passage about foxes.", metadata["contextual_summary"])
		assert.Equal(t, "animals", metadata["topic"])
		assert.Equal(t, "foxes", metadata["key_concepts"])
		assert.Equal(t, "fox, passage", metadata["keywords"])
		assert.Equal(t, "What is the passage about?", metadata["questions"])
		assert.Equal(t, "Fox Facts", metadata["title"])
	})

	t.Run("caps list fields", func(t *testing.T) {
		enriched := enrichedFixture(0)
		enriched.KeyConcepts = []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7"}
		enriched.Keywords = []string{"k1", "k2", "k3", "k4", "k5", "k6", "k7", "k8", "k9", "k10", "k11"}
		enriched.Questions = []string{"q1?", "q2?", "q3?", "q4?"}

		metadata := buildMetadata(enriched)
		assert.Equal(t, "c1, c2, c3, c4, c5", metadata["key_concepts"])
		assert.Equal(t, "k1, k2, k3, k4, k5, k6, k7, k8, k9, k10", metadata["keywords"])
		assert.Equal(t, "q1? | q2? | q3?", metadata["questions"])
	})

	t.Run("truncates long chunk text", func(t *testing.T) {
		enriched := enrichedFixture(0)
		enriched.Chunk.Text = strings.Repeat("é", 1500)

		metadata := buildMetadata(enriched)
		text, ok := metadata["text"].(string)
		require.True(t, ok)
		assert.Equal(t, strings.Repeat("é", 1000), text)
	})

	t.Run("drops non-scalar chunk metadata", func(t *testing.T) {
		enriched := enrichedFixture(0)
		enriched.Chunk.Metadata = map[string]any{
			"title":    "Fox Facts",
			"year":     2024,
			"score":    0.75,
			"archived": false,
			"tags":     []string{"nature"},
			"extra":    map[string]any{"nested": true},
		}

		metadata := buildMetadata(enriched)
		assert.Equal(t, "Fox Facts", metadata["title"])
		assert.Equal(t, 2024, metadata["year"])
		assert.Equal(t, 0.75, metadata["score"])
		assert.Equal(t, false, metadata["archived"])
		assert.NotContains(t, metadata, "tags")
		assert.NotContains(t, metadata, "extra")
	})

	t.Run("chunk metadata cannot shadow pipeline fields", func(t *testing.T) {
		enriched := enrichedFixture(0)
		enriched.Chunk.Metadata = map[string]any{
			"text":  "the entire original document body",
			"topic": "overridden",
		}

		metadata := buildMetadata(enriched)
		assert.Equal(t, "Passage number 0 about foxes.", metadata["text"])
		assert.Equal(t, "animals", metadata["topic"])
	})

	t.Run("empty enrichment yields empty strings", func(t *testing.T) {
		enriched := core.EnrichedChunk{
			Chunk: core.Chunk{
				Text:       "bare chunk",
				DocID:      "doc-2",
				ChunkIndex: 0,
				StartChar:  0,
				EndChar:    10,
				TokenCount: 2,
			},
		}

		metadata := buildMetadata(enriched)
		assert.Equal(t, "", metadata["key_concepts"])
		assert.Equal(t, "", metadata["keywords"])
		assert.Equal(t, "", metadata["questions"])
		assert.Equal(t, "", metadata["contextual_summary"])
	})
}

func TestBuildRecord(t *testing.T) {
	g, err := New(mock.NewMockEmbedder(), WithDimension(4))
	require.NoError(t, err)

	t.Run("deterministic id from doc and index", func(t *testing.T) {
		record, err := g.BuildRecord(enrichedFixture(3), []float32{1, 2, 3, 4})
		require.NoError(t, err)
		assert.Equal(t, "doc-1_3", record.ID)
	})

	t.Run("wrong dimension fails", func(t *testing.T) {
		_, err := g.BuildRecord(enrichedFixture(0), []float32{1, 2})
		assert.ErrorIs(t, err, core.ErrDimensionMismatch)
	})

	t.Run("zero vector of the right dimension passes", func(t *testing.T) {
		record, err := g.BuildRecord(enrichedFixture(0), make([]float32, 4))
		require.NoError(t, err)
		assert.True(t, record.IsZero())
	})
}
