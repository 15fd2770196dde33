package chunking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkRecursive_SmallTextSingleChunk(t *testing.T) {
	c := newTestChunker(t, Config{ChunkSize: 50, ChunkOverlap: 5})

	chunks, err := c.ChunkWithStrategy("A few words only.", "doc", nil, StrategyRecursive)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "A few words only.", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].StartChar)
	assert.Equal(t, 17, chunks[0].EndChar)
	assert.Equal(t, 4, chunks[0].TokenCount)
}

func TestChunkRecursive_SplitScenario(t *testing.T) {
	c := newTestChunker(t, Config{ChunkSize: 8, ChunkOverlap: 2})
	text := "Paragraph one.\n\nParagraph two is longer and exceeds the small test budget so it must be split."

	chunks, err := c.ChunkWithStrategy(text, "doc-1", nil, StrategyRecursive)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)

	assert.Equal(t, "Paragraph one.", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].StartChar)
	assert.Equal(t, 14, chunks[0].EndChar)

	// Offsets never overlap and always move forward.
	for i := 1; i < len(chunks); i++ {
		assert.GreaterOrEqual(t, chunks[i].StartChar, chunks[i-1].EndChar)
		assert.Less(t, chunks[i].StartChar, chunks[i].EndChar)
	}
}

func TestChunkRecursive_BudgetRespected(t *testing.T) {
	c := newTestChunker(t, Config{ChunkSize: 8, ChunkOverlap: 2})
	text := "Alpha beta gamma delta epsilon zeta eta theta iota kappa.\n" +
		"Lambda mu nu xi omicron pi rho sigma tau upsilon phi chi psi omega.\n\n" +
		"Second paragraph continues with yet more filler words to pack tightly."

	chunks, err := c.ChunkWithStrategy(text, "doc", nil, StrategyRecursive)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for _, ch := range chunks {
		assert.LessOrEqual(t, ch.TokenCount, 8, "chunk %q exceeds the budget", ch.Text)
	}
}

func TestChunkRecursive_IrreducibleSpanEmittedOversized(t *testing.T) {
	// Rune counting makes a single long word exceed the budget even after
	// every separator is exhausted.
	c, err := New(runeCounter{}, Config{ChunkSize: 10, ChunkOverlap: 2})
	require.NoError(t, err)

	text := "tiny incomprehensibilities end"
	chunks, err := c.ChunkWithStrategy(text, "doc", nil, StrategyRecursive)
	require.NoError(t, err)

	var oversized []string
	for _, ch := range chunks {
		if ch.TokenCount > 10 {
			oversized = append(oversized, ch.Text)
		}
	}
	require.Len(t, oversized, 1, "exactly the irreducible word may exceed the budget")
	assert.Equal(t, "incomprehensibilities", oversized[0])
}

func TestChunkRecursive_PreservesParagraphOrder(t *testing.T) {
	c := newTestChunker(t, Config{ChunkSize: 4, ChunkOverlap: 1})
	text := "one two three.\n\nfour five six seven eight nine ten.\n\neleven twelve."

	chunks, err := c.ChunkWithStrategy(text, "doc", nil, StrategyRecursive)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	// Reassembled chunk text must visit the source words in order.
	var words []string
	for _, ch := range chunks {
		words = append(words, strings.Fields(ch.Text)...)
	}
	assert.Equal(t, strings.Fields(strings.ReplaceAll(text, "\n", " ")), words)
}

func TestChunkRecursive_DuplicateTextOffsetsMonotonic(t *testing.T) {
	c := newTestChunker(t, Config{ChunkSize: 3, ChunkOverlap: 1})
	text := "same words here.\n\nsame words here.\n\nsame words here."

	chunks, err := c.ChunkWithStrategy(text, "doc", nil, StrategyRecursive)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	// Identical paragraph text must not collapse onto the first occurrence.
	for i := 1; i < len(chunks); i++ {
		assert.Greater(t, chunks[i].StartChar, chunks[i-1].StartChar)
	}
}
