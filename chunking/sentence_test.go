package chunking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "terminal punctuation variants",
			text: "One. Two! Three? Four.",
			want: []string{"One.", "Two!", "Three?", "Four."},
		},
		{
			name: "consecutive punctuation stays together",
			text: "Really?! Yes.",
			want: []string{"Really?!", "Yes."},
		},
		{
			name: "newline separated",
			text: "First sentence.\nSecond sentence.",
			want: []string{"First sentence.", "Second sentence."},
		},
		{
			name: "no terminal punctuation",
			text: "just one run of words",
			want: []string{"just one run of words"},
		},
		{
			name: "period without following space does not split",
			text: "v1.2 is out. Good.",
			want: []string{"v1.2 is out.", "Good."},
		},
		{
			name: "trailing whitespace",
			text: "Done. ",
			want: []string{"Done."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSentences(tt.text))
		})
	}
}

func TestChunkSentence_AccumulatesUnderBudget(t *testing.T) {
	c := newTestChunker(t, Config{ChunkSize: 10, ChunkOverlap: 2})

	chunks, err := c.ChunkWithStrategy("One two. Three four. Five six.", "doc", nil, StrategySentence)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "One two. Three four. Five six.", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].StartChar)
	assert.Equal(t, 30, chunks[0].EndChar)
}

func TestChunkSentence_FlushesOnOverflow(t *testing.T) {
	c := newTestChunker(t, Config{ChunkSize: 2, ChunkOverlap: 1})

	chunks, err := c.ChunkWithStrategy("One two. Three four. Five six.", "doc", nil, StrategySentence)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "One two.", chunks[0].Text)
	assert.Equal(t, "Three four.", chunks[1].Text)
	assert.Equal(t, "Five six.", chunks[2].Text)

	for i := 1; i < len(chunks); i++ {
		assert.GreaterOrEqual(t, chunks[i].StartChar, chunks[i-1].EndChar)
	}
}

func TestChunkSentence_OversizedSentenceSplitsIntoWordGroups(t *testing.T) {
	c := newTestChunker(t, Config{ChunkSize: 3, ChunkOverlap: 1})
	text := "alpha beta gamma delta epsilon zeta. ok done."

	chunks, err := c.ChunkWithStrategy(text, "doc", nil, StrategySentence)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "alpha beta gamma", chunks[0].Text)
	// The oversized sentence's remainder keeps accumulating until the next
	// overflow, so it is emitted before the following sentence.
	assert.Equal(t, "delta epsilon zeta.", chunks[1].Text)
	assert.Equal(t, "ok done.", chunks[2].Text)

	for _, ch := range chunks {
		assert.LessOrEqual(t, ch.TokenCount, 3)
	}
}

func TestChunkSentence_RemainderMergesWithNextSentence(t *testing.T) {
	c := newTestChunker(t, Config{ChunkSize: 4, ChunkOverlap: 1})
	text := "alpha beta gamma delta epsilon zeta. ok."

	chunks, err := c.ChunkWithStrategy(text, "doc", nil, StrategySentence)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "alpha beta gamma delta", chunks[0].Text)
	assert.Equal(t, "epsilon zeta. ok.", chunks[1].Text)
}
