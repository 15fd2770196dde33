package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysis(t *testing.T) {
	t.Run("plain JSON object", func(t *testing.T) {
		result, err := parseAnalysis(`{
			"contextual_summary": "About foxes.",
			"key_concepts": ["fox"],
			"keywords": ["fox", "dog"],
			"topic": "animals",
			"questions": ["What jumps?"]
		}`)

		require.NoError(t, err)
		assert.Equal(t, "About foxes.", result.ContextualSummary)
		assert.Equal(t, []string{"fox"}, result.KeyConcepts)
		assert.Equal(t, []string{"fox", "dog"}, result.Keywords)
		assert.Equal(t, "animals", result.Topic)
		assert.Equal(t, []string{"What jumps?"}, result.Questions)
	})

	t.Run("markdown fenced", func(t *testing.T) {
		result, err := parseAnalysis("```json\n{\"topic\": \"animals\"}\n```")

		require.NoError(t, err)
		assert.Equal(t, "animals", result.Topic)
	})

	t.Run("fence without language tag", func(t *testing.T) {
		result, err := parseAnalysis("```\n{\"topic\": \"animals\"}\n```")

		require.NoError(t, err)
		assert.Equal(t, "animals", result.Topic)
	})

	t.Run("object wrapped in prose", func(t *testing.T) {
		result, err := parseAnalysis(`Here is the analysis you asked for:

{"topic": "animals", "keywords": ["fox"]}

Let me know if you need anything else.`)

		require.NoError(t, err)
		assert.Equal(t, "animals", result.Topic)
		assert.Equal(t, []string{"fox"}, result.Keywords)
	})

	t.Run("repairs key missing opening quote", func(t *testing.T) {
		result, err := parseAnalysis(`{"contextual_summary": "s", topic": "animals"}`)

		require.NoError(t, err)
		assert.Equal(t, "s", result.ContextualSummary)
		assert.Equal(t, "animals", result.Topic)
	})

	t.Run("missing fields decode to zero values", func(t *testing.T) {
		result, err := parseAnalysis(`{"topic": "animals"}`)

		require.NoError(t, err)
		assert.Equal(t, "animals", result.Topic)
		assert.Empty(t, result.ContextualSummary)
		assert.Nil(t, result.KeyConcepts)
	})

	t.Run("rejects non-JSON", func(t *testing.T) {
		_, err := parseAnalysis("Sorry, I cannot help with that.")

		assert.Error(t, err)
	})

	t.Run("rejects empty response", func(t *testing.T) {
		_, err := parseAnalysis("")

		assert.Error(t, err)
	})
}
