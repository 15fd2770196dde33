package embedding

import (
	"strings"
	"unicode/utf8"

	"github.com/poiesic/indexit/core"
)

const (
	// metadataTextLimit caps the raw chunk text stored in record metadata.
	metadataTextLimit = 1000

	metadataConceptLimit  = 5
	metadataKeywordLimit  = 10
	metadataQuestionLimit = 3
)

// buildMetadata flattens an enriched chunk into the scalar-only metadata
// stored alongside its vector. Pipeline fields are reserved keys; chunk
// metadata fills in around them but never overwrites them.
func buildMetadata(enriched core.EnrichedChunk) map[string]any {
	chunk := enriched.Chunk
	metadata := map[string]any{
		"doc_id":             chunk.DocID,
		"chunk_index":        chunk.ChunkIndex,
		"start_char":         chunk.StartChar,
		"end_char":           chunk.EndChar,
		"token_count":        chunk.TokenCount,
		"text":               truncateRunes(chunk.Text, metadataTextLimit),
		"contextual_summary": enriched.ContextualSummary,
		"topic":              enriched.Topic,
		"key_concepts":       strings.Join(head(enriched.KeyConcepts, metadataConceptLimit), ", "),
		"keywords":           strings.Join(head(enriched.Keywords, metadataKeywordLimit), ", "),
		"questions":          strings.Join(head(enriched.Questions, metadataQuestionLimit), " | "),
	}

	for key, value := range chunk.Metadata {
		if _, reserved := metadata[key]; reserved {
			continue
		}
		if isScalar(value) {
			metadata[key] = value
		}
	}

	return metadata
}

// isScalar reports whether value is a string, bool or numeric value that
// vector store metadata can carry directly.
func isScalar(value any) bool {
	switch value.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

// truncateRunes caps s at limit runes so stored metadata stays valid UTF-8.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func head(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
