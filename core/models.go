package core

import (
	"encoding/hex"
	"fmt"

	"github.com/go-crypt/x/blake2b"
)

// Chunk represents one contiguous span of a document's text.
// Chunks are created by the chunking package in a single pass over a
// document and are never mutated afterwards; downstream stages wrap them.
type Chunk struct {
	Text       string
	ChunkIndex int            // Zero-based emission order, contiguous per document
	DocID      string         // Owning document identifier
	StartChar  int            // Byte offset of the span start in the source text
	EndChar    int            // Byte offset of the span end in the source text
	TokenCount int            // Token count of Text under the configured encoding
	Metadata   map[string]any // Document fields plus a "strategy" tag
}

// EnrichedChunk wraps a Chunk with model-derived semantic context.
// One EnrichedChunk exists per Chunk even when enrichment fails; the
// enrich package substitutes placeholder values rather than dropping data.
type EnrichedChunk struct {
	Chunk             Chunk
	ContextualSummary string
	KeyConcepts       []string
	Keywords          []string
	Topic             string
	Questions         []string
	EnhancedText      string // The text actually embedded when enrichment is enabled
}

// VectorRecord is the terminal pipeline artifact: a unique id, a dense
// embedding vector, and scalar-only metadata ready for a vector store.
type VectorRecord struct {
	ID       string
	Values   []float32
	Metadata map[string]any // Values are string, number or bool only
}

// VectorID builds the deterministic record id for a chunk. Re-indexing a
// document with the same chunking configuration reproduces the same ids,
// so upserts overwrite instead of accumulating duplicates.
func VectorID(docID string, chunkIndex int) string {
	return fmt.Sprintf("%s_%d", docID, chunkIndex)
}

// IsZero reports whether the record carries a substituted zero vector.
// Zero vectors stand in for items whose embedding failed after retries;
// callers that require exact embeddings should check this before use.
func (r *VectorRecord) IsZero() bool {
	if len(r.Values) == 0 {
		return false
	}
	for _, v := range r.Values {
		if v != 0 {
			return false
		}
	}
	return true
}

// ContentHash returns a deterministic BLAKE2b-256 hex digest of text.
// It is stored in vector metadata so re-index runs can detect documents
// whose content has not changed.
func ContentHash(text string) string {
	h, _ := blake2b.New(32, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
