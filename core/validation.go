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


package core

import (
	"fmt"
	"strings"
)

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty or whitespace-only
//   - ChunkIndex must not be negative
//   - StartChar must be strictly less than EndChar
//   - TokenCount must not be negative
//
// NOT validated:
//   - Metadata (optional, populated from document fields)
//   - DocID (empty is valid for ad-hoc chunking outside the indexer)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if strings.TrimSpace(chunk.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkText)
	}

	if chunk.ChunkIndex < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeChunkIndex)
	}

	if chunk.StartChar >= chunk.EndChar {
		return fmt.Errorf("%w: %w: start %d, end %d",
			ErrInvalidChunk, ErrInvalidOffsets, chunk.StartChar, chunk.EndChar)
	}

	if chunk.TokenCount < 0 {
		return fmt.Errorf("%w: token count %d is negative", ErrInvalidChunk, chunk.TokenCount)
	}

	return nil
}

// ValidateVectorRecord validates a VectorRecord against the configured
// embedding dimension.
//
// Validation rules:
//   - ID must not be empty
//   - Values length must equal dimension
//
// A dimension mismatch is a hard error, never a degraded result.
func ValidateVectorRecord(record *VectorRecord, dimension int) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidVectorRecord)
	}

	if record.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVectorRecord, ErrEmptyVectorID)
	}

	if len(record.Values) != dimension {
		return fmt.Errorf("%w: %w: got %d, want %d",
			ErrInvalidVectorRecord, ErrDimensionMismatch, len(record.Values), dimension)
	}

	return nil
}
