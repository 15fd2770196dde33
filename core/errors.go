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

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyChunkText indicates the chunk Text field is empty.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")

	// ErrInvalidOffsets indicates StartChar is not strictly less than EndChar.
	ErrInvalidOffsets = errors.New("start offset must be less than end offset")

	// ErrNegativeChunkIndex indicates a negative ChunkIndex value.
	ErrNegativeChunkIndex = errors.New("chunk index cannot be negative")

	// ErrInvalidVectorRecord indicates a VectorRecord failed validation.
	ErrInvalidVectorRecord = errors.New("invalid vector record")

	// ErrEmptyVectorID indicates the record ID field is empty.
	ErrEmptyVectorID = errors.New("vector id cannot be empty")

	// ErrDimensionMismatch indicates a vector whose length differs from the
	// configured embedding dimension. This is fatal for the document: it
	// signals a model/config mismatch that would corrupt the index.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
