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


package chunking

import "errors"

var (
	// ErrTokenCounterRequired indicates the Chunker was constructed without a TokenCounter.
	ErrTokenCounterRequired = errors.New("token counter is required")

	// ErrUnknownStrategy indicates an unrecognized strategy selector.
	// This is a programming or configuration error, not a runtime condition.
	ErrUnknownStrategy = errors.New("unknown chunking strategy")

	// ErrInvalidChunkSize indicates a non-positive chunk size.
	ErrInvalidChunkSize = errors.New("chunk size must be greater than 0")

	// ErrNegativeOverlap indicates a negative chunk overlap.
	ErrNegativeOverlap = errors.New("chunk overlap cannot be negative")

	// ErrOverlapTooLarge indicates an overlap that is not smaller than the chunk size.
	ErrOverlapTooLarge = errors.New("chunk overlap must be less than chunk size")

	// ErrChunkSizeExceedsMax indicates a chunk size above the configured maximum.
	ErrChunkSizeExceedsMax = errors.New("chunk size cannot exceed max chunk size")
)
