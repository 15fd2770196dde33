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


package indexer

import "errors"

var (
	// ErrSourceRequired indicates a nil document source was provided.
	ErrSourceRequired = errors.New("document source is required")

	// ErrChunkerRequired indicates a nil chunker was provided.
	ErrChunkerRequired = errors.New("chunker is required")

	// ErrEnricherRequired indicates context enrichment is enabled but no
	// enricher was provided.
	ErrEnricherRequired = errors.New("enricher is required when context enrichment is enabled")

	// ErrGeneratorRequired indicates a nil embedding generator was provided.
	ErrGeneratorRequired = errors.New("embedding generator is required")

	// ErrStoreRequired indicates a nil vector store was provided.
	ErrStoreRequired = errors.New("vector store is required")

	// ErrDocIDRequired indicates an operation was called with an empty
	// document id.
	ErrDocIDRequired = errors.New("document id is required")

	// ErrEmptyTextField indicates the configured text field is missing or
	// blank on a document.
	ErrEmptyTextField = errors.New("document text field is empty")

	// ErrEmptyQuery indicates a search was attempted with a blank query.
	ErrEmptyQuery = errors.New("query must not be empty")
)
