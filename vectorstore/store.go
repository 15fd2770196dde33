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


package vectorstore

import (
	"context"

	"github.com/poiesic/indexit/core"
)

// DefaultTopK is the number of matches returned when a query does not
// specify one.
const DefaultTopK = 10

// UpsertBatchSize is the number of records written per upsert request.
const UpsertBatchSize = 100

// Match is one ranked query result. Score is a similarity in [0, 1],
// higher is closer.
type Match struct {
	ID       string
	Score    float32
	Metadata map[string]any
}

// Stats describes the index contents.
type Stats struct {
	Dimension  int
	TotalCount int
	Namespaces map[string]int
}

// Store is the vector persistence layer. All operations take a namespace;
// the empty string is the default namespace and is always valid.
//
// Implementations must be safe for concurrent use. Numeric metadata values
// may be normalized on read (backends store them as JSON or tagged scalars),
// so callers should not rely on exact integer widths round-tripping.
type Store interface {
	// Upsert writes records in batches, overwriting existing ids.
	// Returns the number of records written.
	Upsert(ctx context.Context, records []core.VectorRecord, namespace string) (int, error)

	// Fetch returns the records for the given ids, keyed by id.
	// Missing ids are simply absent from the result.
	Fetch(ctx context.Context, ids []string, namespace string) (map[string]core.VectorRecord, error)

	// Query returns up to topK matches ranked by similarity to vector.
	// A topK <= 0 uses DefaultTopK. A non-nil filter restricts matches to
	// records whose metadata contains all filter pairs.
	Query(ctx context.Context, vector []float32, topK int, filter map[string]any, namespace string) ([]Match, error)

	// DeleteByIDs removes the given records.
	DeleteByIDs(ctx context.Context, ids []string, namespace string) error

	// DeleteByFilter removes records whose metadata contains all filter
	// pairs. A nil filter removes the whole namespace.
	DeleteByFilter(ctx context.Context, filter map[string]any, namespace string) error

	// Stats reports the index dimension and per-namespace record counts.
	Stats(ctx context.Context) (*Stats, error)

	// Close releases the backend.
	Close() error
}
