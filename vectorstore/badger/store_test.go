package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/indexit/core"
	"github.com/poiesic/indexit/vectorstore"
)

func newMemoryStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func record(id string, values []float32, metadata map[string]any) core.VectorRecord {
	return core.VectorRecord{ID: id, Values: values, Metadata: metadata}
}

func TestUpsertAndFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips records", func(t *testing.T) {
		store := newMemoryStore(t)

		count, err := store.Upsert(ctx, []core.VectorRecord{
			record("doc-1_0", []float32{1, 0, 0}, map[string]any{"doc_id": "doc-1", "chunk_index": 0}),
			record("doc-1_1", []float32{0, 1, 0}, map[string]any{"doc_id": "doc-1", "chunk_index": 1}),
			record("doc-2_0", []float32{0, 0, 1}, map[string]any{"doc_id": "doc-2", "chunk_index": 0}),
		}, "alpha")

		require.NoError(t, err)
		assert.Equal(t, 3, count)

		found, err := store.Fetch(ctx, []string{"doc-1_0", "doc-2_0", "ghost"}, "alpha")

		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, []float32{1, 0, 0}, found["doc-1_0"].Values)
		assert.Equal(t, map[string]any{"doc_id": "doc-1", "chunk_index": 0}, found["doc-1_0"].Metadata)
		assert.Equal(t, "doc-2_0", found["doc-2_0"].ID)
	})

	t.Run("replaces records sharing an id", func(t *testing.T) {
		store := newMemoryStore(t)

		_, err := store.Upsert(ctx, []core.VectorRecord{
			record("doc-1_0", []float32{1, 0}, nil),
		}, "alpha")
		require.NoError(t, err)

		_, err = store.Upsert(ctx, []core.VectorRecord{
			record("doc-1_0", []float32{0, 1}, nil),
		}, "alpha")
		require.NoError(t, err)

		found, err := store.Fetch(ctx, []string{"doc-1_0"}, "alpha")
		require.NoError(t, err)
		assert.Equal(t, []float32{0, 1}, found["doc-1_0"].Values)

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.TotalCount)
	})

	t.Run("no records is a no-op", func(t *testing.T) {
		store := newMemoryStore(t)

		count, err := store.Upsert(ctx, nil, "alpha")

		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("namespaces are isolated", func(t *testing.T) {
		store := newMemoryStore(t)

		_, err := store.Upsert(ctx, []core.VectorRecord{
			record("doc-1_0", []float32{1}, nil),
		}, "alpha")
		require.NoError(t, err)

		found, err := store.Fetch(ctx, []string{"doc-1_0"}, "beta")

		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("rejects namespace with separator", func(t *testing.T) {
		store := newMemoryStore(t)

		_, err := store.Upsert(ctx, []core.VectorRecord{record("doc-1_0", []float32{1}, nil)}, "a:b")
		assert.ErrorIs(t, err, ErrInvalidNamespace)

		_, err = store.Fetch(ctx, []string{"doc-1_0"}, "a:b")
		assert.ErrorIs(t, err, ErrInvalidNamespace)

		_, err = store.Query(ctx, []float32{1}, 1, nil, "a:b")
		assert.ErrorIs(t, err, ErrInvalidNamespace)
	})
}

func seedQueryFixtures(t *testing.T, store *Store) {
	t.Helper()

	_, err := store.Upsert(context.Background(), []core.VectorRecord{
		record("doc-1_0", []float32{1, 0, 0}, map[string]any{"doc_id": "doc-1", "chunk_index": 0}),
		record("doc-1_1", []float32{1, 1, 0}, map[string]any{"doc_id": "doc-1", "chunk_index": 1}),
		record("doc-2_0", []float32{0, 1, 0}, map[string]any{"doc_id": "doc-2", "chunk_index": 0}),
	}, "alpha")
	require.NoError(t, err)
}

func TestQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks by cosine similarity", func(t *testing.T) {
		store := newMemoryStore(t)
		seedQueryFixtures(t, store)

		matches, err := store.Query(ctx, []float32{1, 0, 0}, 3, nil, "alpha")

		require.NoError(t, err)
		require.Len(t, matches, 3)
		assert.Equal(t, "doc-1_0", matches[0].ID)
		assert.InDelta(t, 1.0, matches[0].Score, 1e-4)
		assert.Equal(t, "doc-1_1", matches[1].ID)
		assert.InDelta(t, 0.7071, matches[1].Score, 1e-4)
		assert.Equal(t, "doc-2_0", matches[2].ID)
		assert.InDelta(t, 0.0, matches[2].Score, 1e-4)
		assert.Equal(t, "doc-1", matches[0].Metadata["doc_id"])
	})

	t.Run("limits to topK", func(t *testing.T) {
		store := newMemoryStore(t)
		seedQueryFixtures(t, store)

		matches, err := store.Query(ctx, []float32{1, 0, 0}, 1, nil, "alpha")

		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "doc-1_0", matches[0].ID)
	})

	t.Run("non-positive topK uses the default", func(t *testing.T) {
		store := newMemoryStore(t)
		seedQueryFixtures(t, store)

		matches, err := store.Query(ctx, []float32{1, 0, 0}, 0, nil, "alpha")

		require.NoError(t, err)
		assert.Len(t, matches, 3)
		assert.Equal(t, 10, vectorstore.DefaultTopK)
	})

	t.Run("filter keeps matching records only", func(t *testing.T) {
		store := newMemoryStore(t)
		seedQueryFixtures(t, store)

		matches, err := store.Query(ctx, []float32{1, 0, 0}, 10, map[string]any{"doc_id": "doc-1"}, "alpha")

		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "doc-1_0", matches[0].ID)
		assert.Equal(t, "doc-1_1", matches[1].ID)
	})

	t.Run("numeric filters match across types", func(t *testing.T) {
		store := newMemoryStore(t)
		seedQueryFixtures(t, store)

		matches, err := store.Query(ctx, []float32{1, 0, 0}, 10, map[string]any{"chunk_index": float64(1)}, "alpha")

		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "doc-1_1", matches[0].ID)
	})

	t.Run("empty namespace returns no matches", func(t *testing.T) {
		store := newMemoryStore(t)
		seedQueryFixtures(t, store)

		matches, err := store.Query(ctx, []float32{1, 0, 0}, 10, nil, "beta")

		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("zero query vector scores zero", func(t *testing.T) {
		store := newMemoryStore(t)
		seedQueryFixtures(t, store)

		matches, err := store.Query(ctx, []float32{0, 0, 0}, 3, nil, "alpha")

		require.NoError(t, err)
		require.Len(t, matches, 3)
		for _, match := range matches {
			assert.Zero(t, match.Score)
		}
	})
}

func TestDeleteByIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("removes listed ids and ignores unknown ones", func(t *testing.T) {
		store := newMemoryStore(t)
		seedQueryFixtures(t, store)

		err := store.DeleteByIDs(ctx, []string{"doc-1_0", "ghost"}, "alpha")
		require.NoError(t, err)

		found, err := store.Fetch(ctx, []string{"doc-1_0", "doc-1_1", "doc-2_0"}, "alpha")
		require.NoError(t, err)
		assert.Len(t, found, 2)
		assert.NotContains(t, found, "doc-1_0")
	})

	t.Run("no ids is a no-op", func(t *testing.T) {
		store := newMemoryStore(t)
		seedQueryFixtures(t, store)

		require.NoError(t, store.DeleteByIDs(ctx, nil, "alpha"))

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.TotalCount)
	})
}

func TestDeleteByFilter(t *testing.T) {
	ctx := context.Background()

	seedTwoNamespaces := func(t *testing.T, store *Store) {
		t.Helper()
		seedQueryFixtures(t, store)
		_, err := store.Upsert(ctx, []core.VectorRecord{
			record("doc-9_0", []float32{1, 0, 0}, map[string]any{"doc_id": "doc-9"}),
		}, "beta")
		require.NoError(t, err)
	}

	t.Run("removes records matching the filter", func(t *testing.T) {
		store := newMemoryStore(t)
		seedTwoNamespaces(t, store)

		err := store.DeleteByFilter(ctx, map[string]any{"doc_id": "doc-1"}, "alpha")
		require.NoError(t, err)

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Namespaces["alpha"])
		assert.Equal(t, 1, stats.Namespaces["beta"])
	})

	t.Run("nil filter wipes the namespace only", func(t *testing.T) {
		store := newMemoryStore(t)
		seedTwoNamespaces(t, store)

		err := store.DeleteByFilter(ctx, nil, "alpha")
		require.NoError(t, err)

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Zero(t, stats.Namespaces["alpha"])
		assert.Equal(t, 1, stats.Namespaces["beta"])
		assert.Equal(t, 1, stats.TotalCount)
	})
}

func TestStats(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		store := newMemoryStore(t)

		stats, err := store.Stats(ctx)

		require.NoError(t, err)
		assert.Zero(t, stats.TotalCount)
		assert.Zero(t, stats.Dimension)
		assert.Empty(t, stats.Namespaces)
	})

	t.Run("counts records per namespace", func(t *testing.T) {
		store := newMemoryStore(t)
		seedQueryFixtures(t, store)
		_, err := store.Upsert(ctx, []core.VectorRecord{
			record("doc-9_0", []float32{0, 0, 1}, nil),
		}, "beta")
		require.NoError(t, err)

		stats, err := store.Stats(ctx)

		require.NoError(t, err)
		assert.Equal(t, 4, stats.TotalCount)
		assert.Equal(t, 3, stats.Dimension)
		assert.Equal(t, map[string]int{"alpha": 3, "beta": 1}, stats.Namespaces)
	})
}

func TestMatchesFilter(t *testing.T) {
	metadata := map[string]any{"doc_id": "doc-1", "chunk_index": 2, "ratio": 0.5, "published": true}

	tests := []struct {
		name   string
		filter map[string]any
		want   bool
	}{
		{"single match", map[string]any{"doc_id": "doc-1"}, true},
		{"all entries must match", map[string]any{"doc_id": "doc-1", "published": false}, false},
		{"missing key", map[string]any{"source": "web"}, false},
		{"int filter against int value", map[string]any{"chunk_index": 2}, true},
		{"float filter against int value", map[string]any{"chunk_index": 2.0}, true},
		{"int filter against float value", map[string]any{"ratio": 0}, false},
		{"value mismatch", map[string]any{"chunk_index": 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesFilter(metadata, tt.filter))
		})
	}
}
