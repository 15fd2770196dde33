package badger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/poiesic/indexit/core"
	"github.com/poiesic/indexit/vectorstore"
)

// Store keeps vector records in a BadgerDB database. It exists so the
// pipeline can run against local disk, or fully in memory, without any
// external vector service.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ vectorstore.Store = (*Store)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets the logger. A nil logger falls back to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// New opens a BadgerDB-backed vector store at path, creating the
// directory if needed. When inMemory is true, path is ignored and
// nothing is persisted.
func New(path string, inMemory bool, opts ...Option) (*Store, error) {
	store := &Store{
		logger: slog.Default().With("component", "badger-store"),
	}
	for _, opt := range opts {
		if err := opt(store); err != nil {
			return nil, err
		}
	}

	var badgerOpts badger.Options
	if inMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			if err := os.MkdirAll(path, 0755); err != nil {
				return nil, err
			}
			info, err = os.Stat(path)
			if err != nil {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", path)
		}
		badgerOpts = badger.DefaultOptions(path)
	}

	badgerOpts.Logger = &badgerLoggerAdapter{logger: store.logger}
	badgerOpts.Compression = options.None

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}
	store.db = db

	store.logger.Info("vector store opened", "in_memory", inMemory)
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx executes fn inside a transaction. The transaction is discarded
// unless fn committed it; write fns commit before returning.
func (s *Store) withTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := s.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// Upsert writes the records into the namespace, replacing any records
// that share an id. Records are committed in batches to keep individual
// transactions small.
func (s *Store) Upsert(ctx context.Context, records []core.VectorRecord, namespace string) (int, error) {
	if err := validateNamespace(namespace); err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	upserted := 0
	for start := 0; start < len(records); start += vectorstore.UpsertBatchSize {
		batch := records[start:min(start+vectorstore.UpsertBatchSize, len(records))]
		err := s.withTx(func(tx *badger.Txn) error {
			for _, record := range batch {
				if err := tx.Set(makeVectorKey(namespace, record.ID), marshalRecord(record)); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return upserted, fmt.Errorf("failed to upsert batch: %w", err)
		}
		upserted += len(batch)
	}

	s.logger.Info("vectors upserted", "count", upserted, "namespace", namespace)
	return upserted, nil
}

// Fetch returns the records stored under the given ids. Missing ids are
// absent from the result.
func (s *Store) Fetch(ctx context.Context, ids []string, namespace string) (map[string]core.VectorRecord, error) {
	if err := validateNamespace(namespace); err != nil {
		return nil, err
	}

	found := make(map[string]core.VectorRecord, len(ids))
	err := s.withTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			item, err := tx.Get(makeVectorKey(namespace, id))
			if err != nil {
				if err == badger.ErrKeyNotFound {
					continue
				}
				return err
			}
			err = item.Value(func(val []byte) error {
				record, err := unmarshalRecord(val)
				if err != nil {
					return err
				}
				found[record.ID] = record
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vectors: %w", err)
	}
	return found, nil
}

// Query scans the namespace and returns the topK records most similar to
// the query vector, ranked by cosine similarity. A non-nil filter keeps
// only records whose metadata contains every filter entry.
func (s *Store) Query(ctx context.Context, vector []float32, topK int, filter map[string]any, namespace string) ([]vectorstore.Match, error) {
	if err := validateNamespace(namespace); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = vectorstore.DefaultTopK
	}

	var matches []vectorstore.Match
	err := s.withTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = namespacePrefix(namespace)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record core.VectorRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = unmarshalRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if filter != nil && !matchesFilter(record.Metadata, filter) {
				continue
			}
			matches = append(matches, vectorstore.Match{
				ID:       record.ID,
				Score:    cosineSimilarity(vector, record.Values),
				Metadata: record.Metadata,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}

	// Sort by similarity descending
	slices.SortFunc(matches, func(a, b vectorstore.Match) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}

	s.logger.Info("query completed", "matches", len(matches), "namespace", namespace)
	return matches, nil
}

// DeleteByIDs removes the records stored under the given ids. Unknown
// ids are ignored.
func (s *Store) DeleteByIDs(ctx context.Context, ids []string, namespace string) error {
	if err := validateNamespace(namespace); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	err := s.withTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := tx.Delete(makeVectorKey(namespace, id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("failed to delete vectors: %w", err)
	}

	s.logger.Info("vectors deleted", "count", len(ids), "namespace", namespace)
	return nil
}

// DeleteByFilter removes every record in the namespace whose metadata
// contains the filter. A nil filter removes the entire namespace.
func (s *Store) DeleteByFilter(ctx context.Context, filter map[string]any, namespace string) error {
	if err := validateNamespace(namespace); err != nil {
		return err
	}

	var doomed [][]byte
	err := s.withTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = namespacePrefix(namespace)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			if filter != nil {
				var record core.VectorRecord
				err := item.Value(func(val []byte) error {
					var err error
					record, err = unmarshalRecord(val)
					return err
				})
				if err != nil {
					return err
				}
				if !matchesFilter(record.Metadata, filter) {
					continue
				}
			}
			doomed = append(doomed, item.KeyCopy(nil))
		}
		return nil
	}, false)
	if err != nil {
		return fmt.Errorf("failed to delete by filter: %w", err)
	}

	// Delete in batches so a namespace wipe never exceeds the
	// transaction size limit.
	for start := 0; start < len(doomed); start += vectorstore.UpsertBatchSize {
		batch := doomed[start:min(start+vectorstore.UpsertBatchSize, len(doomed))]
		err := s.withTx(func(tx *badger.Txn) error {
			for _, key := range batch {
				if err := tx.Delete(key); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return fmt.Errorf("failed to delete by filter: %w", err)
		}
	}

	s.logger.Info("vectors deleted by filter", "count", len(doomed), "namespace", namespace)
	return nil
}

// Stats scans the store and reports per-namespace record counts. The
// dimension is taken from the first record encountered and is zero for
// an empty store.
func (s *Store) Stats(ctx context.Context) (*vectorstore.Stats, error) {
	stats := &vectorstore.Stats{
		Namespaces: make(map[string]int),
	}
	err := s.withTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorKeyPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			namespace, _, ok := splitVectorKey(item.Key())
			if !ok {
				continue
			}
			stats.Namespaces[namespace]++
			stats.TotalCount++

			if stats.Dimension == 0 {
				err := item.Value(func(val []byte) error {
					record, err := unmarshalRecord(val)
					if err != nil {
						return err
					}
					stats.Dimension = len(record.Values)
					return nil
				})
				if err != nil {
					return err
				}
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, fmt.Errorf("failed to collect stats: %w", err)
	}
	return stats, nil
}

// matchesFilter reports whether metadata contains every filter entry.
// Numeric values compare by magnitude, so a filter written with an int
// matches a stored float and vice versa.
func matchesFilter(metadata, filter map[string]any) bool {
	for key, want := range filter {
		got, ok := metadata[key]
		if !ok {
			return false
		}
		if !equalScalar(got, want) {
			return false
		}
	}
	return true
}

func equalScalar(a, b any) bool {
	fa, aNum := asFloat(a)
	fb, bNum := asFloat(b)
	if aNum && bNum {
		return fa == fb
	}
	return a == b
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// cosineSimilarity returns the cosine of the angle between a and b.
// Either vector having zero magnitude yields 0.
func cosineSimilarity(a, b []float32) float32 {
	length := min(len(a), len(b))
	var dot, normA, normB float64
	for i := 0; i < length; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
