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


package pgvector

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"github.com/poiesic/indexit/core"
	"github.com/poiesic/indexit/vectorstore"
)

const (
	// DefaultTable is the vector table used when none is configured.
	DefaultTable = "vectors"

	// DefaultDimension sizes the embedding column when none is configured.
	DefaultDimension = 1536
)

// Store persists vector records in PostgreSQL with the pgvector extension.
// One table holds every namespace; similarity queries use the cosine
// distance operator.
type Store struct {
	pool      *pgxpool.Pool
	table     string
	dimension int
	batchSize int
	logger    *slog.Logger
}

var _ vectorstore.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store) error

// WithTable sets the vector table.
func WithTable(table string) Option {
	return func(s *Store) error {
		if table == "" {
			return ErrTableRequired
		}
		s.table = table
		return nil
	}
}

// WithDimension sets the embedding column dimension. It must match the
// embedding model; the column type is fixed at schema creation.
func WithDimension(dimension int) Option {
	return func(s *Store) error {
		if dimension < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidDimension, dimension)
		}
		s.dimension = dimension
		return nil
	}
}

// WithBatchSize sets how many records are written per upsert round trip.
func WithBatchSize(size int) Option {
	return func(s *Store) error {
		if size < 1 {
			return fmt.Errorf("batch size must be greater than 0, got %d", size)
		}
		s.batchSize = size
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// New connects to PostgreSQL, registers the pgvector codecs on every
// pooled connection and ensures the vector table exists.
func New(ctx context.Context, connString string, opts ...Option) (*Store, error) {
	if connString == "" {
		return nil, ErrConnStringRequired
	}

	s := &Store{
		table:     DefaultTable,
		dimension: DefaultDimension,
		batchSize: vectorstore.UpsertBatchSize,
		logger:    slog.Default().With("component", "pgvector"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	s.pool = pool

	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	s.logger.Info("vector store ready", "table", s.table, "dimension", s.dimension)
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	for _, statement := range schemaStatements(s.table, s.dimension) {
		if _, err := s.pool.Exec(ctx, statement); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// schemaStatements renders the DDL for the vector table: the extension,
// the table keyed by (id, namespace), an ivfflat index for cosine search
// and a gin index for metadata containment filters.
func schemaStatements(table string, dimension int) []string {
	tableSQL := sanitize(table)
	return []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id text NOT NULL,
	namespace text NOT NULL DEFAULT '',
	embedding vector(%d) NOT NULL,
	metadata jsonb NOT NULL DEFAULT '{}',
	PRIMARY KEY (id, namespace)
)`, tableSQL, dimension),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)",
			sanitize(table+"_embedding_idx"), tableSQL),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s USING gin (metadata)",
			sanitize(table+"_metadata_idx"), tableSQL),
	}
}

func sanitize(identifier string) string {
	return pgx.Identifier{identifier}.Sanitize()
}

// Upsert writes records in batched round trips, replacing the embedding
// and metadata of existing ids.
func (s *Store) Upsert(ctx context.Context, records []core.VectorRecord, namespace string) (int, error) {
	query := fmt.Sprintf(`INSERT INTO %s (id, namespace, embedding, metadata)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id, namespace) DO UPDATE SET embedding = EXCLUDED.embedding, metadata = EXCLUDED.metadata`,
		sanitize(s.table))

	total := 0
	for start := 0; start < len(records); start += s.batchSize {
		end := min(start+s.batchSize, len(records))
		group := records[start:end]

		batch := &pgx.Batch{}
		for _, record := range group {
			batch.Queue(query, record.ID, namespace, pgvector.NewVector(record.Values), record.Metadata)
		}

		results := s.pool.SendBatch(ctx, batch)
		for range group {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return total, fmt.Errorf("failed to upsert vectors: %w", err)
			}
		}
		if err := results.Close(); err != nil {
			return total, fmt.Errorf("failed to upsert vectors: %w", err)
		}
		total += len(group)
	}

	s.logger.Info("vectors upserted", "count", total, "namespace", namespace)
	return total, nil
}

// Fetch returns the stored records for the given ids.
func (s *Store) Fetch(ctx context.Context, ids []string, namespace string) (map[string]core.VectorRecord, error) {
	records := make(map[string]core.VectorRecord, len(ids))
	if len(ids) == 0 {
		return records, nil
	}

	query := fmt.Sprintf("SELECT id, embedding, metadata FROM %s WHERE namespace = $1 AND id = ANY($2)",
		sanitize(s.table))

	rows, err := s.pool.Query(ctx, query, namespace, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vectors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        string
			embedding pgvector.Vector
			metadata  map[string]any
		)
		if err := rows.Scan(&id, &embedding, &metadata); err != nil {
			return nil, fmt.Errorf("failed to decode vector row: %w", err)
		}
		records[id] = core.VectorRecord{ID: id, Values: embedding.Slice(), Metadata: metadata}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch vectors: %w", err)
	}
	return records, nil
}

// Query ranks records by cosine similarity. The score is 1 minus the
// cosine distance, so identical directions score 1.
func (s *Store) Query(ctx context.Context, vector []float32, topK int, filter map[string]any, namespace string) ([]vectorstore.Match, error) {
	if topK <= 0 {
		topK = vectorstore.DefaultTopK
	}

	query := fmt.Sprintf("SELECT id, metadata, 1 - (embedding <=> $1) AS score FROM %s WHERE namespace = $2",
		sanitize(s.table))
	args := []any{pgvector.NewVector(vector), namespace}
	if filter != nil {
		args = append(args, filter)
		query += fmt.Sprintf(" AND metadata @> $%d", len(args))
	}
	args = append(args, topK)
	query += fmt.Sprintf(" ORDER BY embedding <=> $1 LIMIT $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}
	defer rows.Close()

	var matches []vectorstore.Match
	for rows.Next() {
		var (
			id       string
			metadata map[string]any
			score    float64
		)
		if err := rows.Scan(&id, &metadata, &score); err != nil {
			return nil, fmt.Errorf("failed to decode match row: %w", err)
		}
		matches = append(matches, vectorstore.Match{ID: id, Score: float32(score), Metadata: metadata})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}

	s.logger.Info("query returned matches", "count", len(matches), "namespace", namespace)
	return matches, nil
}

// DeleteByIDs removes the given records. An empty id list is a no-op.
func (s *Store) DeleteByIDs(ctx context.Context, ids []string, namespace string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE namespace = $1 AND id = ANY($2)", sanitize(s.table))
	tag, err := s.pool.Exec(ctx, query, namespace, ids)
	if err != nil {
		return fmt.Errorf("failed to delete vectors: %w", err)
	}

	s.logger.Info("vectors deleted", "count", tag.RowsAffected(), "namespace", namespace)
	return nil
}

// DeleteByFilter removes records whose metadata contains all filter pairs.
// A nil filter clears the whole namespace.
func (s *Store) DeleteByFilter(ctx context.Context, filter map[string]any, namespace string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE namespace = $1", sanitize(s.table))
	args := []any{namespace}
	if filter != nil {
		args = append(args, filter)
		query += fmt.Sprintf(" AND metadata @> $%d", len(args))
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete vectors by filter: %w", err)
	}

	s.logger.Info("vectors deleted by filter",
		"count", tag.RowsAffected(), "namespace", namespace)
	return nil
}

// Stats reports per-namespace record counts and the configured dimension.
func (s *Store) Stats(ctx context.Context) (*vectorstore.Stats, error) {
	query := fmt.Sprintf("SELECT namespace, COUNT(*) FROM %s GROUP BY namespace", sanitize(s.table))

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}
	defer rows.Close()

	stats := &vectorstore.Stats{
		Dimension:  s.dimension,
		Namespaces: make(map[string]int),
	}
	for rows.Next() {
		var (
			namespace string
			count     int64
		)
		if err := rows.Scan(&namespace, &count); err != nil {
			return nil, fmt.Errorf("failed to decode stats row: %w", err)
		}
		stats.Namespaces[namespace] = int(count)
		stats.TotalCount += int(count)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}
	return stats, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
