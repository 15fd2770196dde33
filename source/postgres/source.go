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


package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/poiesic/indexit/source"
)

const (
	// DefaultTable is the document table read when none is configured.
	DefaultTable = "documents"

	// DefaultIDColumn is the primary key column.
	DefaultIDColumn = "id"

	defaultMinConns = 2
	defaultMaxConns = 10
)

// Source reads documents from a PostgreSQL table. Rows are decoded
// dynamically, so the table schema only needs an id column; every other
// column is surfaced through Record.Fields as-is.
type Source struct {
	pool     *pgxpool.Pool
	table    string
	idColumn string
	logger   *slog.Logger
}

var _ source.Source = (*Source)(nil)

// Option configures a Source.
type Option func(*Source) error

// WithTable sets the document table.
func WithTable(table string) Option {
	return func(s *Source) error {
		if table == "" {
			return ErrTableRequired
		}
		s.table = table
		return nil
	}
}

// WithIDColumn sets the primary key column.
func WithIDColumn(column string) Option {
	return func(s *Source) error {
		if column == "" {
			return ErrIDColumnRequired
		}
		s.idColumn = column
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// New connects a pooled PostgreSQL source and verifies the connection
// with a ping before returning.
func New(ctx context.Context, connString string, opts ...Option) (*Source, error) {
	if connString == "" {
		return nil, ErrConnStringRequired
	}

	s := &Source{
		table:    DefaultTable,
		idColumn: DefaultIDColumn,
		logger:   slog.Default().With("component", "postgres-source"),
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
	poolConfig.MinConns = defaultMinConns
	poolConfig.MaxConns = defaultMaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s.pool = pool
	s.logger.Info("connection pool created", "table", s.table)
	return s, nil
}

// FetchByID returns the document with the given id, or a wrapped
// source.ErrNotFound when no row matches. The id column is compared as
// text so integer, uuid and text keys all work with string ids.
func (s *Source) FetchByID(ctx context.Context, id string) (*source.Record, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s::text = $1",
		sanitize(s.table), sanitize(s.idColumn))

	rows, err := s.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to fetch document %s: %w", id, err)
		}
		return nil, fmt.Errorf("%w: %s", source.ErrNotFound, id)
	}

	record, err := s.decodeRow(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	return record, nil
}

// FetchMany returns documents ordered by id. Filters are combined with
// AND as column equality checks; a limit <= 0 returns every match.
func (s *Source) FetchMany(ctx context.Context, limit int, filters map[string]any) ([]source.Record, error) {
	query := "SELECT * FROM " + sanitize(s.table)
	where, args := buildWhere(filters)
	query += where
	query += " ORDER BY " + sanitize(s.idColumn)
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}
	defer rows.Close()

	var records []source.Record
	for rows.Next() {
		record, err := s.decodeRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to decode document row: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}

	s.logger.Info("documents fetched", "count", len(records))
	return records, nil
}

// UpdateStatus sets the document's status column. When the status is
// StatusIndexed the indexed_at timestamp is set as well.
func (s *Source) UpdateStatus(ctx context.Context, id string, status string) error {
	set := "status = $1"
	if status == source.StatusIndexed {
		set += ", indexed_at = now()"
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s::text = $2",
		sanitize(s.table), set, sanitize(s.idColumn))

	tag, err := s.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status for document %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", source.ErrNotFound, id)
	}

	s.logger.Info("document status updated", "doc_id", id, "status", status)
	return nil
}

// Count returns the number of documents matching the filters.
func (s *Source) Count(ctx context.Context, filters map[string]any) (int, error) {
	query := "SELECT COUNT(*) FROM " + sanitize(s.table)
	where, args := buildWhere(filters)
	query += where

	var count int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return int(count), nil
}

// Close releases the connection pool.
func (s *Source) Close() {
	if s.pool != nil {
		s.pool.Close()
		s.logger.Info("connection pool closed")
	}
}

func (s *Source) decodeRow(rows pgx.Rows) (*source.Record, error) {
	values, err := rows.Values()
	if err != nil {
		return nil, err
	}

	record := &source.Record{Fields: make(map[string]any, len(values))}
	for i, desc := range rows.FieldDescriptions() {
		name := strings.ToLower(desc.Name)
		record.Fields[name] = values[i]
		if name == s.idColumn {
			record.ID = formatID(values[i])
		}
	}
	return record, nil
}

// buildWhere renders equality filters as a WHERE clause with positional
// placeholders starting at $1. Keys are sorted so identical filters always
// produce identical SQL.
func buildWhere(filters map[string]any) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(filters))
	for key := range filters {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	clauses := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, key := range keys {
		clauses[i] = fmt.Sprintf("%s = $%d", sanitize(key), i+1)
		args[i] = filters[key]
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// sanitize quotes an identifier that ends up interpolated into SQL text.
func sanitize(identifier string) string {
	return pgx.Identifier{identifier}.Sanitize()
}

// formatID renders a primary key value as the string form used in record
// ids and vector metadata.
func formatID(value any) string {
	switch id := value.(type) {
	case string:
		return id
	case []byte:
		return string(id)
	case [16]byte:
		return uuid.UUID(id).String()
	default:
		return fmt.Sprintf("%v", id)
	}
}
