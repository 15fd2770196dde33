// Package pgvector implements the vector store on PostgreSQL with the
// pgvector extension. Records live in one table keyed by (id, namespace);
// queries use the cosine distance operator with the score reported as
// 1 - distance. The schema is ensured at construction.
package pgvector
