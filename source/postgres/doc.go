// Package postgres implements the document source on a pgx connection
// pool. Rows are decoded dynamically from their field descriptions, so
// any table with an id column can serve as a document source without a
// schema mapping.
package postgres
