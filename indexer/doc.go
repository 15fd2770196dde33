// Package indexer orchestrates the indexing pipeline: documents are
// fetched from a source, chunked, optionally enriched with LLM-generated
// context, embedded and upserted into a vector store. Batch runs isolate
// per-document failures and report aggregate statistics; search, delete
// and stats operations round out the index lifecycle.
package indexer
