// Package embedding converts enriched chunks into vector records ready for
// upsert. Texts are embedded in batches, a failed batch degrades to
// per-text retries, and a text that still cannot be embedded is assigned a
// zero vector rather than failing its siblings. Record metadata carries
// only scalar values so any vector store backend can index it.
package embedding
