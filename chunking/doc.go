// Package chunking splits document text into an ordered sequence of
// bounded chunks ready for enrichment and embedding.
//
// Four strategies are available:
//   - fixed_size: character window with overlap, cut at word boundaries
//   - recursive: token-budgeted splitting on progressively finer separators
//   - sentence: sentence accumulation under a token budget
//   - semantic: alias of recursive (no independent algorithm)
//
// Chunking is pure computation over in-memory text; it performs no I/O.
// Token budgets are measured by a TokenCounter, normally backed by a
// tiktoken BPE encoding.
package chunking
