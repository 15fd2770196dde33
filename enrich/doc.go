// Package enrich generates semantic context for chunks using a language model.
//
// Each chunk is analyzed into a contextual summary, key concepts, keywords,
// a topic and candidate questions, then rewoven with the original text into
// an enhanced form that downstream embedding prefers. Failures never drop a
// chunk: transient errors are retried with backoff, and anything still
// failing degrades to a placeholder result with the original text intact.
//
// The package also produces whole-document synopses used as shared context
// for the detailed prompt template.
package enrich
