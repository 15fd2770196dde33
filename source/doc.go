// Package source abstracts the relational database that documents are
// fetched from. A Record carries the raw row columns; the Source interface
// covers fetching, counting and writing the per-document indexing status
// back. The postgres subpackage is the production implementation.
package source
