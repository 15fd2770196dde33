// Package vectorstore defines the persistence interface that vector
// records are written to and queried from. Three backends implement it:
// pinecone (managed REST index), pgvector (PostgreSQL with the vector
// extension) and badger (embedded, for local and offline runs).
package vectorstore
