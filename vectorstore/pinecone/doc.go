// Package pinecone implements the vector store on the Pinecone REST data
// plane. The client is bound to one index host and performs upserts,
// queries, fetches, deletes and stats against it. Index provisioning is
// not handled here; the index must exist.
package pinecone
