package indexer

// DocumentResult reports the outcome of indexing a single document.
type DocumentResult struct {
	DocID   string
	Chunks  int
	Vectors int
	Tokens  int

	// Skipped is set when change detection found the document already
	// indexed with the same content hash. No vectors were written.
	Skipped bool

	// Warning records a non-fatal condition, such as a document whose
	// text produced no chunks. The document still counts as successful.
	Warning string
}

// DocumentError pairs a document id with the failure that stopped it.
type DocumentError struct {
	DocID string
	Err   error
}

// BatchStats aggregates an IndexAll run. Every fetched document lands in
// exactly one of Successful, Failed or Skipped.
type BatchStats struct {
	Total        int
	Successful   int
	Failed       int
	Skipped      int
	TotalChunks  int
	TotalVectors int
	Errors       []DocumentError
}
