// Package badger implements the vector store on BadgerDB, giving the
// pipeline a local backend that needs no external service. Records are
// MUS-encoded under "vec:<namespace>:<id>" keys and queries scan the
// namespace computing cosine similarity, which keeps the backend honest
// for development and tests rather than fast for large indexes.
package badger
