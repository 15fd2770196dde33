// Package config loads settings for every pipeline component from the
// environment, optionally seeded from a .env file. Settings come in named
// groups (database, providers, chunking, stores, indexer, logging), each
// with defaults matching a typical deployment. Load validates the result
// so wiring code can trust the values it gets.
package config
