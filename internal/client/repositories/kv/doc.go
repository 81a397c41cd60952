// Package kv provides the durable key/value media the store adapter writes
// to.
//
// # Implementations
//
//   - SQLiteRepository: a single "kv" table in a local SQLite file, created
//     by the embedded goose migrations (see InitDatabase).
//   - MemoryRepository: a map, used in tests and in store=memory mode.
//   - Cached: a write-through LRU in front of any Backend.
//
// All implementations overwrite whole values; there is no partial update and
// no cross-process coordination, so two processes writing the same key race
// and the last writer wins.
package kv
