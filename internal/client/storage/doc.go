// Package storage adapts a kv.Backend into typed persistence for DataShare
// collections.
//
// Each collection lives under one key as JSON text and is replaced as a whole
// on every save. Reads are forgiving: a missing key, a backend failure or
// unparseable text all read as an empty collection, and single elements that
// do not decode or validate are dropped. Writes are strict: failures are
// returned wrapped in common.ErrPersistenceWrite.
//
// An Adapter built without a backend models an environment with no durable
// medium. Saves silently succeed and loads return nothing.
package storage
