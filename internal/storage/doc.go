// Package storage provides the device-local key-value records that back the
// garden: the profile, the journal history and a couple of preferences.
//
// Three backends implement Store:
//   - FileStore keeps one JSON file per key and writes atomically.
//   - SQLiteStore keeps a single kv table in a SQLite database.
//   - MemoryStore keeps values in a map, used by tests and ephemeral runs.
//
// # Error Types
//
//   - ErrNotFound: the key has never been written or was deleted.
package storage
