package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const appDirName = "selfcare-garden"

// ErrNotFound indicates a requested key is missing.
var ErrNotFound = errors.New("key not found")

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Store persists opaque values by key. Each Put replaces the whole value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes every listed key. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Open returns the backend named by backend. For "file" path is a directory,
// for "sqlite" it is the database file; "memory" ignores it.
// An empty path selects DefaultDir.
func Open(ctx context.Context, backend, path string) (Store, error) {
	if path == "" {
		path = DefaultDir()
		if backend == BackendSQLite {
			path = filepath.Join(path, "garden.db")
		}
	}
	switch backend {
	case BackendFile, "":
		return NewFileStore(path), nil
	case BackendSQLite:
		return OpenSQLite(ctx, path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// DefaultDir returns ~/.local/state/selfcare-garden, respecting
// XDG_STATE_HOME if set.
func DefaultDir() string {
	if base := os.Getenv("XDG_STATE_HOME"); base != "" {
		return filepath.Join(base, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".local", "state", appDirName)
}
