// Package persistence stores the token bundle in a durable local key-value
// store under a single fixed key.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// ErrNotFound is returned by KV.Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// KV is a durable string-keyed byte store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// SQLiteFile is the database file name used by the sqlite backend.
const SQLiteFile = "brandkit.db"

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}

// Open creates the KV for backend rooted at dataDir.
func Open(backend, dataDir string) (KV, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	switch backend {
	case BackendFile, "":
		return NewFileKV(dataDir)
	case BackendSQLite:
		return NewSQLiteKV(filepath.Join(dataDir, SQLiteFile))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
