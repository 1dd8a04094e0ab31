// Package storage persists the client session (bearer token and cached user
// record) across restarts. Every backend stores exactly two entries, written
// together and cleared together.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/b3uf/backoffice/internal/config"
)

const (
	// TokenKey holds the bearer token string.
	TokenKey = "token"
	// UserKey holds the JSON-serialized user record.
	UserKey = "user"

	configDirName = "b3uf"
)

// ErrNotFound is returned by Load when no token is stored
var ErrNotFound = errors.New("no stored session")

// Record is the pair of entries kept in durable storage. User is the raw
// JSON user record; decoding it is the session's job.
type Record struct {
	Token string
	User  string
}

// Store is the durable storage port shared by all backends
type Store interface {
	Load() (Record, error)
	Save(rec Record) error
	Clear() error
}

// Open returns the backend selected by configuration
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "", "keyring":
		return NewKeyringStore(), nil
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		path := cfg.Path
		if path == "" {
			p, err := defaultPath("session.json")
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewFileStore(path), nil
	case "sqlite":
		path := cfg.Path
		if path == "" {
			p, err := defaultPath("preferences.sqlite")
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// defaultPath returns a file path under ~/.config/b3uf
func defaultPath(name string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", configDirName, name), nil
}
