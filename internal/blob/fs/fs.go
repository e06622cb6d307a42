// Package fs implements filesystem-backed blob storage.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/uuid/v5"
)

// Store writes payloads as flat files under a base directory. File names are
// UUIDv4, so concurrent writers never collide and paths are never reused.
type Store struct {
	root string
}

// New creates the base directory if needed and returns the store.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Store{root: root}, nil
}

// Write persists data under a fresh name and returns the absolute path.
func (s *Store) Write(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.root, name.String())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	return path, nil
}

// Ping reports whether the base directory is still accessible.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := os.Stat(s.root)
	return err
}
