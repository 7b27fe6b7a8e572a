// Package file keeps a single content document in a JSON file.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/poiesic/storyline/core"
	"github.com/poiesic/storyline/storage"
)

// Store implements storage.StateStore over one JSON file.
// Saves replace the file atomically, so readers never see a partial document.
type Store struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

var _ storage.StateStore = (*Store)(nil)

// NewStore creates a Store for the file at path. The file need not exist yet.
func NewStore(path string) *Store {
	return &Store{
		path:   path,
		logger: slog.Default().With("component", "file_store"),
	}
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Load reads and decodes the document file.
func (s *Store) Load(ctx context.Context) (*core.ContentDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, &core.PersistenceError{Op: "load", Err: err}
	}

	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &core.PersistenceError{Op: "load", Err: fmt.Errorf("%w: %s", storage.ErrNotFound, s.path)}
		}
		return nil, &core.PersistenceError{Op: "load", Err: err}
	}

	doc, err := storage.UnmarshalDocument(data)
	if err != nil {
		return nil, &core.PersistenceError{Op: "load", Err: err}
	}
	return doc, nil
}

// Save encodes doc and atomically replaces the document file.
func (s *Store) Save(ctx context.Context, doc *core.ContentDocument) error {
	if err := ctx.Err(); err != nil {
		return &core.PersistenceError{Op: "save", Err: err}
	}

	data, err := storage.MarshalDocument(doc)
	if err != nil {
		return &core.PersistenceError{Op: "save", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeAtomic(s.path, data); err != nil {
		return &core.PersistenceError{Op: "save", Err: err}
	}
	s.logger.Debug("saved document", "path", s.path, "bytes", len(data))
	return nil
}

// writeAtomic writes data to a temp file in the target directory, then renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}
