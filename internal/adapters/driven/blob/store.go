// Package blob provides a temp-file backed implementation of the
// transient resource store. It is the terminal counterpart of a browser
// object URL: bytes are staged on disk for the lifetime of one preview
// session and removed on release.
package blob

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/custodia-labs/peek-cli/internal/core/domain"
	"github.com/custodia-labs/peek-cli/internal/core/ports/driven"
	"github.com/custodia-labs/peek-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.ResourceStore = (*Store)(nil)

// Store stages transient resources in a dedicated directory.
type Store struct {
	mu    sync.Mutex
	dir   string
	paths map[string]string
}

// NewStore creates a resource store rooted at dir. If dir is empty a
// fresh directory under the system temp location is used.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		created, err := os.MkdirTemp("", "peek-preview-")
		if err != nil {
			return nil, fmt.Errorf("creating resource directory: %w", err)
		}
		dir = created
	} else if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating resource directory: %w", err)
	}

	return &Store{
		dir:   dir,
		paths: make(map[string]string),
	}, nil
}

// Create materialises content as a transient resource named after the
// original file. The content type is sniffed from the bytes so binary
// renderers and decode guards never trust the extension alone.
func (s *Store) Create(fileName string, content []byte) (*domain.TransientResource, error) {
	id := uuid.NewString()
	path := filepath.Join(s.dir, id+"-"+filepath.Base(fileName))

	if err := os.WriteFile(path, content, 0o600); err != nil {
		return nil, fmt.Errorf("staging resource: %w", err)
	}

	s.mu.Lock()
	s.paths[id] = path
	s.mu.Unlock()

	logger.Debug("staged resource %s (%d bytes) at %s", id, len(content), path)

	return &domain.TransientResource{
		ID:       id,
		Path:     path,
		FileName: filepath.Base(fileName),
		MIMEType: mimetype.Detect(content).String(),
	}, nil
}

// Release removes the resource with the given ID. Unknown or
// already-released IDs are a no-op.
func (s *Store) Release(id string) error {
	s.mu.Lock()
	path, ok := s.paths[id]
	if ok {
		delete(s.paths, id)
	}
	s.mu.Unlock()

	if !ok {
		return nil
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("releasing resource %s: %w", id, err)
	}
	logger.Debug("released resource %s", id)
	return nil
}

// ReleaseAll removes every resource the store still owns.
func (s *Store) ReleaseAll() error {
	s.mu.Lock()
	ids := make([]string, 0, len(s.paths))
	for id := range s.paths {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	var firstErr error
	for _, id := range ids {
		if err := s.Release(id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Dir returns the staging directory.
func (s *Store) Dir() string {
	return s.dir
}
