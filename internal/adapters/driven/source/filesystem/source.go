// Package filesystem implements the ContentSource port over the local
// filesystem, so files can be previewed without a backend. Local files
// have no search index, so indexed-content fetches are unavailable.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/peek-cli/internal/core/domain"
	"github.com/custodia-labs/peek-cli/internal/core/ports/driven"
	"github.com/custodia-labs/peek-cli/internal/logger"
)

// Ensure Source implements the interfaces.
var (
	_ driven.ContentSource = (*Source)(nil)
	_ driven.Watcher       = (*Source)(nil)
)

// Source reads files relative to a root directory. An empty root means
// identifiers are absolute or relative to the working directory.
type Source struct {
	root string
}

// NewSource creates a filesystem source rooted at root.
func NewSource(root string) *Source {
	return &Source{root: root}
}

// Name identifies the source for logging and display.
func (s *Source) Name() string {
	return "filesystem"
}

// resolve maps an identifier onto the filesystem, stripping file:// and
// confining relative identifiers to the root.
func (s *Source) resolve(identifier string) string {
	identifier = strings.TrimPrefix(identifier, "file://")
	if s.root == "" || filepath.IsAbs(identifier) {
		return identifier
	}
	return filepath.Join(s.root, identifier)
}

// FetchOriginal reads the file's bytes from disk.
func (s *Source) FetchOriginal(_ context.Context, identifier string) ([]byte, error) {
	path := s.resolve(identifier)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file %q: %w", identifier, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading %q: %w", identifier, err)
	}
	return content, nil
}

// FetchIndexed always fails: the local filesystem has no search index.
func (s *Source) FetchIndexed(_ context.Context, _ string) (*domain.IndexedContent, error) {
	return nil, domain.ErrNoIndexedContent
}

// Watch emits on the returned channel each time the identified file is
// written or recreated, until the context is cancelled.
func (s *Source) Watch(ctx context.Context, identifier string) (<-chan struct{}, error) {
	path := s.resolve(identifier)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	// Watch the directory: editors replace files on save, which drops
	// a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watching %q: %w", path, err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer watcher.Close() //nolint:errcheck
		defer close(changes)

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error for %q: %v", path, err)
			}
		}
	}()

	return changes, nil
}
