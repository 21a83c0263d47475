// Package fixture provides an in-memory ContentSource for tests and
// demos. It is the pluggable stand-in for the real HTTP source, selected
// at construction so no mock paths leak into the core.
package fixture

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/peek-cli/internal/core/domain"
	"github.com/custodia-labs/peek-cli/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.ContentSource = (*Source)(nil)

// Source serves previously registered fixtures.
type Source struct {
	mu      sync.RWMutex
	files   map[string][]byte
	indexed map[string]domain.IndexedContent
}

// NewSource creates an empty fixture source.
func NewSource() *Source {
	return &Source{
		files:   make(map[string][]byte),
		indexed: make(map[string]domain.IndexedContent),
	}
}

// AddFile registers original file content under an identifier.
func (s *Source) AddFile(identifier string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[identifier] = content
}

// AddIndexed registers indexed content under a document ID.
func (s *Source) AddIndexed(documentID string, indexed domain.IndexedContent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexed[documentID] = indexed
}

// Name identifies the source for logging and display.
func (s *Source) Name() string {
	return "fixture"
}

// FetchOriginal returns the registered bytes for an identifier.
func (s *Source) FetchOriginal(_ context.Context, identifier string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.files[identifier]
	if !ok {
		return nil, fmt.Errorf("fixture %q: %w", identifier, domain.ErrNotFound)
	}
	out := make([]byte, len(content))
	copy(out, content)
	return out, nil
}

// FetchIndexed returns the registered indexed content for a document ID.
func (s *Source) FetchIndexed(_ context.Context, documentID string) (*domain.IndexedContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	indexed, ok := s.indexed[documentID]
	if !ok {
		return nil, fmt.Errorf("fixture document %q: %w", documentID, domain.ErrNotFound)
	}
	return &indexed, nil
}
