package driven

import (
	"context"

	"github.com/custodia-labs/peek-cli/internal/core/domain"
)

// ContentSource retrieves the two content representations of a file.
// Implementations exist for the search backend (HTTP), the local
// filesystem, and in-memory fixtures; the preview service treats them
// uniformly, which keeps the test seam out of the core.
type ContentSource interface {
	// Name identifies the source for logging and display.
	Name() string

	// FetchOriginal retrieves the raw bytes of the file identified by
	// a URL-escaped path or name. The call blocks until the bytes are
	// available, the context is cancelled, or the fetch fails.
	FetchOriginal(ctx context.Context, identifier string) ([]byte, error)

	// FetchIndexed retrieves the search-processed representation of a
	// document. Implementations without an index return
	// domain.ErrNoIndexedContent.
	FetchIndexed(ctx context.Context, documentID string) (*domain.IndexedContent, error)
}

// Watcher observes a file for changes. Optional; only sources backed by
// a live filesystem can provide one.
type Watcher interface {
	// Watch emits on the returned channel each time the identified file
	// changes, until the context is cancelled.
	Watch(ctx context.Context, identifier string) (<-chan struct{}, error)
}
