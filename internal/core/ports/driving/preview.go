package driving

import (
	"context"

	"github.com/custodia-labs/peek-cli/internal/core/domain"
)

// PreviewService orchestrates one preview at a time: classify the file,
// run both content fetches concurrently, expose the aggregate state for
// rendering, and release transient resources on close.
type PreviewService interface {
	// Open starts a preview for the request, replacing any previous
	// preview wholesale. In-flight fetches from the previous request
	// are invalidated; their results are discarded when they settle.
	Open(ctx context.Context, req domain.PreviewRequest) error

	// Snapshot returns the current aggregate state. Safe to call from
	// any goroutine at any time.
	Snapshot() Snapshot

	// Updates returns a channel that receives a signal whenever the
	// snapshot changes. The channel is never closed and drops signals
	// rather than blocking.
	Updates() <-chan struct{}

	// Wait blocks until both fetches of the current preview settle or
	// the context is cancelled, then returns the final snapshot.
	Wait(ctx context.Context) (Snapshot, error)

	// Download copies the transient resource to destDir under the
	// original file name, without a server round-trip. Returns the
	// written path.
	Download(destDir string) (string, error)

	// OpenExternal opens the transient resource with the OS default
	// handler.
	OpenExternal() error

	// Close tears the session down and synchronously releases every
	// transient resource it acquired. Close is idempotent.
	Close() error
}

// Snapshot is an immutable view of a preview session's state.
type Snapshot struct {
	// Request is the request this snapshot describes.
	Request domain.PreviewRequest

	// Category is the classification of Request.FileName.
	Category domain.ContentCategory

	// State is the session lifecycle state.
	State domain.SessionState

	// Original is the original-content fetch result.
	Original domain.Result[domain.OriginalContent]

	// Indexed is the indexed-content fetch result.
	Indexed domain.Result[domain.IndexedContent]

	// Resource is the byte-backed resource for binary renderers,
	// nil when none exists.
	Resource *domain.TransientResource

	// Generation increases each time Open is called. Renderers use it
	// to discard messages produced for a superseded request.
	Generation uint64
}

// Loading reports whether any fetch is still in flight. The aggregate
// flag drops only after both fetches have individually settled.
func (s Snapshot) Loading() bool {
	if s.State == domain.SessionClosed {
		return false
	}
	return !s.Original.Status.Terminal() || !s.Indexed.Status.Terminal()
}
