package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"unicode/utf8"

	"github.com/custodia-labs/peek-cli/internal/core/domain"
	"github.com/custodia-labs/peek-cli/internal/core/ports/driven"
	"github.com/custodia-labs/peek-cli/internal/core/ports/driving"
	"github.com/custodia-labs/peek-cli/internal/logger"
)

// Ensure PreviewService implements the interface.
var _ driving.PreviewService = (*PreviewService)(nil)

// PreviewService orchestrates one preview session at a time.
//
// Opening a request bumps a generation counter and fires both content
// fetches on their own goroutines. A fetch that settles after a newer
// request has started belongs to a stale generation: its result is
// discarded and any resource it materialised is released immediately,
// so a slow first fetch can never overwrite a fast second fetch.
type PreviewService struct {
	source    driven.ContentSource
	resources driven.ResourceStore

	mu         sync.Mutex
	generation uint64
	state      domain.SessionState
	req        domain.PreviewRequest
	category   domain.ContentCategory
	original   domain.Result[domain.OriginalContent]
	indexed    domain.Result[domain.IndexedContent]
	resource   *domain.TransientResource
	pending    int
	done       chan struct{}
	doneClosed bool
	cancel     context.CancelFunc

	updates chan struct{}
}

// NewPreviewService creates a preview service over the given source and
// resource store. Both are required.
func NewPreviewService(source driven.ContentSource, resources driven.ResourceStore) (*PreviewService, error) {
	if source == nil {
		return nil, fmt.Errorf("creating preview service: %w: content source", domain.ErrInvalidInput)
	}
	if resources == nil {
		return nil, fmt.Errorf("creating preview service: %w: resource store", domain.ErrInvalidInput)
	}
	return &PreviewService{
		source:    source,
		resources: resources,
		state:     domain.SessionClosed,
		updates:   make(chan struct{}, 1),
	}, nil
}

// Open starts a preview for the request, replacing any previous preview
// wholesale. No state from a previously previewed file bleeds through.
func (s *PreviewService) Open(ctx context.Context, req domain.PreviewRequest) error {
	if req.FileName == "" {
		return fmt.Errorf("opening preview: %w: file name required", domain.ErrInvalidInput)
	}

	s.mu.Lock()

	// Invalidate the previous request: cancel its fetches, bump the
	// generation so late results are discarded, and release its resource.
	if s.cancel != nil {
		s.cancel()
	}
	s.closeDoneLocked()
	s.releaseResourceLocked()

	s.generation++
	gen := s.generation
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.req = req
	s.category = domain.Classify(req.FileName)
	s.state = domain.SessionOpening
	s.original = domain.Result[domain.OriginalContent]{Status: domain.FetchLoading}
	s.indexed = domain.Result[domain.IndexedContent]{Status: domain.FetchLoading}
	s.pending = 2
	s.done = make(chan struct{})
	s.doneClosed = false

	category := s.category
	s.mu.Unlock()

	logger.Debug("preview open: file=%s category=%s generation=%d", req.FileName, category, gen)

	go s.fetchOriginal(fetchCtx, gen, req, category)
	go s.fetchIndexed(fetchCtx, gen, req)

	s.notify()
	return nil
}

// fetchOriginal retrieves the raw file bytes, decodes them for textual
// categories, and materialises a byte-backed resource for binary renderers.
func (s *PreviewService) fetchOriginal(ctx context.Context, gen uint64, req domain.PreviewRequest, category domain.ContentCategory) {
	raw, err := s.source.FetchOriginal(ctx, req.Identifier())
	if err != nil {
		logger.Debug("original fetch failed: %v", err)
		s.settleOriginal(gen, domain.Failed[domain.OriginalContent](fmt.Sprintf("failed to load file content: %v", err)), nil)
		return
	}

	// Always retain a byte-backed resource; binary renderers (pdf,
	// image, download) need it even when the text decodes.
	resource, err := s.resources.Create(req.FileName, raw)
	if err != nil {
		s.settleOriginal(gen, domain.Failed[domain.OriginalContent](fmt.Sprintf("failed to stage file content: %v", err)), nil)
		return
	}

	content := domain.OriginalContent{
		MIMEType:   resource.MIMEType,
		ResourceID: resource.ID,
		Size:       int64(len(raw)),
	}

	if category.Textual() {
		if !utf8.Valid(raw) {
			s.settleOriginal(gen, domain.Failed[domain.OriginalContent](domain.ErrDecodeFailure.Error()), resource)
			return
		}
		content.Text = string(raw)
	}

	s.settleOriginal(gen, domain.Ready(content), resource)
}

// fetchIndexed retrieves the search-processed representation. A missing
// document identifier fails immediately without issuing a request.
func (s *PreviewService) fetchIndexed(ctx context.Context, gen uint64, req domain.PreviewRequest) {
	if req.DocumentID == "" {
		s.settleIndexed(gen, domain.Failed[domain.IndexedContent](domain.ErrMissingDocumentID.Error()))
		return
	}

	indexed, err := s.source.FetchIndexed(ctx, req.DocumentID)
	if err != nil {
		logger.Debug("indexed fetch failed: %v", err)
		msg := fmt.Sprintf("failed to load indexed content: %v", err)
		if errors.Is(err, domain.ErrNoIndexedContent) {
			msg = domain.ErrNoIndexedContent.Error()
		}
		s.settleIndexed(gen, domain.Failed[domain.IndexedContent](msg))
		return
	}

	s.settleIndexed(gen, domain.Ready(*indexed))
}

// settleOriginal records the original fetch outcome, unless the result
// belongs to a superseded generation, in which case it is discarded and
// its resource released.
func (s *PreviewService) settleOriginal(gen uint64, res domain.Result[domain.OriginalContent], resource *domain.TransientResource) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		logger.Debug("discarding stale original result: generation=%d", gen)
		if resource != nil {
			_ = s.resources.Release(resource.ID)
		}
		return
	}

	s.original = res
	s.resource = resource
	s.settleLocked()
	s.mu.Unlock()

	s.notify()
}

// settleIndexed records the indexed fetch outcome for the current
// generation; stale results are discarded.
func (s *PreviewService) settleIndexed(gen uint64, res domain.Result[domain.IndexedContent]) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		logger.Debug("discarding stale indexed result: generation=%d", gen)
		return
	}

	s.indexed = res
	s.settleLocked()
	s.mu.Unlock()

	s.notify()
}

// settleLocked decrements the pending fetch count and transitions the
// session to Ready once both fetches are terminal. Caller holds mu.
func (s *PreviewService) settleLocked() {
	s.pending--
	if s.pending == 0 {
		s.state = domain.SessionReady
		s.closeDoneLocked()
	}
}

// Snapshot returns the current aggregate state.
func (s *PreviewService) Snapshot() driving.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return driving.Snapshot{
		Request:    s.req,
		Category:   s.category,
		State:      s.state,
		Original:   s.original,
		Indexed:    s.indexed,
		Resource:   s.resource,
		Generation: s.generation,
	}
}

// Updates returns the change notification channel.
func (s *PreviewService) Updates() <-chan struct{} {
	return s.updates
}

// Wait blocks until both fetches of the current preview settle or the
// context is cancelled.
func (s *PreviewService) Wait(ctx context.Context) (driving.Snapshot, error) {
	s.mu.Lock()
	if s.state == domain.SessionClosed {
		s.mu.Unlock()
		return s.Snapshot(), domain.ErrSessionClosed
	}
	done := s.done
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return s.Snapshot(), ctx.Err()
	case <-done:
		return s.Snapshot(), nil
	}
}

// Download copies the transient resource to destDir under the original
// file name. The bytes were already fetched; no server round-trip occurs.
func (s *PreviewService) Download(destDir string) (string, error) {
	s.mu.Lock()
	resource := s.resource
	s.mu.Unlock()

	if resource == nil {
		return "", domain.ErrNoResource
	}

	data, err := os.ReadFile(resource.Path)
	if err != nil {
		return "", fmt.Errorf("reading staged content: %w", err)
	}

	dest := filepath.Join(destDir, resource.FileName)
	if err := os.WriteFile(dest, data, 0o600); err != nil {
		return "", fmt.Errorf("writing download: %w", err)
	}

	logger.Info("downloaded %s to %s", resource.FileName, dest)
	return dest, nil
}

// OpenExternal opens the transient resource with the OS default handler.
func (s *PreviewService) OpenExternal() error {
	s.mu.Lock()
	resource := s.resource
	s.mu.Unlock()

	if resource == nil {
		return domain.ErrNoResource
	}
	return openPath(resource.Path)
}

// Close tears the session down and synchronously releases every
// transient resource it acquired. Close is idempotent.
func (s *PreviewService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.SessionClosed {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	// Bump the generation so in-flight fetches settle into the void.
	s.generation++
	s.state = domain.SessionClosed
	s.closeDoneLocked()
	s.releaseResourceLocked()

	logger.Debug("preview closed: file=%s", s.req.FileName)
	return nil
}

// releaseResourceLocked releases the session's resource, if any.
// Caller holds mu.
func (s *PreviewService) releaseResourceLocked() {
	if s.resource == nil {
		return
	}
	if err := s.resources.Release(s.resource.ID); err != nil {
		logger.Warn("releasing resource %s: %v", s.resource.ID, err)
	}
	s.resource = nil
}

// closeDoneLocked unblocks waiters exactly once per generation.
// Caller holds mu.
func (s *PreviewService) closeDoneLocked() {
	if s.done != nil && !s.doneClosed {
		close(s.done)
		s.doneClosed = true
	}
}

// notify signals a snapshot change without blocking; a pending signal
// already covers the change.
func (s *PreviewService) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// openPath opens a local path using the system default handler.
func openPath(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
