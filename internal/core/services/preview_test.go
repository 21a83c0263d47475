package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/peek-cli/internal/core/domain"
)

// MockContentSource implements driven.ContentSource for testing.
type MockContentSource struct {
	FetchOriginalFunc func(ctx context.Context, identifier string) ([]byte, error)
	FetchIndexedFunc  func(ctx context.Context, documentID string) (*domain.IndexedContent, error)

	mu           sync.Mutex
	indexedCalls int
}

func (m *MockContentSource) Name() string { return "mock" }

func (m *MockContentSource) FetchOriginal(ctx context.Context, identifier string) ([]byte, error) {
	if m.FetchOriginalFunc != nil {
		return m.FetchOriginalFunc(ctx, identifier)
	}
	return nil, domain.ErrNotFound
}

func (m *MockContentSource) FetchIndexed(ctx context.Context, documentID string) (*domain.IndexedContent, error) {
	m.mu.Lock()
	m.indexedCalls++
	m.mu.Unlock()
	if m.FetchIndexedFunc != nil {
		return m.FetchIndexedFunc(ctx, documentID)
	}
	return nil, domain.ErrNotFound
}

func (m *MockContentSource) IndexedCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexedCalls
}

// MockResourceStore implements driven.ResourceStore for testing.
// It tracks release counts to verify idempotent teardown.
type MockResourceStore struct {
	mu       sync.Mutex
	dir      string
	next     int
	releases map[string]int
}

func NewMockResourceStore(t *testing.T) *MockResourceStore {
	return &MockResourceStore{dir: t.TempDir(), releases: make(map[string]int)}
}

func (m *MockResourceStore) Create(fileName string, content []byte) (*domain.TransientResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	id := fmt.Sprintf("res-%d", m.next)
	path := filepath.Join(m.dir, id+"-"+fileName)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return nil, err
	}
	return &domain.TransientResource{ID: id, Path: path, FileName: fileName}, nil
}

func (m *MockResourceStore) Release(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releases[id]++
	return nil
}

func (m *MockResourceStore) ReleaseAll() error { return nil }

func (m *MockResourceStore) Releases(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.releases[id]
}

// waitReady polls until both fetches settle.
func waitReady(t *testing.T, svc *PreviewService) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := svc.Wait(ctx)
	require.NoError(t, err)
}

func TestNewPreviewService_RequiresDependencies(t *testing.T) {
	store := NewMockResourceStore(t)

	_, err := NewPreviewService(nil, store)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewPreviewService(&MockContentSource{}, nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPreviewService_Open_RequiresFileName(t *testing.T) {
	svc, err := NewPreviewService(&MockContentSource{}, NewMockResourceStore(t))
	require.NoError(t, err)

	err = svc.Open(context.Background(), domain.PreviewRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPreviewService_TextPreview(t *testing.T) {
	source := &MockContentSource{
		FetchOriginalFunc: func(_ context.Context, identifier string) ([]byte, error) {
			assert.Equal(t, "notes.txt", identifier)
			return []byte("hello"), nil
		},
	}
	svc, err := NewPreviewService(source, NewMockResourceStore(t))
	require.NoError(t, err)

	// No document id: the indexed fetch must fail immediately with the
	// "no identifier" condition and never touch the source.
	require.NoError(t, svc.Open(context.Background(), domain.PreviewRequest{FileName: "notes.txt"}))
	waitReady(t, svc)

	snap := svc.Snapshot()
	assert.Equal(t, domain.SessionReady, snap.State)
	assert.Equal(t, domain.CategoryText, snap.Category)
	assert.Equal(t, domain.FetchReady, snap.Original.Status)
	assert.Equal(t, "hello", snap.Original.Payload.Text)
	assert.Equal(t, domain.FetchFailed, snap.Indexed.Status)
	assert.Equal(t, domain.ErrMissingDocumentID.Error(), snap.Indexed.Message)
	assert.Equal(t, 0, source.IndexedCalls())
	assert.False(t, snap.Loading())
}

func TestPreviewService_PDFSelectsEmbeddedViewer(t *testing.T) {
	source := &MockContentSource{
		FetchOriginalFunc: func(_ context.Context, _ string) ([]byte, error) {
			return []byte("%PDF-1.7 fake"), nil
		},
	}
	svc, err := NewPreviewService(source, NewMockResourceStore(t))
	require.NoError(t, err)

	require.NoError(t, svc.Open(context.Background(), domain.PreviewRequest{FileName: "report.pdf"}))
	waitReady(t, svc)

	snap := svc.Snapshot()
	require.NotNil(t, snap.Resource)

	inst := domain.SelectRenderer(snap.Category, snap.Original, snap.Resource)
	assert.Equal(t, domain.RenderPDF, inst.Kind)
	assert.Equal(t, snap.Resource.Path, inst.ResourcePath)
}

func TestPreviewService_IndexedContent(t *testing.T) {
	source := &MockContentSource{
		FetchOriginalFunc: func(_ context.Context, _ string) ([]byte, error) {
			return []byte("body"), nil
		},
		FetchIndexedFunc: func(_ context.Context, documentID string) (*domain.IndexedContent, error) {
			assert.Equal(t, "doc-1", documentID)
			return &domain.IndexedContent{
				Content:            "processed body",
				SemanticIdentifier: "notes.txt",
				SourceType:         "web",
				ChunkCount:         3,
			}, nil
		},
	}
	svc, err := NewPreviewService(source, NewMockResourceStore(t))
	require.NoError(t, err)

	req := domain.PreviewRequest{FileName: "notes.txt", DocumentID: "doc-1"}
	require.NoError(t, svc.Open(context.Background(), req))
	waitReady(t, svc)

	snap := svc.Snapshot()
	assert.Equal(t, domain.FetchReady, snap.Indexed.Status)
	assert.Equal(t, "processed body", snap.Indexed.Payload.Content)
	assert.Equal(t, 3, snap.Indexed.Payload.ChunkCount)
	assert.Equal(t, 1, source.IndexedCalls())
}

func TestPreviewService_FailuresAreIndependent(t *testing.T) {
	source := &MockContentSource{
		FetchOriginalFunc: func(_ context.Context, _ string) ([]byte, error) {
			return []byte("still fine"), nil
		},
		FetchIndexedFunc: func(_ context.Context, _ string) (*domain.IndexedContent, error) {
			return nil, errors.New("boom")
		},
	}
	svc, err := NewPreviewService(source, NewMockResourceStore(t))
	require.NoError(t, err)

	req := domain.PreviewRequest{FileName: "notes.txt", DocumentID: "doc-1"}
	require.NoError(t, svc.Open(context.Background(), req))
	waitReady(t, svc)

	snap := svc.Snapshot()
	assert.Equal(t, domain.FetchReady, snap.Original.Status)
	assert.Equal(t, domain.FetchFailed, snap.Indexed.Status)
	assert.NotEmpty(t, snap.Indexed.Message)
	assert.Equal(t, domain.SessionReady, snap.State)
}

func TestPreviewService_NonSuccessStatusSurfacesFailure(t *testing.T) {
	source := &MockContentSource{
		FetchOriginalFunc: func(_ context.Context, _ string) ([]byte, error) {
			return nil, errors.New("file endpoint returned status 500")
		},
	}
	svc, err := NewPreviewService(source, NewMockResourceStore(t))
	require.NoError(t, err)

	require.NoError(t, svc.Open(context.Background(), domain.PreviewRequest{FileName: "notes.txt"}))
	waitReady(t, svc)

	snap := svc.Snapshot()
	assert.Equal(t, domain.FetchFailed, snap.Original.Status)
	assert.NotEmpty(t, snap.Original.Message)
	// The session state machine survives the failure.
	assert.Equal(t, domain.SessionReady, snap.State)
}

func TestPreviewService_DecodeFailure(t *testing.T) {
	source := &MockContentSource{
		FetchOriginalFunc: func(_ context.Context, _ string) ([]byte, error) {
			return []byte{0xff, 0xfe, 0x00, 0x01}, nil
		},
	}
	svc, err := NewPreviewService(source, NewMockResourceStore(t))
	require.NoError(t, err)

	require.NoError(t, svc.Open(context.Background(), domain.PreviewRequest{FileName: "notes.txt"}))
	waitReady(t, svc)

	snap := svc.Snapshot()
	assert.Equal(t, domain.FetchFailed, snap.Original.Status)
	assert.Equal(t, domain.ErrDecodeFailure.Error(), snap.Original.Message)
}

func TestPreviewService_StaleResultDiscarded(t *testing.T) {
	slowRelease := make(chan struct{})
	source := &MockContentSource{
		FetchOriginalFunc: func(_ context.Context, identifier string) ([]byte, error) {
			if identifier == "old.txt" {
				<-slowRelease
				return []byte("old content"), nil
			}
			return []byte("new content"), nil
		},
	}
	store := NewMockResourceStore(t)
	svc, err := NewPreviewService(source, store)
	require.NoError(t, err)

	// Open the slow file, then reopen with a different file while the
	// first fetch is still pending.
	require.NoError(t, svc.Open(context.Background(), domain.PreviewRequest{FileName: "old.txt"}))
	require.NoError(t, svc.Open(context.Background(), domain.PreviewRequest{FileName: "new.txt"}))
	waitReady(t, svc)

	// Let the stale fetch resolve after the new one has settled.
	close(slowRelease)
	time.Sleep(100 * time.Millisecond)

	snap := svc.Snapshot()
	assert.Equal(t, "new content", snap.Original.Payload.Text)
	assert.Equal(t, "new.txt", snap.Request.FileName)
}

func TestPreviewService_StaleResourceReleased(t *testing.T) {
	gate := make(chan struct{})
	source := &MockContentSource{
		FetchOriginalFunc: func(_ context.Context, identifier string) ([]byte, error) {
			if identifier == "old.png" {
				<-gate
			}
			return []byte{0x89, 0x50, 0x4e, 0x47}, nil
		},
	}
	store := NewMockResourceStore(t)
	svc, err := NewPreviewService(source, store)
	require.NoError(t, err)

	require.NoError(t, svc.Open(context.Background(), domain.PreviewRequest{FileName: "old.png"}))
	require.NoError(t, svc.Open(context.Background(), domain.PreviewRequest{FileName: "new.png"}))
	waitReady(t, svc)

	close(gate)
	time.Sleep(100 * time.Millisecond)

	// The stale fetch materialised a resource after being superseded;
	// it must have been released, and the live one must not.
	snap := svc.Snapshot()
	require.NotNil(t, snap.Resource)
	assert.Equal(t, 0, store.Releases(snap.Resource.ID))

	released := 0
	for i := 1; i <= 2; i++ {
		released += store.Releases(fmt.Sprintf("res-%d", i))
	}
	assert.Equal(t, 1, released)
}

func TestPreviewService_CloseReleasesResourceOnce(t *testing.T) {
	source := &MockContentSource{
		FetchOriginalFunc: func(_ context.Context, _ string) ([]byte, error) {
			return []byte{0x89, 0x50, 0x4e, 0x47}, nil
		},
	}
	store := NewMockResourceStore(t)
	svc, err := NewPreviewService(source, store)
	require.NoError(t, err)

	require.NoError(t, svc.Open(context.Background(), domain.PreviewRequest{FileName: "photo.png"}))
	waitReady(t, svc)

	snap := svc.Snapshot()
	require.NotNil(t, snap.Resource)
	id := snap.Resource.ID

	// Idempotent close: the resource is revoked exactly once.
	require.NoError(t, svc.Close())
	require.NoError(t, svc.Close())

	assert.Equal(t, 1, store.Releases(id))
	assert.Equal(t, domain.SessionClosed, svc.Snapshot().State)
}

func TestPreviewService_ReopenReleasesPreviousResource(t *testing.T) {
	source := &MockContentSource{
		FetchOriginalFunc: func(_ context.Context, _ string) ([]byte, error) {
			return []byte{0x01}, nil
		},
	}
	store := NewMockResourceStore(t)
	svc, err := NewPreviewService(source, store)
	require.NoError(t, err)

	require.NoError(t, svc.Open(context.Background(), domain.PreviewRequest{FileName: "a.png"}))
	waitReady(t, svc)
	first := svc.Snapshot().Resource
	require.NotNil(t, first)

	require.NoError(t, svc.Open(context.Background(), domain.PreviewRequest{FileName: "b.png"}))
	waitReady(t, svc)

	assert.Equal(t, 1, store.Releases(first.ID))
}

func TestPreviewService_Download(t *testing.T) {
	source := &MockContentSource{
		FetchOriginalFunc: func(_ context.Context, _ string) ([]byte, error) {
			return []byte("payload"), nil
		},
	}
	svc, err := NewPreviewService(source, NewMockResourceStore(t))
	require.NoError(t, err)

	require.NoError(t, svc.Open(context.Background(), domain.PreviewRequest{FileName: "notes.txt"}))
	waitReady(t, svc)

	destDir := t.TempDir()
	dest, err := svc.Download(destDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "notes.txt"), dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestPreviewService_DownloadWithoutResource(t *testing.T) {
	svc, err := NewPreviewService(&MockContentSource{}, NewMockResourceStore(t))
	require.NoError(t, err)

	_, err = svc.Download(t.TempDir())
	assert.ErrorIs(t, err, domain.ErrNoResource)
}

func TestPreviewService_WaitOnClosedSession(t *testing.T) {
	svc, err := NewPreviewService(&MockContentSource{}, NewMockResourceStore(t))
	require.NoError(t, err)

	_, err = svc.Wait(context.Background())
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestPreviewService_UpdatesSignal(t *testing.T) {
	source := &MockContentSource{
		FetchOriginalFunc: func(_ context.Context, _ string) ([]byte, error) {
			return []byte("x"), nil
		},
	}
	svc, err := NewPreviewService(source, NewMockResourceStore(t))
	require.NoError(t, err)

	require.NoError(t, svc.Open(context.Background(), domain.PreviewRequest{FileName: "a.txt"}))

	select {
	case <-svc.Updates():
	case <-time.After(time.Second):
		t.Fatal("expected an update signal")
	}
}
