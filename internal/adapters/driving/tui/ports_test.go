package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/peek-cli/internal/core/domain"
	"github.com/custodia-labs/peek-cli/internal/core/ports/driving"
)

// MockPreviewService implements driving.PreviewService for testing.
type MockPreviewService struct {
	OpenFunc         func(ctx context.Context, req domain.PreviewRequest) error
	SnapshotFunc     func() driving.Snapshot
	WaitFunc         func(ctx context.Context) (driving.Snapshot, error)
	DownloadFunc     func(destDir string) (string, error)
	OpenExternalFunc func() error
	CloseFunc        func() error

	updates chan struct{}
}

func (m *MockPreviewService) Open(ctx context.Context, req domain.PreviewRequest) error {
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, req)
	}
	return nil
}

func (m *MockPreviewService) Snapshot() driving.Snapshot {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc()
	}
	return driving.Snapshot{}
}

func (m *MockPreviewService) Updates() <-chan struct{} {
	if m.updates == nil {
		m.updates = make(chan struct{}, 1)
	}
	return m.updates
}

func (m *MockPreviewService) Wait(ctx context.Context) (driving.Snapshot, error) {
	if m.WaitFunc != nil {
		return m.WaitFunc(ctx)
	}
	return m.Snapshot(), nil
}

func (m *MockPreviewService) Download(destDir string) (string, error) {
	if m.DownloadFunc != nil {
		return m.DownloadFunc(destDir)
	}
	return "", nil
}

func (m *MockPreviewService) OpenExternal() error {
	if m.OpenExternalFunc != nil {
		return m.OpenExternalFunc()
	}
	return nil
}

func (m *MockPreviewService) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// MockWatcher implements driven.Watcher for testing.
type MockWatcher struct {
	WatchFunc func(ctx context.Context, identifier string) (<-chan struct{}, error)
}

func (m *MockWatcher) Watch(ctx context.Context, identifier string) (<-chan struct{}, error) {
	if m.WatchFunc != nil {
		return m.WatchFunc(ctx, identifier)
	}
	return nil, nil
}

// MockExtractor implements driven.TextExtractor for testing.
type MockExtractor struct {
	ExtractTextFunc func(path string) (string, error)
}

func (m *MockExtractor) ExtractText(path string) (string, error) {
	if m.ExtractTextFunc != nil {
		return m.ExtractTextFunc(path)
	}
	return "", nil
}

func TestPorts_Validate(t *testing.T) {
	ports := NewPorts(&MockPreviewService{}, nil)

	require.NoError(t, ports.Validate())
}

func TestPorts_Validate_MissingPreview(t *testing.T) {
	ports := &Ports{}

	err := ports.Validate()
	assert.ErrorIs(t, err, ErrMissingPreviewService)
}

func TestPorts_Validate_ExtractorOptional(t *testing.T) {
	ports := &Ports{Preview: &MockPreviewService{}}

	assert.NoError(t, ports.Validate())
}
