package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/peek-cli/internal/core/domain"
)

func TestSource_FetchOriginal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o600))

	src := NewSource(dir)

	content, err := src.FetchOriginal(context.Background(), "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestSource_FetchOriginal_AbsolutePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("abs"), 0o600))

	src := NewSource("")

	content, err := src.FetchOriginal(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "abs", string(content))
}

func TestSource_FetchOriginal_FileURI(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("uri"), 0o600))

	src := NewSource("")

	content, err := src.FetchOriginal(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, "uri", string(content))
}

func TestSource_FetchOriginal_NotFound(t *testing.T) {
	src := NewSource(t.TempDir())

	_, err := src.FetchOriginal(context.Background(), "missing.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSource_FetchIndexed_Unavailable(t *testing.T) {
	src := NewSource(t.TempDir())

	_, err := src.FetchIndexed(context.Background(), "doc-1")
	assert.ErrorIs(t, err, domain.ErrNoIndexedContent)
}

func TestSource_Watch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))

	src := NewSource(dir)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := src.Watch(ctx, "notes.txt")
	require.NoError(t, err)

	// Give the watcher a moment to register before writing.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o600))

	select {
	case _, ok := <-changes:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestSource_Watch_StopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))

	src := NewSource(dir)
	ctx, cancel := context.WithCancel(context.Background())

	changes, err := src.Watch(ctx, "notes.txt")
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-changes:
		assert.False(t, ok, "channel should close after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("expected channel to close")
	}
}
