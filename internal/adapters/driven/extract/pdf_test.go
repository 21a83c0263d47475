package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/peek-cli/internal/core/domain"
)

func TestPDFExtractor_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-a-pdf.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text, no pdf structure"), 0o600))

	extractor := NewPDFExtractor()

	_, err := extractor.ExtractText(path)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPDFExtractor_MissingFile(t *testing.T) {
	extractor := NewPDFExtractor()

	_, err := extractor.ExtractText(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestSupported(t *testing.T) {
	dir := t.TempDir()

	pdfPath := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.7 body"), 0o600))
	assert.True(t, supported(pdfPath))

	txtPath := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("hello"), 0o600))
	assert.False(t, supported(txtPath))

	assert.False(t, supported(filepath.Join(dir, "missing")))
}
