// Package extract implements the TextExtractor port for binary formats.
// Terminal renderers cannot embed a native PDF viewer, so the "embedded
// viewer" instruction is realised by extracting the document's text.
package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/peek-cli/internal/core/domain"
	"github.com/custodia-labs/peek-cli/internal/core/ports/driven"
)

// Ensure PDFExtractor implements the interface.
var _ driven.TextExtractor = (*PDFExtractor)(nil)

// PDFExtractor pulls plain text out of PDF files.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF text extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText returns the text content of the PDF at path.
// An empty string with nil error means the document carried no
// extractable text (e.g. scanned pages).
func (e *PDFExtractor) ExtractText(path string) (string, error) {
	if !supported(path) {
		return "", fmt.Errorf("%q: %w: not a pdf", path, domain.ErrInvalidInput)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var builder strings.Builder
	total := reader.NumPage()
	for page := 1; page <= total; page++ {
		p := reader.Page(page)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the preview.
			continue
		}
		builder.WriteString(content)
		builder.WriteString("\n")
	}

	return strings.TrimSpace(builder.String()), nil
}

// supported reports whether the file at path looks like a PDF by
// checking the magic header, not the extension.
func supported(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close() //nolint:errcheck

	header := make([]byte, 5)
	if _, err := f.Read(header); err != nil {
		return false
	}
	return string(header) == "%PDF-"
}
