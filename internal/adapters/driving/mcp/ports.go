package mcp

import (
	"github.com/custodia-labs/peek-cli/internal/core/ports/driven"
	"github.com/custodia-labs/peek-cli/internal/core/ports/driving"
)

// Ports aggregates all dependencies required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// NewPreview builds a fresh preview session per tool call, so
	// concurrent calls never share session state.
	NewPreview func() (driving.PreviewService, error)

	// Extractor pulls plain text out of binary originals.
	// Optional: without it, binary documents report no inline text.
	Extractor driven.TextExtractor
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.NewPreview == nil {
		return ErrMissingPreviewFactory
	}
	// Extractor is optional.
	return nil
}
