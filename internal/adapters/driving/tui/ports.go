// Package tui provides an interactive terminal preview for peek.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/peek-cli/internal/core/ports/driven"
	"github.com/custodia-labs/peek-cli/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Preview drives the preview session.
	Preview driving.PreviewService

	// Extractor pulls plain text out of binary originals so the
	// document-viewer instruction can be realised in a terminal.
	// Optional: without it, binary documents show a download hint.
	Extractor driven.TextExtractor

	// Watcher observes the previewed file for on-disk changes so the
	// preview can refresh itself. Optional: only sources backed by a
	// live filesystem can provide one.
	Watcher driven.Watcher
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(preview driving.PreviewService, extractor driven.TextExtractor) *Ports {
	return &Ports{
		Preview:   preview,
		Extractor: extractor,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Preview == nil {
		return ErrMissingPreviewService
	}
	// Extractor is optional.
	return nil
}
