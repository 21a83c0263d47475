// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/peek-cli/internal/core/ports/driving"
)

// PreviewOpened signals that the session accepted (or rejected) an open
// request.
type PreviewOpened struct {
	Err error
}

// SnapshotUpdated carries the latest preview session snapshot.
type SnapshotUpdated struct {
	Snapshot driving.Snapshot
}

// TextExtracted carries text pulled out of a binary original.
// Generation ties the extraction to the request it was started for, so
// results for a superseded preview can be discarded.
type TextExtracted struct {
	Generation uint64
	Text       string
	Err        error
}

// DownloadCompleted signals a download finished.
type DownloadCompleted struct {
	Path string
	Err  error
}

// OpenedExternally signals the file was handed to the system opener.
type OpenedExternally struct {
	Err error
}

// WatchStarted carries the change channel of a filesystem watch, or
// the error that prevented one from starting.
type WatchStarted struct {
	Changes <-chan struct{}
	Err     error
}

// FileChanged signals the previewed file changed on disk.
type FileChanged struct{}

// PanelType identifies which preview panel is active.
type PanelType int

const (
	// PanelOriginal shows the file's original content.
	PanelOriginal PanelType = iota
	// PanelIndexed shows the search index's extracted view of the file.
	PanelIndexed
)

// String returns the string representation of the panel type.
func (p PanelType) String() string {
	switch p {
	case PanelOriginal:
		return "original"
	case PanelIndexed:
		return "indexed"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
