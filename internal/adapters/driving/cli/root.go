// Package cli implements the command-line driving adapter for peek.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/peek-cli/internal/core/ports/driven"
	"github.com/custodia-labs/peek-cli/internal/core/ports/driving"
	"github.com/custodia-labs/peek-cli/internal/logger"
)

// version is the CLI version, overridden at build time via ldflags.
var version = "dev"

// PreviewFactory builds a preview session for one command invocation.
// When local is true the session reads from the filesystem instead of
// the backend API.
type PreviewFactory func(local bool) (driving.PreviewService, error)

var (
	previewFactory PreviewFactory
	configStore    driven.ConfigStore
	textExtractor  driven.TextExtractor
	watchSource    driven.Watcher

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "peek",
	Short: "Preview files from your search backend in the terminal",
	Long: `peek resolves a file's content from a document-search backend and
renders the best available preview in the terminal: decoded text,
extracted document text, or file facts with download and open actions.

Both the original file content and the backend's indexed (extracted)
content are fetched concurrently and shown side by side.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetPreviewFactory injects the preview session factory.
func SetPreviewFactory(f PreviewFactory) {
	previewFactory = f
}

// SetConfigStore injects the configuration store.
func SetConfigStore(store driven.ConfigStore) {
	configStore = store
}

// SetTextExtractor injects the binary text extractor.
func SetTextExtractor(e driven.TextExtractor) {
	textExtractor = e
}

// SetWatchSource injects the filesystem watcher used to refresh local
// previews when the file changes on disk.
func SetWatchSource(w driven.Watcher) {
	watchSource = w
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
