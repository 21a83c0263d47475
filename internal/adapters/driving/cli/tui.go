package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/peek-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/peek-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/peek-cli/internal/core/domain"
)

var (
	tuiDocumentID  string
	tuiPath        string
	tuiLocal       bool
	tuiDownloadDir string
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [file]",
	Short: "Preview a file in the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for a file preview.

The TUI shows the original and indexed content in switchable panels,
with a spinner while fetches are in flight and download/open actions
for binary formats.

Controls:
  ↑/k, ↓/j - Scroll
  Tab      - Switch between original and indexed panels
  d        - Download the file
  o        - Open with the system default application
  q        - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiDocumentID, "document-id", "", "backend document ID for indexed content")
	tuiCmd.Flags().StringVar(&tuiPath, "path", "", "backend file identifier when it differs from the display name")
	tuiCmd.Flags().BoolVar(&tuiLocal, "local", false, "read from the local filesystem instead of the backend")
	tuiCmd.Flags().StringVar(&tuiDownloadDir, "download-dir", "", "directory the download action writes to (default: current directory)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if previewFactory == nil {
		return errors.New("preview service not configured")
	}

	svc, err := previewFactory(tuiLocal)
	if err != nil {
		return fmt.Errorf("creating preview session: %w", err)
	}

	req := buildTUIRequest(args[0])

	ports := &tui.Ports{Preview: svc, Extractor: textExtractor}
	// Backend files have no filesystem to watch; only local previews
	// refresh on change.
	if tuiLocal {
		ports.Watcher = watchSource
	}

	app, err := tui.NewApp(ports, req)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context())
	app.WithDownloadDir(downloadDir())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// buildTUIRequest maps the positional argument and flags onto a request.
func buildTUIRequest(arg string) (req domain.PreviewRequest) {
	req.FileName = filepath.Base(arg)
	req.FilePath = tuiPath
	req.DocumentID = tuiDocumentID
	if req.FilePath == "" && arg != req.FileName {
		req.FilePath = arg
	}
	return req
}

// downloadDir resolves the download directory from the flag, then
// config, then the working directory.
func downloadDir() string {
	if tuiDownloadDir != "" {
		return tuiDownloadDir
	}
	if configStore != nil {
		if dir := configStore.GetString(file.KeyDownloadDir); dir != "" {
			return dir
		}
	}
	return "."
}
