package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/peek-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/peek-cli/internal/core/domain"
	"github.com/custodia-labs/peek-cli/internal/core/ports/driving"
)

var (
	previewDocumentID string
	previewPath       string
	previewJSON       bool
	previewDownload   string
	previewLocal      bool
)

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Preview a file's content",
	Long: `Fetches a file's original content and its indexed (extracted) content
concurrently, then prints the preview the renderer decision table picks
for its category: decoded text, extracted document text, or file facts
for formats with no inline rendering.

The file argument is the display name; pass --path when the backend
identifier differs from it, and --document-id to also fetch the search
index's extracted view of the document.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&previewDocumentID, "document-id", "", "backend document ID for indexed content")
	previewCmd.Flags().StringVar(&previewPath, "path", "", "backend file identifier when it differs from the display name")
	previewCmd.Flags().BoolVar(&previewJSON, "json", false, "output the preview as JSON")
	previewCmd.Flags().StringVar(&previewDownload, "download", "", "directory to save the file into after previewing")
	previewCmd.Flags().BoolVar(&previewLocal, "local", false, "read from the local filesystem instead of the backend")
	rootCmd.AddCommand(previewCmd)
}

// buildRequest maps the positional argument and flags onto a request.
// The argument doubles as the identifier when no --path is given.
func buildRequest(arg string) domain.PreviewRequest {
	req := domain.PreviewRequest{
		FileName:   filepath.Base(arg),
		FilePath:   previewPath,
		DocumentID: previewDocumentID,
	}
	if req.FilePath == "" && arg != req.FileName {
		req.FilePath = arg
	}
	return req
}

// previewTimeout returns the configured fetch timeout.
func previewTimeout() time.Duration {
	if configStore != nil {
		if secs := configStore.GetInt(file.KeyTimeoutSeconds); secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 30 * time.Second
}

func runPreview(cmd *cobra.Command, args []string) error {
	if previewFactory == nil {
		return errors.New("preview service not configured")
	}

	svc, err := previewFactory(previewLocal)
	if err != nil {
		return fmt.Errorf("creating preview session: %w", err)
	}
	defer svc.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(cmd.Context(), previewTimeout())
	defer cancel()

	if err := svc.Open(ctx, buildRequest(args[0])); err != nil {
		return fmt.Errorf("opening preview: %w", err)
	}

	snap, err := svc.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for preview: %w", err)
	}

	if previewJSON {
		if err := outputPreviewJSON(cmd, snap); err != nil {
			return err
		}
	} else {
		outputPreviewText(cmd, snap)
	}

	if previewDownload != "" {
		path, err := svc.Download(previewDownload)
		if err != nil {
			return fmt.Errorf("downloading: %w", err)
		}
		cmd.Printf("\nSaved to %s\n", path)
	}

	return nil
}

// previewOutput is the JSON shape of a settled preview.
type previewOutput struct {
	FileName string          `json:"file_name"`
	Category string          `json:"category"`
	State    string          `json:"state"`
	Original panelOutput     `json:"original"`
	Indexed  panelOutput     `json:"indexed"`
	Resource *resourceOutput `json:"resource,omitempty"`
}

type panelOutput struct {
	Status   string `json:"status"`
	Renderer string `json:"renderer"`
	Text     string `json:"text,omitempty"`
	Error    string `json:"error,omitempty"`
}

type resourceOutput struct {
	Path     string `json:"path"`
	FileName string `json:"file_name"`
	MIMEType string `json:"mime_type"`
}

func outputPreviewJSON(cmd *cobra.Command, snap driving.Snapshot) error {
	original := domain.SelectRenderer(snap.Category, snap.Original, snap.Resource)
	indexed := domain.SelectIndexedRenderer(snap.Indexed)

	out := previewOutput{
		FileName: snap.Request.FileName,
		Category: snap.Category.String(),
		State:    snap.State.String(),
		Original: panelOutput{
			Status:   snap.Original.Status.String(),
			Renderer: original.Kind.String(),
			Text:     original.Text,
			Error:    original.Message,
		},
		Indexed: panelOutput{
			Status:   snap.Indexed.Status.String(),
			Renderer: indexed.Kind.String(),
			Text:     indexed.Text,
			Error:    indexed.Message,
		},
	}
	if snap.Resource != nil {
		out.Resource = &resourceOutput{
			Path:     snap.Resource.Path,
			FileName: snap.Resource.FileName,
			MIMEType: snap.Resource.MIMEType,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preview: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// terminalWidth returns the stdout width, or a sane default when stdout
// is not a terminal (pipes, CI).
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

func outputPreviewText(cmd *cobra.Command, snap driving.Snapshot) {
	width := terminalWidth()
	if width > 100 {
		width = 100
	}

	cmd.Printf("%s %s (%s)\n", snap.Category.Icon(), snap.Request.FileName, snap.Category)
	cmd.Println(strings.Repeat("─", width))

	outputPanelText(cmd, domain.SelectRenderer(snap.Category, snap.Original, snap.Resource), snap)

	// The indexed panel is only interesting when a document ID was given.
	if snap.Request.DocumentID != "" {
		cmd.Println()
		cmd.Println("Indexed content:")
		cmd.Println(strings.Repeat("─", width))
		outputPanelText(cmd, domain.SelectIndexedRenderer(snap.Indexed), snap)
	}
}

func outputPanelText(cmd *cobra.Command, inst domain.Instruction, snap driving.Snapshot) {
	switch inst.Kind {
	case domain.RenderError:
		cmd.Printf("Error: %s\n", inst.Message)

	case domain.RenderPDF:
		if textExtractor != nil {
			text, err := textExtractor.ExtractText(inst.ResourcePath)
			if err == nil && text != "" {
				cmd.Println(text)
				return
			}
		}
		outputBinaryFacts(cmd, "Document preview is not available inline.", snap)

	case domain.RenderImage:
		outputBinaryFacts(cmd, "Image preview is not available in the terminal.", snap)

	case domain.RenderDownload:
		outputBinaryFacts(cmd, "This file type has no inline preview.", snap)

	case domain.RenderText:
		cmd.Println(inst.Text)

	case domain.RenderEmpty:
		if inst.Derived {
			cmd.Println("(No indexed content available)")
		} else {
			cmd.Println("(No content)")
		}

	case domain.RenderSpinner:
		// Wait settles both fetches, so this should not be reachable.
		cmd.Println("(Still loading)")
	}
}

func outputBinaryFacts(cmd *cobra.Command, reason string, snap driving.Snapshot) {
	cmd.Println(reason)
	if snap.Original.Status == domain.FetchReady {
		cmd.Printf("  Type: %s\n", snap.Original.Payload.MIMEType)
		cmd.Printf("  Size: %d bytes\n", snap.Original.Payload.Size)
	}
	if snap.Resource != nil {
		cmd.Printf("  Use --download DIR to save %s locally.\n", snap.Resource.FileName)
	}
}
