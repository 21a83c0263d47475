package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/peek-cli/internal/core/domain"
)

// previewTimeout bounds how long a tool call waits for both fetches.
const previewTimeout = 30 * time.Second

// PreviewInput is the input schema for the preview_file tool.
type PreviewInput struct {
	FileName   string `json:"file_name" jsonschema:"display name of the file to preview"`
	Path       string `json:"path,omitempty" jsonschema:"backend file identifier when it differs from the display name"`
	DocumentID string `json:"document_id,omitempty" jsonschema:"backend document ID for indexed content"`
}

// PreviewOutput is the output schema for the preview_file tool.
type PreviewOutput struct {
	FileName string      `json:"file_name"`
	Category string      `json:"category"`
	Renderer string      `json:"renderer"`
	Original PanelOutput `json:"original"`
	Indexed  PanelOutput `json:"indexed"`
	MIMEType string      `json:"mime_type,omitempty"`
	Size     int64       `json:"size,omitempty"`
}

// PanelOutput describes one settled content panel.
type PanelOutput struct {
	Status string `json:"status"`
	Text   string `json:"text,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ClassifyInput is the input schema for the classify_file tool.
type ClassifyInput struct {
	FileName string `json:"file_name" jsonschema:"file name to classify by extension"`
}

// ClassifyOutput is the output schema for the classify_file tool.
type ClassifyOutput struct {
	Category string `json:"category"`
	Textual  bool   `json:"textual"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "preview_file",
		Description: "Fetch a file's original and indexed content and report the preview for it",
	}, s.handlePreview)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classify_file",
		Description: "Classify a file name into a content category by its extension",
	}, s.handleClassify)
}

// handlePreview handles the preview_file tool invocation.
func (s *Server) handlePreview(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PreviewInput,
) (*mcp.CallToolResult, PreviewOutput, error) {
	svc, err := s.ports.NewPreview()
	if err != nil {
		return nil, PreviewOutput{}, err
	}
	defer svc.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(ctx, previewTimeout)
	defer cancel()

	req := domain.PreviewRequest{
		FileName:   input.FileName,
		FilePath:   input.Path,
		DocumentID: input.DocumentID,
	}
	if err := svc.Open(ctx, req); err != nil {
		return nil, PreviewOutput{}, err
	}

	snap, err := svc.Wait(ctx)
	if err != nil {
		return nil, PreviewOutput{}, err
	}

	inst := domain.SelectRenderer(snap.Category, snap.Original, snap.Resource)
	indexed := domain.SelectIndexedRenderer(snap.Indexed)

	output := PreviewOutput{
		FileName: snap.Request.FileName,
		Category: snap.Category.String(),
		Renderer: inst.Kind.String(),
		Original: PanelOutput{
			Status: snap.Original.Status.String(),
			Text:   inst.Text,
			Error:  inst.Message,
		},
		Indexed: PanelOutput{
			Status: snap.Indexed.Status.String(),
			Text:   indexed.Text,
			Error:  indexed.Message,
		},
	}

	if snap.Original.Status == domain.FetchReady {
		output.MIMEType = snap.Original.Payload.MIMEType
		output.Size = snap.Original.Payload.Size
	}

	// Binary documents can still yield text through the extractor.
	if inst.Kind == domain.RenderPDF && s.ports.Extractor != nil {
		if text, err := s.ports.Extractor.ExtractText(inst.ResourcePath); err == nil {
			output.Original.Text = text
		}
	}

	return nil, output, nil
}

// handleClassify handles the classify_file tool invocation.
func (s *Server) handleClassify(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ClassifyInput,
) (*mcp.CallToolResult, ClassifyOutput, error) {
	category := domain.Classify(input.FileName)
	return nil, ClassifyOutput{
		Category: category.String(),
		Textual:  category.Textual(),
	}, nil
}
