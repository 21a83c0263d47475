package mcp

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/peek-cli/internal/core/domain"
)

// uriScheme is the custom URI scheme for peek resources.
const uriScheme = "peek://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Template for raw file content.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "files/{identifier}",
		Name:        "file-content",
		Description: "Content of a file resolved through the preview pipeline",
		MIMEType:    "text/plain",
	}, s.handleFileResource)
}

// handleFileResource resolves a file through a preview session and
// returns its content: decoded text for textual files, raw bytes for
// binary ones.
func (s *Server) handleFileResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	identifier, err := url.PathUnescape(strings.TrimPrefix(req.Params.URI, uriScheme+"files/"))
	if err != nil || identifier == "" {
		return nil, fmt.Errorf("invalid resource URI %q", req.Params.URI)
	}

	svc, err := s.ports.NewPreview()
	if err != nil {
		return nil, err
	}
	defer svc.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(ctx, previewTimeout)
	defer cancel()

	request := domain.PreviewRequest{FileName: filepath.Base(identifier)}
	if identifier != request.FileName {
		request.FilePath = identifier
	}
	if err := svc.Open(ctx, request); err != nil {
		return nil, err
	}
	snap, err := svc.Wait(ctx)
	if err != nil {
		return nil, err
	}

	content := &mcp.ResourceContents{URI: req.Params.URI}

	if text := snap.Original.Payload.Text; text != "" {
		content.MIMEType = "text/plain"
		content.Text = text
		return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{content}}, nil
	}

	if snap.Resource == nil {
		return nil, fmt.Errorf("no content available for %q", identifier)
	}
	data, err := os.ReadFile(snap.Resource.Path)
	if err != nil {
		return nil, fmt.Errorf("reading resource: %w", err)
	}
	content.MIMEType = snap.Resource.MIMEType
	content.Blob = data
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{content}}, nil
}
