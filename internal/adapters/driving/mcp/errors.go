// Package mcp provides an MCP (Model Context Protocol) server adapter for peek.
// It enables AI assistants like Claude to resolve file previews without
// leaving the conversation.
package mcp

import "errors"

// ErrMissingPreviewFactory is returned when no preview factory is provided.
var ErrMissingPreviewFactory = errors.New("mcp: preview factory is required")
