// Package mcp provides an MCP (Model Context Protocol) server adapter for libdoc.
// It gives AI assistants read-only access to the documentation model of an
// open content file.
package mcp

import "errors"

// ErrMissingLibraryService is returned when the library service is not provided.
var ErrMissingLibraryService = errors.New("mcp: library service is required")
