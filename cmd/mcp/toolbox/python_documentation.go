// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package toolbox

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/docsearch"
)

const (
	// ToolPythonGetDocumentation is the name of the python_get_documentation tool.
	ToolPythonGetDocumentation = "python_get_documentation"
)

func init() {
	systemTools[ToolPythonGetDocumentation] = systemTool{
		readOnly: true,
	}
}

// pythonGetDocumentationInput defines the input parameters for querying Python library documentation.
type pythonGetDocumentationInput struct {
	Query   string `json:"query" jsonschema:"A natural language question, e.g. How do I define a model?"`
	Library string `json:"library" jsonschema:"The Python library to search documentation for."`
	Version string `json:"version,omitempty" jsonschema:"The library version, e.g. 4.46.1. Defaults to the version installed locally."`
	TopK    int    `json:"top_k,omitempty" jsonschema:"The number of top matching documents to return. Defaults to 10."`
}

// HandlePythonGetDocumentation is the handler function for the python_get_documentation tool.
func (m *Manager) HandlePythonGetDocumentation(ctx context.Context, request *mcp.CallToolRequest, input pythonGetDocumentationInput) (*mcp.CallToolResult, any, error) {
	if input.Query == "" {
		return NewToolResultError("query is required")
	}
	if input.Library == "" {
		return NewToolResultError("library is required")
	}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	docs, err := m.docs.LibraryDocumentation(ctx, docsearch.LibraryRequest{
		Query:   input.Query,
		Library: input.Library,
		Version: input.Version,
		TopK:    input.TopK,
	})
	if err != nil {
		return NewToolResultErrorFromErr("Failed to get documentation", err)
	}

	return NewToolResultDocuments(docs)
}
