// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package toolbox

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/docsearch"
)

const (
	// ToolK8sGetDocumentation is the name of the k8s_get_documentation tool.
	ToolK8sGetDocumentation = "k8s_get_documentation"
)

func init() {
	systemTools[ToolK8sGetDocumentation] = systemTool{
		readOnly: true,
	}
}

// k8sGetDocumentationInput defines the input parameters for querying Kubernetes documentation.
type k8sGetDocumentationInput struct {
	Query   string `json:"query" jsonschema:"A natural language question, e.g. How do I define a Deployment?"`
	Version string `json:"version,omitempty" jsonschema:"The Kubernetes version, e.g. v1.28."`
	TopK    int    `json:"top_k,omitempty" jsonschema:"The number of top matching documents to return. Defaults to 10."`
}

// HandleK8sGetDocumentation is the handler function for the k8s_get_documentation tool.
func (m *Manager) HandleK8sGetDocumentation(ctx context.Context, request *mcp.CallToolRequest, input k8sGetDocumentationInput) (*mcp.CallToolResult, any, error) {
	if input.Query == "" {
		return NewToolResultError("query is required")
	}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	docs, err := m.docs.ClusterDocumentation(ctx, docsearch.ClusterRequest{
		Query:   input.Query,
		Version: input.Version,
		TopK:    input.TopK,
	})
	if err != nil {
		return NewToolResultErrorFromErr("Failed to get documentation", err)
	}

	return NewToolResultDocuments(docs)
}
