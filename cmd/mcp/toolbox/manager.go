// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package toolbox

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/backend"
	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/docsearch"
	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/k8s"
)

// systemTool defines the common settings for MCP tools.
// All tools should register the properties on init() functions
// so RegisterTools can register them on the MCP server using
// the properties defined in this struct.
type systemTool struct {
	readOnly bool
}

var (
	systemTools = map[string]systemTool{}
)

// DocumentationService answers enriched documentation queries.
type DocumentationService interface {
	LibraryDocumentation(ctx context.Context, req docsearch.LibraryRequest) ([]backend.Document, error)
	ClusterDocumentation(ctx context.Context, req docsearch.ClusterRequest) ([]backend.Document, error)
}

// Manager provides the MCP tools for documentation
// queries and kube context handling.
type Manager struct {
	docs       DocumentationService
	kubeconfig *k8s.KubeConfig
	timeout    time.Duration
	enabled    []string
}

// NewManager initializes and returns a new Manager instance.
// A zero timeout leaves tool calls bounded only by the caller context.
// A non-empty enabled list restricts the registered tools.
func NewManager(docs DocumentationService, kubeconfig *k8s.KubeConfig,
	timeout time.Duration, enabled []string) *Manager {

	return &Manager{
		docs:       docs,
		kubeconfig: kubeconfig,
		timeout:    timeout,
		enabled:    enabled,
	}
}

// toolRecorder records the tools added to the MCP server.
type toolRecorder struct {
	tools []string
}

// addTool adds a tool to the MCP server and records it.
func addTool[In, Out any](s *mcp.Server, r *toolRecorder, t *mcp.Tool, h mcp.ToolHandlerFor[In, Out]) {
	t.Annotations = &mcp.ToolAnnotations{
		ReadOnlyHint: systemTools[t.Name].readOnly,
	}
	mcp.AddTool(s, t, h)
	r.tools = append(r.tools, t.Name)
}

// RegisterTools registers tools with the given server and returns the list of registered tool names.
func (m *Manager) RegisterTools(server *mcp.Server) []string {
	var recorder toolRecorder
	if m.shouldRegisterTool(ToolPythonGetDocumentation) {
		addTool(server, &recorder,
			&mcp.Tool{
				Name: ToolPythonGetDocumentation,
				Description: "Use this for every Python related query. Primary Python documentation lookup tool. " +
					"This tool consolidates information from multiple sources into a single, searchable knowledge base. " +
					"When the version is not specified, the version of the library installed locally is used. " +
					"Returns the matching documents, each with its path and content.",
			},
			m.HandlePythonGetDocumentation,
		)
	}
	if m.shouldRegisterTool(ToolK8sGetDocumentation) {
		addTool(server, &recorder,
			&mcp.Tool{
				Name: ToolK8sGetDocumentation,
				Description: "Use this tool for every Kubernetes related query. Primary Kubernetes documentation lookup tool. " +
					"The query is enriched with the version, cloud provider and API server of the cluster " +
					"selected by the current kubeconfig context. " +
					"Returns the matching documents, each with its path and content.",
			},
			m.HandleK8sGetDocumentation,
		)
	}
	if m.shouldRegisterTool(ToolGetKubeConfigContexts) {
		addTool(server, &recorder,
			&mcp.Tool{
				Name:        ToolGetKubeConfigContexts,
				Description: "This tool retrieves the Kubernetes clusters name and context found in the kubeconfig.",
			},
			m.HandleGetKubeconfigContexts,
		)
	}
	if m.shouldRegisterTool(ToolSetKubeConfigContext) {
		addTool(server, &recorder,
			&mcp.Tool{
				Name:        ToolSetKubeConfigContext,
				Description: "This tool sets the Kubernetes context used to detect the cluster for documentation queries. The kubeconfig file is not modified.",
			},
			m.HandleSetKubeconfigContext,
		)
	}
	return recorder.tools
}

// shouldRegisterTool checks if the tool is registered in the global map
// and if it should be registered based on the Manager settings.
func (m *Manager) shouldRegisterTool(tool string) bool {
	// Ensure tool has systemTools entry.
	if _, ok := systemTools[tool]; !ok {
		panic(fmt.Sprintf("tool %s not registered in systemTools", tool))
	}

	// Check if should register tool.
	if len(m.enabled) > 0 && !slices.Contains(m.enabled, tool) {
		return false
	}
	return true
}

// withTimeout bounds the tool call with the Manager timeout, if any.
func (m *Manager) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.timeout)
}
