// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package prompter

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// PromptDocumentationQuery is the name of the documentation_query prompt.
	PromptDocumentationQuery = "documentation_query"
)

// NewDocumentationQueryPrompt creates a prompt for exploring a GitHub project with the documentation tools.
func (m *Manager) NewDocumentationQueryPrompt() SystemPrompt {
	return SystemPrompt{
		Prompt: &mcp.Prompt{
			Name:        PromptDocumentationQuery,
			Description: "Generates a prompt for retrieving documentation from a GitHub project.",
			Arguments: []*mcp.PromptArgument{
				{
					Name:        "github_url",
					Description: "The URL of the GitHub repository.",
					Required:    true,
				},
				{
					Name:        "version",
					Description: "The version or tag to fetch, defaults to the main branch.",
				},
			},
		},
		Handler: m.HandleDocumentationQuery,
	}
}

// HandleDocumentationQuery is the handler function for the documentation_query prompt.
func (m *Manager) HandleDocumentationQuery(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	githubURL := request.Params.Arguments["github_url"]
	if githubURL == "" {
		return nil, fmt.Errorf("missing github_url argument")
	}

	var versionText string
	if version := request.Params.Arguments["version"]; version != "" {
		versionText = fmt.Sprintf(" (version: %s)", version)
	}

	return &mcp.GetPromptResult{
		Description: "Documentation query for a GitHub project",
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: fmt.Sprintf("Use the tools to understand the GitHub project at %s%s.", githubURL, versionText),
				},
			},
		},
	}, nil
}
