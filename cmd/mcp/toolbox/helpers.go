// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package toolbox

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/backend"
)

// NewToolResultText creates a new CallToolResult with a text content.
func NewToolResultText(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// NewToolResultDocuments creates a new CallToolResult with one text content
// per document, each holding the JSON encoding of the document.
// The order of the documents is preserved.
func NewToolResultDocuments(docs []backend.Document) (*mcp.CallToolResult, any, error) {
	content := make([]mcp.Content, 0, len(docs))
	for _, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			return NewToolResultErrorFromErr("Failed marshalling document", err)
		}
		content = append(content, &mcp.TextContent{Text: string(data)})
	}
	return &mcp.CallToolResult{
		Content: content,
	}, nil, nil
}

// NewToolResultError creates a new CallToolResult with an error message.
// Any errors that originate from the tool SHOULD be reported inside the result object.
func NewToolResultError(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}

// NewToolResultErrorFromErr creates a new CallToolResult with an error message.
// If an error is provided, its details will be appended to the text message.
// Any errors that originate from the tool SHOULD be reported inside the result object.
func NewToolResultErrorFromErr(text string, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		text = fmt.Sprintf("%s: %v", text, err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
