// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package toolbox

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/gomega"

	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/backend"
	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/docsearch"
)

func TestManager_HandlePythonGetDocumentation(t *testing.T) {
	request := &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name: ToolPythonGetDocumentation,
		},
	}

	tests := []struct {
		testName      string
		arguments     map[string]any
		docs          []backend.Document
		err           error
		matchErr      string
		expectRequest *docsearch.LibraryRequest
		expectContent []string
	}{
		{
			testName:  "fails without query",
			arguments: map[string]any{"library": "requests"},
			matchErr:  "query is required",
		},
		{
			testName:  "fails without library",
			arguments: map[string]any{"query": "how to retry"},
			matchErr:  "library is required",
		},
		{
			testName:  "returns one content per document in order",
			arguments: map[string]any{"query": "how to retry", "library": "requests", "version": "2.32.3", "top_k": 2},
			docs: []backend.Document{
				{Path: "api/adapters.md", Content: "Retry"},
				{Path: "user/advanced.md", Content: "Transport adapters"},
			},
			expectRequest: &docsearch.LibraryRequest{Query: "how to retry", Library: "requests", Version: "2.32.3", TopK: 2},
			expectContent: []string{
				`{"path":"api/adapters.md","content":"Retry"}`,
				`{"path":"user/advanced.md","content":"Transport adapters"}`,
			},
		},
		{
			testName:      "surfaces the backend error body",
			arguments:     map[string]any{"query": "q", "library": "numpy"},
			err:           &backend.Error{StatusCode: 500, Body: "index build failed"},
			matchErr:      "API server error: index build failed",
			expectRequest: &docsearch.LibraryRequest{Query: "q", Library: "numpy"},
		},
	}

	for _, test := range tests {
		t.Run(test.testName, func(t *testing.T) {
			g := NewWithT(t)

			docs := &fakeDocs{docs: test.docs, err: test.err}
			m := NewManager(docs, nil, time.Minute, nil)

			argsJSON, _ := json.Marshal(test.arguments)
			request.Params.Arguments = argsJSON

			var input pythonGetDocumentationInput
			err := json.Unmarshal(request.Params.Arguments, &input)
			g.Expect(err).ToNot(HaveOccurred())

			result, _, err := m.HandlePythonGetDocumentation(context.Background(), request, input)
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(result).ToNot(BeNil())

			if test.expectRequest != nil {
				g.Expect(docs.library).To(Equal([]docsearch.LibraryRequest{*test.expectRequest}))
				g.Expect(docs.deadline).To(BeTrue())
			} else {
				g.Expect(docs.library).To(BeEmpty())
			}

			if test.matchErr != "" {
				g.Expect(result.IsError).To(BeTrue())
				g.Expect(result.Content[0].(*mcp.TextContent).Text).To(ContainSubstring(test.matchErr))
				return
			}

			g.Expect(result.IsError).To(BeFalse())
			g.Expect(result.Content).To(HaveLen(len(test.expectContent)))
			for i, expected := range test.expectContent {
				g.Expect(result.Content[i].(*mcp.TextContent).Text).To(MatchJSON(expected))
			}
		})
	}
}

func TestManager_HandleK8sGetDocumentation(t *testing.T) {
	request := &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name: ToolK8sGetDocumentation,
		},
	}

	tests := []struct {
		testName      string
		arguments     map[string]any
		docs          []backend.Document
		err           error
		matchErr      string
		expectRequest *docsearch.ClusterRequest
		expectCount   int
	}{
		{
			testName:  "fails without query",
			arguments: map[string]any{"version": "v1.28"},
			matchErr:  "query is required",
		},
		{
			testName:      "forwards optional arguments",
			arguments:     map[string]any{"query": "what is a StatefulSet", "version": "v1.28", "top_k": 3},
			docs:          []backend.Document{{Path: "concepts/statefulset.md", Content: "StatefulSet"}},
			expectRequest: &docsearch.ClusterRequest{Query: "what is a StatefulSet", Version: "v1.28", TopK: 3},
			expectCount:   1,
		},
		{
			testName:      "empty results",
			arguments:     map[string]any{"query": "what is a StatefulSet"},
			docs:          []backend.Document{},
			expectRequest: &docsearch.ClusterRequest{Query: "what is a StatefulSet"},
			expectCount:   0,
		},
		{
			testName:      "surfaces invalid requests",
			arguments:     map[string]any{"query": "q", "top_k": -5},
			err:           fmt.Errorf("%w: top_k must be positive, got -5", docsearch.ErrInvalidRequest),
			matchErr:      "top_k must be positive",
			expectRequest: &docsearch.ClusterRequest{Query: "q", TopK: -5},
		},
		{
			testName:      "surfaces missing results",
			arguments:     map[string]any{"query": "q"},
			err:           backend.ErrMissingResults,
			matchErr:      "missing results field",
			expectRequest: &docsearch.ClusterRequest{Query: "q"},
		},
	}

	for _, test := range tests {
		t.Run(test.testName, func(t *testing.T) {
			g := NewWithT(t)

			docs := &fakeDocs{docs: test.docs, err: test.err}
			m := NewManager(docs, nil, 0, nil)

			argsJSON, _ := json.Marshal(test.arguments)
			request.Params.Arguments = argsJSON

			var input k8sGetDocumentationInput
			err := json.Unmarshal(request.Params.Arguments, &input)
			g.Expect(err).ToNot(HaveOccurred())

			result, _, err := m.HandleK8sGetDocumentation(context.Background(), request, input)
			g.Expect(err).ToNot(HaveOccurred())

			if test.expectRequest != nil {
				g.Expect(docs.cluster).To(Equal([]docsearch.ClusterRequest{*test.expectRequest}))
				g.Expect(docs.deadline).To(BeFalse())
			}

			if test.matchErr != "" {
				g.Expect(result.IsError).To(BeTrue())
				g.Expect(result.Content[0].(*mcp.TextContent).Text).To(ContainSubstring(test.matchErr))
				return
			}

			g.Expect(result.IsError).To(BeFalse())
			g.Expect(result.Content).To(HaveLen(test.expectCount))
		})
	}
}
