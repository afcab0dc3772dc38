// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package docsearch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"k8s.io/utils/ptr"

	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/backend"
	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/fingerprint"
)

const (
	// DefaultTopK is the number of documents requested when none is given.
	DefaultTopK = 10

	// KubernetesSubject is the subject of every cluster documentation query.
	KubernetesSubject = "kubernetes"
)

// ErrInvalidRequest is returned for queries rejected before reaching the backend.
var ErrInvalidRequest = errors.New("invalid documentation request")

// Dispatcher sends an enriched query to a backend endpoint.
type Dispatcher interface {
	Dispatch(ctx context.Context, path string, payload any) ([]backend.Document, error)
}

// VersionResolver finds the installed version of a library.
type VersionResolver interface {
	ResolveVersion(ctx context.Context, name string) (string, bool)
}

// EnvironmentCapturer builds a fingerprint of the cluster and the local host.
type EnvironmentCapturer interface {
	Capture(ctx context.Context) *fingerprint.Fingerprint
}

// LibraryRequest is a documentation query about a Python library.
// An empty Version is resolved from the local environment.
type LibraryRequest struct {
	Query   string
	Library string
	Version string
	TopK    int
}

// ClusterRequest is a documentation query about the Kubernetes
// cluster selected by the current kube context.
type ClusterRequest struct {
	Query   string
	Version string
	TopK    int
}

type libraryPayload struct {
	Query   string  `json:"query"`
	Library string  `json:"library"`
	Version *string `json:"version"`
	TopK    int     `json:"top_k"`
}

type clusterPayload struct {
	Query      string                   `json:"query"`
	Version    *string                  `json:"version"`
	TopK       int                      `json:"top_k"`
	SystemInfo *fingerprint.Fingerprint `json:"system_info"`
}

// Service enriches documentation queries with local context
// and forwards them to the backend.
type Service struct {
	backend       Dispatcher
	resolver      VersionResolver
	fingerprinter EnvironmentCapturer
	logger        logr.Logger
}

// NewService creates a Service.
func NewService(backend Dispatcher, resolver VersionResolver,
	fingerprinter EnvironmentCapturer, logger logr.Logger) *Service {
	return &Service{
		backend:       backend,
		resolver:      resolver,
		fingerprinter: fingerprinter,
		logger:        logger,
	}
}

// LibraryDocumentation searches the documentation of a Python library.
// When no version is given, the installed version is resolved and sent,
// or null is sent if it cannot be determined.
func (s *Service) LibraryDocumentation(ctx context.Context, req LibraryRequest) ([]backend.Document, error) {
	topK, err := validate(req.Query, req.Library, req.TopK)
	if err != nil {
		return nil, err
	}

	return enrichThenDispatch(ctx, s, backend.PythonDocumentationPath, req.Library,
		func(ctx context.Context) (libraryPayload, *string) {
			version := optional(req.Version)
			if version == nil {
				if v, ok := s.resolver.ResolveVersion(ctx, req.Library); ok {
					version = ptr.To(v)
				}
			}
			return libraryPayload{
				Query:   req.Query,
				Library: req.Library,
				Version: version,
				TopK:    topK,
			}, version
		})
}

// ClusterDocumentation searches the Kubernetes documentation.
// The environment fingerprint is always captured and sent,
// even when the caller supplies a version.
func (s *Service) ClusterDocumentation(ctx context.Context, req ClusterRequest) ([]backend.Document, error) {
	topK, err := validate(req.Query, KubernetesSubject, req.TopK)
	if err != nil {
		return nil, err
	}

	return enrichThenDispatch(ctx, s, backend.KubernetesDocumentationPath, KubernetesSubject,
		func(ctx context.Context) (clusterPayload, *string) {
			version := optional(req.Version)
			return clusterPayload{
				Query:      req.Query,
				Version:    version,
				TopK:       topK,
				SystemInfo: s.fingerprinter.Capture(ctx),
			}, version
		})
}

// enrichThenDispatch runs the enrichment step, logs the version it settled on
// and sends the resulting payload to the backend path. Backend errors are
// returned unchanged.
func enrichThenDispatch[P any](ctx context.Context, s *Service, path, subject string,
	enrich func(context.Context) (P, *string)) ([]backend.Document, error) {
	payload, version := enrich(ctx)

	s.logger.Info("querying documentation", "subject", subject, "version", version)
	return s.backend.Dispatch(ctx, path, payload)
}

func validate(query, subject string, topK int) (int, error) {
	switch {
	case strings.TrimSpace(query) == "":
		return 0, fmt.Errorf("%w: query must not be empty", ErrInvalidRequest)
	case strings.TrimSpace(subject) == "":
		return 0, fmt.Errorf("%w: library must not be empty", ErrInvalidRequest)
	case topK < 0:
		return 0, fmt.Errorf("%w: top_k must be positive, got %d", ErrInvalidRequest, topK)
	case topK == 0:
		return DefaultTopK, nil
	default:
		return topK, nil
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return ptr.To(s)
}
