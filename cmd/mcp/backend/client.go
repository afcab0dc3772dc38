// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/metrics"
)

const (
	// PythonDocumentationPath is the backend endpoint for Python library queries.
	PythonDocumentationPath = "/api/python/documentation"
	// KubernetesDocumentationPath is the backend endpoint for Kubernetes queries.
	KubernetesDocumentationPath = "/api/kubernetes/documentation"

	// DefaultTimeout bounds a single request when no timeout is configured.
	DefaultTimeout = 2 * time.Minute

	// maxErrorBody caps how much of an error response is surfaced.
	maxErrorBody = 1 << 20
)

// Document is a single documentation match returned by the backend.
type Document struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Client sends documentation queries to the remote backend.
// It keeps no connection state between calls and is safe for concurrent use.
type Client struct {
	baseURL   string
	apiKey    string
	userAgent string
	timeout   time.Duration
	recorder  *metrics.Recorder
	logger    logr.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the key sent in the x-api-key header.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTimeout sets the timeout of a single request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMetrics sets the recorder for request metrics.
func WithMetrics(r *metrics.Recorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a Client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: "grounddocs-mcp",
		timeout:   DefaultTimeout,
		logger:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dispatch posts the JSON encoded payload to the backend path and returns
// the documents found in the results field of the response, in order.
//
// A non-200 status is returned as *Error carrying the response body.
// Connection failures, timeouts and malformed JSON are returned as is.
// A response without a results field fails with ErrMissingResults.
func (c *Client) Dispatch(ctx context.Context, path string, payload any) ([]Document, error) {
	start := time.Now()
	docs, outcome, err := c.dispatch(ctx, path, payload)
	c.recorder.ObserveDispatch(path, outcome, time.Since(start))
	return docs, err
}

func (c *Client) dispatch(ctx context.Context, path string, payload any) ([]Document, string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, "invalid_request", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, "invalid_request", fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	log := c.logger.WithValues("path", path, "requestID", requestID)
	log.V(1).Info("sending documentation request")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, "transport_error", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		errBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			return nil, "transport_error", readErr
		}
		log.V(1).Info("documentation request rejected", "status", resp.StatusCode)
		return nil, "backend_error", &Error{StatusCode: resp.StatusCode, Body: string(errBody)}
	}

	docs, err := decodeResults(resp.Body)
	if err != nil {
		return nil, "invalid_response", err
	}

	log.V(1).Info("documentation request completed", "results", len(docs))
	return docs, "success", nil
}

// httpClient returns a single-attempt client. The backend owns retries,
// so errors and non-200 responses are passed through unchanged.
func (c *Client) httpClient() *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 0
	rc.Logger = nil
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.HTTPClient.Timeout = c.timeout
	return rc
}

func decodeResults(r io.Reader) ([]Document, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Results *[]json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Results == nil {
		return nil, ErrMissingResults
	}

	docs := make([]Document, 0, len(*envelope.Results))
	for i, raw := range *envelope.Results {
		doc, err := decodeDocument(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid result at index %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// decodeDocument accepts a result either as an object or
// as a string holding the JSON encoding of the object.
func decodeDocument(raw json.RawMessage) (Document, error) {
	var doc Document
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var embedded string
		if err := json.Unmarshal(raw, &embedded); err != nil {
			return doc, err
		}
		raw = bytes.TrimSpace([]byte(embedded))
	}
	if bytes.Equal(raw, []byte("null")) {
		return doc, ErrNullResult
	}
	err := json.Unmarshal(raw, &doc)
	return doc, err
}
