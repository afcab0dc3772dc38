// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package resolver

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/command"
	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/metrics"
)

const (
	// SourceRegistry reports a version read from the installed distribution metadata.
	SourceRegistry = "registry"
	// SourcePip reports a version read from the package manager output.
	SourcePip = "pip"
	// SourceAbsent reports that no source could determine the version.
	SourceAbsent = "absent"
)

// ErrNotInstalled is returned by a Registry when no distribution matches the package name.
var ErrNotInstalled = errors.New("package not installed")

// Registry looks up the version of an installed distribution by package name.
type Registry interface {
	Version(ctx context.Context, name string) (string, error)
}

// Resolver determines the installed version of a Python package by trying,
// in order, the local distribution registry and the package manager.
type Resolver struct {
	registry   Registry
	runner     command.Runner
	pipCommand []string
	recorder   *metrics.Recorder
	logger     logr.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPipCommand sets the package manager command line, e.g. "pip" or "python3 -m pip".
func WithPipCommand(cmd string) Option {
	return func(r *Resolver) {
		if fields := strings.Fields(cmd); len(fields) > 0 {
			r.pipCommand = fields
		}
	}
}

// WithMetrics sets the recorder for resolution metrics.
func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Resolver) {
		r.recorder = m
	}
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// New creates a Resolver backed by the given registry and command runner.
func New(registry Registry, runner command.Runner, opts ...Option) *Resolver {
	r := &Resolver{
		registry:   registry,
		runner:     runner,
		pipCommand: []string{"pip"},
		logger:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// lookupStep is a single fallible way of finding a package version.
type lookupStep struct {
	source string
	lookup func(ctx context.Context, name string) (string, error)
}

// ResolveVersion returns the installed version of the package and true,
// or an empty string and false when no source could determine it.
// Lookup failures are logged and never returned.
func (r *Resolver) ResolveVersion(ctx context.Context, name string) (string, bool) {
	steps := []lookupStep{
		{source: SourceRegistry, lookup: r.registry.Version},
		{source: SourcePip, lookup: r.pipShow},
	}

	version, source := r.firstOf(ctx, name, steps)
	r.recorder.RecordResolution(source)
	return version, source != SourceAbsent
}

// firstOf runs the steps in order and stops at the first one reporting a version.
func (r *Resolver) firstOf(ctx context.Context, name string, steps []lookupStep) (string, string) {
	for _, step := range steps {
		version, err := step.lookup(ctx, name)
		if err == nil && version != "" {
			r.logger.V(1).Info("package version resolved", "package", name, "source", step.source, "version", version)
			return version, step.source
		}
		if err == nil {
			err = errors.New("no version reported")
		}
		r.logger.Info("could not determine package version", "package", name, "source", step.source, "error", err.Error())
	}
	return "", SourceAbsent
}

// pipShow runs the package manager show subcommand and
// returns the value of the Version field of its output.
func (r *Resolver) pipShow(ctx context.Context, name string) (string, error) {
	args := append(append([]string{}, r.pipCommand[1:]...), "show", name)
	out, err := r.runner.Run(ctx, r.pipCommand[0], args...)
	if err != nil {
		return "", err
	}
	if version := parseVersionField(out); version != "" {
		return version, nil
	}
	return "", fmt.Errorf("%s show %s: no Version field in output", r.pipCommand[0], name)
}

// parseVersionField scans the output line by line for the "Version:" prefix.
func parseVersionField(out []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if v, ok := strings.CutPrefix(line, "Version:"); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
