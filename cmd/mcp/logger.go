// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package main

import (
	"io"

	"github.com/go-logr/logr"
	"go.uber.org/zap/zapcore"
	ctrlzap "sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/grounddocs/grounddocs-mcp/cmd/mcp/config"
)

// newLogger returns a zap backed logger writing to w.
// The stdio transport owns stdout, so w is stderr outside of tests.
func newLogger(spec config.LoggingSpec, w io.Writer) logr.Logger {
	level := zapcore.InfoLevel
	switch spec.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	encoder := ctrlzap.ConsoleEncoder()
	if spec.Encoding == "json" {
		encoder = ctrlzap.JSONEncoder()
	}

	return ctrlzap.New(
		ctrlzap.WriteTo(w),
		ctrlzap.Level(level),
		encoder,
	)
}
